package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`
	IntentTTL    time.Duration `env:"INTENT_TTL,    default=30m"`
	EventWorkers int           `env:"EVENT_WORKERS, default=8"`

	Bank  BankConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type BankConfig struct {
	URL     string        `env:"BANK_API_URL,     default=http://localhost:8000/api"`
	Timeout time.Duration `env:"BANK_API_TIMEOUT, default=10s"`

	BreakerMaxRequests         uint32        `env:"BREAKER_MAX_REQUESTS,         default=3"`
	BreakerInterval            time.Duration `env:"BREAKER_INTERVAL,             default=2m"`
	BreakerTimeout             time.Duration `env:"BREAKER_TIMEOUT,              default=30s"`
	BreakerConsecutiveFailures uint32        `env:"BREAKER_CONSECUTIVE_FAILURES, default=5"`
}

// MongoConfig configures the transfer attempt journal. An empty URI disables it.
type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=portal_gateway"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=3s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Bank.URL == "" {
		errs = append(errs, errors.New("BANK_API_URL is required"))
	}
	if c.SessionTTL <= 0 || c.IntentTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL and INTENT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads and validates configuration from lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
