// @title       Portal Gateway API
// @version     1.0
// @description Session gate and idempotent transfer submission in front of the bank REST service.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/api"
	"github.com/corebank/portal-gateway/internal/core/service"
	"github.com/corebank/portal-gateway/internal/infrastructure/bankapi"
	mongodb "github.com/corebank/portal-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/corebank/portal-gateway/internal/infrastructure/db/redis"
	"github.com/corebank/portal-gateway/internal/infrastructure/http/handlers"
	"github.com/corebank/portal-gateway/internal/infrastructure/queue"
	"github.com/corebank/portal-gateway/internal/pkg/config"
	"github.com/corebank/portal-gateway/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal-gateway",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
	}

	checks := []handlers.Check{handlers.RedisCheck(rdb)}
	sinks := []queue.Sink{}

	var closeMongo func(context.Context)
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("attempt journal disabled")
		} else {
			journal := mongodb.NewAttemptRepository(db)
			if err := journal.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("ensure journal indexes")
			}
			sinks = append(sinks, queue.JournalSink(journal))
			checks = append(checks, handlers.MongoCheck(db))
			closeMongo = func(ctx context.Context) { _ = client.Disconnect(ctx) }
		}
	}

	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	intents := redisdb.NewIntentStore(rdb, cfg.IntentTTL)
	feed := redisdb.NewNotificationFeed(rdb, cfg.SessionTTL)

	bank := bankapi.New(bankapi.Config{
		BaseURL: cfg.Bank.URL,
		Timeout: cfg.Bank.Timeout,
		Breaker: bankapi.BreakerConfig{
			MaxRequests:         cfg.Bank.BreakerMaxRequests,
			Interval:            cfg.Bank.BreakerInterval,
			Timeout:             cfg.Bank.BreakerTimeout,
			ConsecutiveFailures: cfg.Bank.BreakerConsecutiveFailures,
		},
	}, logger.Component("bankapi"))

	sinks = append(sinks,
		queue.NotificationSink(feed),
		queue.MetricsSink(),
		queue.LogSink(logger.Component("events")),
	)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, logger.Component("dispatcher"), sinks...)
	dispatcher.Start(context.WithoutCancel(ctx))

	e := api.NewRouter(api.Dependencies{
		Sessions:      service.NewSessionService(sessions, bank, cfg.JWTSecret, cfg.SessionTTL, logger.Component("sessions")),
		Transfers:     service.NewTransferSubmitter(sessions, intents, bank, bank, dispatcher, logger.Component("transfers")),
		Notifications: feed,
		JWTSecret:     cfg.JWTSecret,
		HealthChecks:  checks,
		Log:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("portal gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(log, e.Shutdown, dispatcher, rdb.Close, closeMongo)
}

func shutdown(
	log zerolog.Logger,
	stopHTTP func(context.Context) error,
	dispatcher *queue.Dispatcher,
	closeRedis func() error,
	closeMongo func(context.Context),
) {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := stopHTTP(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// In-flight submissions have returned, so every event is already queued.
	if err := dispatcher.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("event dispatcher shutdown")
	}
	if err := closeRedis(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
	if closeMongo != nil {
		closeMongo(ctx)
	}
	log.Info().Msg("shutdown complete")
}
