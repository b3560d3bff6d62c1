package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/corebank/portal-gateway/docs"
	"github.com/corebank/portal-gateway/internal/api/handler"
	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/core/service"
	"github.com/corebank/portal-gateway/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Sessions      ports.SessionService
	Transfers     ports.TransferService
	Notifications ports.NotificationFeed
	JWTSecret     string
	HealthChecks  []handlers.Check
	Log           zerolog.Logger
	// Registry receives the HTTP metrics. Defaults to the global registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))
	e.Use(middleware.Auth(deps.JWTSecret, deps.Sessions))
	e.Use(middleware.RequestLogger(deps.Log))

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Views ---
	viewHandler := handler.NewViewHandler()
	e.GET("/views/:view", viewHandler.Show)
	e.GET("/navigation", viewHandler.Navigation, middleware.Gate(service.ActionNavigation))

	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	e.GET("/notifications", notificationHandler.Drain, middleware.Gate(service.ActionNotifications))

	// --- Transfers ---
	transferHandler := handler.NewTransferHandler(deps.Transfers)
	e.GET("/accounts/eligible", transferHandler.EligibleAccounts, middleware.Gate(service.ActionEligibleAccounts))

	transfers := e.Group("/transfers")
	transfers.POST("", transferHandler.Open, middleware.Gate(service.ActionTransferOpen))
	transfers.GET("/:id", transferHandler.Get, middleware.Gate(service.ActionTransferRead))
	transfers.PATCH("/:id", transferHandler.Edit, middleware.Gate(service.ActionTransferEdit))
	transfers.DELETE("/:id", transferHandler.Cancel, middleware.Gate(service.ActionTransferCancel))
	transfers.POST("/:id/submit", transferHandler.Submit, middleware.Gate(service.ActionTransferSubmit))

	return e
}
