package api

import (
	"io/fs"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ecuador-legendario/premium-api/docs"
	"github.com/ecuador-legendario/premium-api/internal/api/handler"
	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/http/handlers"
)

const maxBodySize = "64K"

// Deps is everything the HTTP layer needs. Services are constructed by the
// caller; the router only wires them to routes.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Premium  ports.PremiumService
	Sessions ports.SessionService

	Session      middleware.SessionConfig
	PublicConfig handler.PublicConfig
	HealthChecks []handlers.DependencyCheck

	// Static is served at "/" when set.
	Static fs.FS

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "premium",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	// --- Dependencies ---
	sessions := middleware.NewSessions(d.Session, d.Sessions)
	authHandler := handler.NewAuthHandler(d.Auth, sessions)
	premiumHandler := handler.NewPremiumHandler(d.Premium)
	configHandler := handler.NewConfigHandler(d.PublicConfig)

	// --- API routes ---
	apiGroup := e.Group("/api", sessions.Load())
	apiGroup.GET("/config", configHandler.Get)

	auth := apiGroup.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	paypal := apiGroup.Group("/paypal", middleware.RequireLogin())
	paypal.POST("/create-order", premiumHandler.CreateOrder)
	paypal.POST("/capture-order", premiumHandler.CaptureOrder)

	apiGroup.GET("/premium/gate", premiumHandler.Gate)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if d.Static != nil {
		e.StaticFS("/", d.Static)
	}

	return e
}
