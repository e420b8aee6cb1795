// @title        Ecuador Legendario Premium API
// @version      1.0
// @description  Session auth and PayPal-gated premium upgrade.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecuador-legendario/premium-api/internal/api"
	"github.com/ecuador-legendario/premium-api/internal/api/handler"
	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
	"github.com/ecuador-legendario/premium-api/internal/core/service"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/config"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/db/memory"
	mongodb "github.com/ecuador-legendario/premium-api/internal/infrastructure/db/mongo"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/db/postgres"
	redisdb "github.com/ecuador-legendario/premium-api/internal/infrastructure/db/redis"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/http/handlers"
	"github.com/ecuador-legendario/premium-api/internal/infrastructure/paypal"
	"github.com/ecuador-legendario/premium-api/pkg/logger"
	"github.com/ecuador-legendario/premium-api/web"
)

const serviceName = "premium-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
	})
	if cfg.Session.Secret == "dev_secret_change_me" {
		log.Warn().Msg("SESSION_SECRET is the development default")
	}
	if cfg.PayPal.ClientID == "" || cfg.PayPal.ClientSecret == "" {
		log.Warn().Msg("PayPal credentials are not set; payments will fail")
	}

	// --- Storage ---
	sqlDB, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(ctx, sqlDB, logger.For(log, "migrate")); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	if err := mongodb.EnsureOrderIndexes(ctx, mongoDB, cfg.Mongo.OrderTTL); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var sessionStore ports.SessionStore
	switch cfg.Session.Store {
	case "memory":
		mem := memory.NewSessionStore(time.Minute)
		defer mem.Close()
		sessionStore = mem
	default:
		sessionStore = redisdb.NewSessionStore(rdb)
	}

	// --- Services ---
	users := postgres.NewUserRepository(sqlDB)
	sessions := service.NewSessionService(sessionStore, cfg.Session.TTL, logger.For(log, "session"))
	authService := service.NewAuthService(users, sessions, logger.For(log, "auth"))

	gateway := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.PayPalBaseURL(),
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Description:  cfg.Premium.Description,
		Timeout:      cfg.PayPal.Timeout,
	}, logger.For(log, "paypal"))

	premiumService := service.NewPremiumService(
		gateway,
		mongodb.NewOrderRepository(mongoDB),
		users,
		sessions,
		redisdb.NewCaptureLock(rdb, cfg.Redis.LockTTL),
		service.PremiumPrice{Amount: cfg.Premium.Price, Currency: cfg.Premium.Currency},
		logger.For(log, "premium"),
	)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:      logger.For(log, "http"),
		Auth:     authService,
		Premium:  premiumService,
		Sessions: sessions,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secret:     cfg.Session.Secret,
			Secure:     cfg.Session.Secure || cfg.IsProduction(),
			TTL:        cfg.Session.TTL,
		},
		PublicConfig: handler.PublicConfig{
			PayPalEnv:       cfg.PayPal.Env,
			PayPalClientID:  cfg.PayPal.ClientID,
			PremiumCurrency: cfg.Premium.Currency,
			PremiumPrice:    cfg.Premium.Price,
		},
		HealthChecks: []handlers.DependencyCheck{
			{Name: "postgres", Check: sqlDB.PingContext},
			{Name: "mongodb", Check: func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) }},
			{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Static: web.Static(),
	})

	return serve(ctx, e, ":"+cfg.Port, cfg.ShutdownTimeout, log)
}

func serve(ctx context.Context, h http.Handler, addr string, shutdownTimeout time.Duration, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
