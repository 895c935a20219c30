package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"impact/internal/auth"
	"impact/internal/dashboard"
	"impact/internal/http/handlers"
	"impact/internal/http/httpapi"
	"impact/internal/infra"
	"impact/internal/infra/geoip"
	"impact/internal/middleware"
	"impact/internal/seed"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	store, err := infra.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer store.Close()

	if cfg.SeedDemo {
		if err := seed.EnsureDemoUser(ctx, store); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
		logger.Info().Str("email", seed.DemoEmail).Msg("demo account available")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	authSvc := auth.NewService(store, cfg.JWTSecret)
	dashSvc := dashboard.NewService(store)
	app := handlers.NewApp(store, authSvc, dashSvc, logger)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:            logger,
		CountryLookup:     countryLookup,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("driver", cfg.StorageDriver).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
