package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/tradejournal/backend/src/config"
	"github.com/username/tradejournal/backend/src/database"
	"github.com/username/tradejournal/backend/src/handlers"
	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/metrics"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/security"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/telemetry"
	"github.com/username/tradejournal/backend/src/utils"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Trade journal backend server starting...")

	if err := telemetry.Init(config.Cfg.TracingEnabled, os.Stdout); err != nil {
		logger.L.Error("Failed to initialise tracing", "error", err)
	}

	logger.L.Info("Loading instrument specs...", "path", config.Cfg.InstrumentSpecsPath)
	specs, err := instruments.LoadTable(config.Cfg.InstrumentSpecsPath)
	if err != nil {
		logger.L.Error("Failed to load instrument specs", "error", err)
		os.Exit(1)
	}
	logger.L.Info("Instrument specs loaded.", "count", specs.Len())

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	importService := services.NewImportService(
		parsers.NewRegistry(specs),
		processors.NewTradeProcessor(),
		database.DB,
		resultCache,
		config.Cfg.ResultCacheTTL,
	)
	importHandler := handlers.NewImportHandler(importService, config.Cfg.MaxUploadSizeBytes)
	tradeHandler := handlers.NewTradeHandler(importService)

	logger.L.Info("Configuring routes...")
	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitPerSecond), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handlers.RequestLogger)
	r.Use(handlers.CORSMiddleware(config.Cfg.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.RateLimitMiddleware(limiter))
		r.Get("/platforms", importHandler.HandleListPlatforms)
		r.Get("/stats", importHandler.HandleStats)

		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(authService))
			r.Post("/imports", importHandler.HandleImport)
			r.Get("/imports", importHandler.HandleGetImports)
			r.Get("/trades", tradeHandler.HandleGetTrades)
			r.Delete("/trades", tradeHandler.HandleDeleteTrades)
		})
	})

	srv := &http.Server{
		Addr:              ":" + config.Cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.L.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.L.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		logger.L.Error("Tracer shutdown failed", "error", err)
	}
	if err := database.DB.Close(); err != nil {
		logger.L.Error("Database close failed", "error", err)
	}
	logger.L.Info("Server stopped.")
}
