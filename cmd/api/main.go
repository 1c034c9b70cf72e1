package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/config"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dashboard"
	"github.com/justsurfingit/applied-jobs-tracker/internal/database"
	"github.com/justsurfingit/applied-jobs-tracker/internal/handlers"
	"github.com/justsurfingit/applied-jobs-tracker/internal/logging"
	"github.com/justsurfingit/applied-jobs-tracker/internal/services"
	"github.com/justsurfingit/applied-jobs-tracker/internal/session"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Load Environment Variables
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Record Store
	var store database.Store
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory record store, data is lost on restart")
		store = database.NewMemoryStore()
	default:
		db, err := database.Connect(cfg.Database.DSN, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		store = database.NewGormStore(db)
	}

	// 3. Core Services
	loc := cfg.App.DisplayTimezone
	applications := services.NewApplicationService(store, logger, loc)
	llmService, err := services.NewLLMService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model, logger)
	if err != nil {
		logger.Fatal("llm init failed", zap.Error(err))
	}

	// 4. Sessions
	sessions := session.NewManager(
		auth.NewJWTProvider(cfg.Auth.JWTSecret),
		session.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, logger),
		cfg.Auth.SessionTTL,
		logger,
	)

	boards := dashboard.NewRegistry(dashboard.Deps{
		Adapter:   applications,
		Validator: validation.New(),
		Location:  loc,
		Logger:    logger,
	})
	boards.StartJanitor(ctx, time.Minute)

	// 5. Router
	r := handlers.NewRouter(handlers.RouterDeps{
		Sessions:     sessions,
		Boards:       boards,
		LLM:          llmService,
		Store:        store,
		Logger:       logger,
		AllowOrigins: cfg.App.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Serve until SIGINT/SIGTERM
	logger.Info("server starting", zap.String("port", cfg.App.HTTPPort))
	if err := serve(ctx, srv, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// serve runs srv until ctx ends, then drains in-flight requests for at
// most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
