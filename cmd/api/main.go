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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"microblogSync/cmd/app"
	"microblogSync/internal/config"
	handlers "microblogSync/internal/handler"
	"microblogSync/internal/logger"
	"microblogSync/internal/metrics"
	"microblogSync/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// setting up config
	cfg := config.LoadConfig()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		return fmt.Errorf("не удалось создать логгер: %w", err)
	}
	defer log.Sync()

	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY не установлен в .env файле")
	}

	metrics.SetEnabled(cfg.Metrics.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, _, services, err := app.App(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, cfg, log)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}

	router := handler.Routes(middleware.AuthMiddleware(services.Auth), metricsHandler)

	handlerChain := middleware.Chain(
		router,
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(log),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("сервер запущен", zap.String("addr", server.Addr), zap.String("db", cfg.DB.DbNAME))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return services.Scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("останавливаем сервер")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
