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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/metrics"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/repository/entity"
	similarityrepo "github.com/Denis-Wendell/matchmaking-sub000/internal/repository/similarity"
	chiTransport "github.com/Denis-Wendell/matchmaking-sub000/internal/transport/chi"
	cataloguc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/catalog"
	explainuc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/explain"
	healthuc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/health"
	matchinguc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/matching"
	similarityuc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/similarity"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx, "API server")
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, logger := a.cfg, a.logger

	generator, err := buildGenerator(ctx, cfg.Generation, logger)
	if err != nil {
		return err
	}
	explainer := explainuc.New(generator, explainuc.Config{
		Provider:     cfg.Generation.Provider,
		Model:        cfg.Generation.Model,
		Timeout:      time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Concurrency:  cfg.Generation.Concurrency,
		MaxLogLength: cfg.Logging.MaxPreviewLength,
	}, logger)

	similar := similarityuc.New(similarityrepo.New(a.store), a.entities, cfg.Embedding.Model, logger)

	matcher := matchinguc.New(
		a.entities, a.entities, similar, a.indexer, explainer,
		matchinguc.Config{MaxPool: cfg.Ranking.MaxPool},
		logger,
	)

	healthSvc := healthuc.New(a.store, a.store, []string{
		entity.IndexName(domain.KindProfile),
		entity.IndexName(domain.KindPosting),
	}, a.embedder)

	catalog := cataloguc.New(a.entities, a.indexer, logger)

	server := chiTransport.NewServer(matcher, catalog, healthSvc, chiTransport.Options{
		MaxPageSize: cfg.Ranking.MaxPageSize,
		Diagnostics: cfg.Diagnostics.ExposeErrors,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
