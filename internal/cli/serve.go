package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api"
	"github.com/aaravmahajanofficial/storefront-cart/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-cart/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-cart/internal/cache"
	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/aaravmahajanofficial/storefront-cart/internal/health"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-cart/internal/services"
	"github.com/aaravmahajanofficial/storefront-cart/internal/telemetry"
	"github.com/spf13/cobra"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, rootOpts.Config())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	// Database setup
	repo, err := repository.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("error accessing the database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		slog.Info("Schema applied", slog.String("driver", cfg.Database.Driver))
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		return fmt.Errorf("error accessing the redis instance: %w", err)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis client", slog.String("error", err.Error()))
		}
	}()

	productCache := cache.NewRedisCache(redisClient, cfg.Cache.DefaultTTL)

	carts := repository.NewCartRepo(repo.DB, repo.Dialect)
	products := repository.NewProductRepo(repo.DB, repo.Dialect)

	cartService := service.NewCartService(carts, products)
	productService := service.NewProductService(products, productCache, cfg.Cache.ProductTTL)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: repo.DB})
	if err != nil {
		return err
	}

	handler := api.NewRouter(api.RouterDeps{
		Cart:        handlers.NewCartHandler(cartService),
		Product:     handlers.NewProductHandler(productService),
		Auth:        middleware.NewAuthMiddleware(cfg.Security),
		RateLimiter: middleware.NewRateLimiter(repository.NewRateLimitRepo(redisClient, cfg.RateConfig), cfg.RateConfig.MaxRequests),
		Health:      healthHandler.Handler(),
		CORS:        cfg.CORS,
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server is starting...", slog.String("address", cfg.HTTPServer.Addr), slog.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown encountered an issue: %w", err)
	}

	slog.Info("✅ Server shut down gracefully. All connections closed.")

	return nil
}
