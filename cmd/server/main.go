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

	"kefu/config"
	"kefu/internal/database"
	"kefu/internal/logging"
	"kefu/internal/middleware"
	"kefu/internal/router"
	"kefu/pkg/cloudinary"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kefu",
		Short:         "Customer-service chat widget server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed default rows, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate()
		},
	})
	return root
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func migrate() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if !cfg.Database.Enabled() {
		return errors.New("DATABASE_URL is not set")
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.Seed(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("migration complete")
	return nil
}

func newBlob(cfg *config.CloudinaryConfig) (cloudinary.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if cfg.URL != "" {
		return cloudinary.NewClientFromURL(cfg.URL, cfg.Folder)
	}
	return cloudinary.NewClientFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret, cfg.Folder)
}

func serve(parent context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if db != nil {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := database.Seed(db); err != nil {
			log.Warn("seed failed", zap.Error(err))
		}
	} else {
		log.Warn("no database configured, serving process-local data")
	}

	blob, err := newBlob(&cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("cloudinary: %w", err)
	}
	if blob == nil {
		log.Warn("blob storage not configured, uploads disabled")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	go limiter.Run(ctx)

	engine, err := router.Setup(router.Deps{
		Config:  cfg,
		DB:      db,
		Blob:    blob,
		Limiter: limiter,
		Log:     log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
