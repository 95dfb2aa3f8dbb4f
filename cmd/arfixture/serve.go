package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MosinFAM/arfixture/internal/api"
	"github.com/MosinFAM/arfixture/internal/config"
	"github.com/MosinFAM/arfixture/internal/db"
	"github.com/MosinFAM/arfixture/internal/logger"
	"github.com/MosinFAM/arfixture/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.Env)
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := &api.Handler{Storage: store, IncludeRootInJSON: cfg.IncludeRootInJSON}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(handler, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.StorageType).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}

// openStorage picks the store named by STORAGE_TYPE. Postgres is migrated
// first when AUTO_MIGRATE is on.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	if cfg.StorageType != config.StoragePostgres {
		return storage.NewMemoryStorage(), func() {}, nil
	}

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeConn := func() { closeDB(conn) }
	if cfg.AutoMigrate {
		if err := db.Migrate(conn, cfg.MigrationsDir, "up"); err != nil {
			closeConn()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return storage.NewPostgresStorage(conn, cfg.DatabaseURL), closeConn, nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		log.Error().Err(err).Msg("Closing database")
	}
}
