package main

import (
	"fmt"
	"strings"

	"github.com/MosinFAM/arfixture/internal/config"
	"github.com/MosinFAM/arfixture/internal/db"
	"github.com/MosinFAM/arfixture/internal/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <command> [version]",
		Short: "Run schema migrations against DATABASE_URL",
		Long:  "Commands: " + strings.Join(db.Commands, ", "),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.Env)
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			conn, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer closeDB(conn)

			return db.Migrate(conn, cfg.MigrationsDir, args[0], args[1:]...)
		},
	}
}
