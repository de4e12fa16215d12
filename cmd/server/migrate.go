package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/request-tracker/backend/internal/config"
	"github.com/request-tracker/backend/internal/db"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the bootstrap database schema",
		Long:  `Create any missing tables and indexes. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			store, err := db.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect db: %w", err)
			}
			defer store.Close()

			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
			logger.Info().Msg("schema applied")
			return nil
		},
	}
}
