package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/request-tracker/backend/internal/auth"
	"github.com/request-tracker/backend/internal/config"
	"github.com/request-tracker/backend/internal/db"
	"github.com/request-tracker/backend/internal/models"
	"github.com/request-tracker/backend/internal/service"
)

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin-role user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RequireJWTSecret(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			store, err := db.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect db: %w", err)
			}
			defer store.Close()

			users := &service.UserService{Users: store, Hasher: auth.NewBcryptHasher(cfg.BcryptCost)}
			u, err := users.Create(ctx, service.UserInput{Name: name, Email: email, Password: password, Role: models.RoleAdmin})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("admin created")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
