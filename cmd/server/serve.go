package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/request-tracker/backend/internal/ai"
	"github.com/request-tracker/backend/internal/auth"
	"github.com/request-tracker/backend/internal/config"
	"github.com/request-tracker/backend/internal/db"
	httpapi "github.com/request-tracker/backend/internal/http"
	"github.com/request-tracker/backend/internal/http/handlers"
	"github.com/request-tracker/backend/internal/live"
	"github.com/request-tracker/backend/internal/service"
)

func newServeCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the bootstrap schema before serving")
	return cmd
}

func serve(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg)
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect db: %w", err)
	}
	defer store.Close()
	if migrate {
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var publisher live.Publisher = live.NopPublisher{}
	var hub handlers.LiveServer
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		broker := live.NewRedisBroker(client, logger)
		publisher = broker
		hub = live.NewHub(broker, cfg.CORSAllowed, logger)
	} else {
		logger.Info().Msg("REDIS_URL not set, live channel disabled")
	}

	var assistant ai.Assistant
	if cfg.MistralAPIKey != "" {
		assistant = ai.NewMistralAssistant(cfg.MistralURL, cfg.MistralAPIKey, cfg.MistralModel, cfg.AITimeout)
	} else {
		logger.Info().Msg("MISTRAL_API_KEY not set, AI assistant disabled")
	}

	jwtSvc := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	h := newHandler(cfg, store, jwtSvc, publisher, assistant, logger)
	h.Live = hub

	router := httpapi.Router(cfg, h, jwtSvc, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
	return nil
}

func newHandler(cfg config.Config, store *db.Store, jwtSvc *auth.JWTService, publisher live.Publisher, assistant ai.Assistant, logger zerolog.Logger) *handlers.Handler {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	notifier := &service.Notifier{
		Notifications: store,
		Publisher:     publisher,
		Logger:        logger.With().Str("component", "notifier").Logger(),
	}
	return &handlers.Handler{
		Auth: &service.AuthService{Users: store, Tokens: store, Hasher: hasher, Issuer: jwtSvc},
		Tickets: &service.TicketService{
			Tickets:   store,
			Users:     store,
			Observers: []service.TicketObserver{notifier},
			Logger:    logger,
		},
		Feedback:      &service.FeedbackService{Tickets: store, Feedback: store},
		Notifications: &service.NotificationService{Notifications: store},
		Users:         &service.UserService{Users: store, Hasher: hasher},
		Stats:         &service.StatsService{Stats: store},
		Assistant: &service.AssistantService{
			Assistant:     assistant,
			Conversations: store,
			MaxAttempts:   cfg.AIMaxAttempts,
			Backoff:       cfg.AIBackoff,
			Logger:        logger.With().Str("component", "assistant").Logger(),
		},
		Health:    store,
		Validator: handlers.NewValidator(),
		Logger:    logger,
	}
}
