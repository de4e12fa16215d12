package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/request-tracker/backend/internal/ai"
	"github.com/request-tracker/backend/internal/http/middleware"
	"github.com/request-tracker/backend/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LiveServer streams a user's live events over an upgraded connection.
type LiveServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID int64)
}

type Handler struct {
	Auth          *service.AuthService
	Tickets       *service.TicketService
	Feedback      *service.FeedbackService
	Notifications *service.NotificationService
	Users         *service.UserService
	Stats         *service.StatsService
	Assistant     *service.AssistantService
	Live          LiveServer
	Health        Pinger
	Validator     *validator.Validate
	Logger        zerolog.Logger
}

// NewValidator reports validation failures by JSON field name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// bind decodes the JSON body into req and validates it, writing a 400 on failure.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
			return false
		}
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return 0, false
	}
	return id, true
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, true
}

// mustActor is used behind middleware.Auth, so a missing actor is a routing bug.
func mustActor(c *gin.Context) service.Actor {
	a, ok := actorFrom(c)
	if !ok {
		panic("handler mounted without auth middleware")
	}
	return a
}

// handleError maps a service error onto the HTTP error envelope. Unknown errors are
// logged and answered with a generic 500.
func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", map[string]string{verr.Field: verr.Message})
	case errors.Is(err, service.ErrEmailTaken):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), map[string]string{"email": "unique"})
	case errors.Is(err, service.ErrPasswordMismatch):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), map[string]string{"currentPassword": "mismatch"})
	case errors.Is(err, service.ErrTicketNotResolved),
		errors.Is(err, service.ErrFeedbackExists),
		errors.Is(err, service.ErrInvalidTransition):
		writeError(c, http.StatusBadRequest, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	case errors.Is(err, service.ErrInvalidToken):
		writeError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid, expired or revoked", nil)
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", nil)
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	case errors.Is(err, service.ErrAssistantDisabled):
		writeError(c, http.StatusServiceUnavailable, "AI_NOT_CONFIGURED", "AI assistant is not configured", nil)
	case ai.IsRateLimited(err):
		writeError(c, http.StatusTooManyRequests, "AI_RATE_LIMITED", "AI provider is rate limiting requests, try again later", nil)
	case errors.Is(err, ai.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, "AI_TIMEOUT", "AI provider did not respond in time", nil)
	case errors.Is(err, ai.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI provider is unavailable", nil)
	case errors.Is(err, ai.ErrBadRequest):
		writeError(c, http.StatusBadRequest, "AI_BAD_REQUEST", "AI provider rejected the request", nil)
	case errors.Is(err, ai.ErrUnauthorized):
		h.Logger.Error().Err(err).Msg("ai provider rejected api key")
		writeError(c, http.StatusBadGateway, "AI_AUTH_FAILED", "AI provider authentication failed", nil)
	case errors.Is(err, ai.ErrUpstream):
		h.Logger.Error().Err(err).Msg("ai provider call failed")
		writeError(c, http.StatusBadGateway, "AI_UPSTREAM_ERROR", "AI provider request failed", nil)
	default:
		h.Logger.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDHeader)).
			Str("path", c.FullPath()).
			Msg("unhandled error")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
