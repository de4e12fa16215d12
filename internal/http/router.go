package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/request-tracker/backend/internal/config"
	"github.com/request-tracker/backend/internal/http/handlers"
	"github.com/request-tracker/backend/internal/http/middleware"
	"github.com/request-tracker/backend/internal/models"

	_ "github.com/request-tracker/backend/docs"
)

func Router(cfg config.Config, h *handlers.Handler, verifier middleware.TokenVerifier, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "" || cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		api.GET("/healthz", h.Healthz)
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/token", h.Token)
		api.POST("/token/refresh", h.RefreshToken)
		api.GET("/requests", middleware.OptionalAuth(verifier), h.ListRequests)
		api.GET("/ws", middleware.QueryAuth(verifier), h.LiveStream)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(verifier))
	{
		authed.POST("/logout", h.Logout)
		authed.POST("/change-password", h.ChangePassword)
		authed.GET("/users/me", h.Me)
		authed.PUT("/users/me", h.UpdateMe)

		authed.POST("/requests", h.CreateRequest)
		authed.GET("/requests/:id", h.GetRequest)
		authed.PUT("/requests/:id", h.UpdateRequest)
		authed.DELETE("/requests/:id", h.DeleteRequest)
		authed.POST("/requests/:id/feedback", h.AddFeedback)

		authed.GET("/notifications", h.ListNotifications)
		authed.PUT("/notifications/:id", h.MarkNotificationRead)
		authed.PUT("/notifications/:id/read", h.MarkNotificationRead)
		authed.DELETE("/notifications/:id", h.DeleteNotification)

		authed.GET("/stats", h.GetStats)
		authed.POST("/ai/message", h.AssistantMessage)
		authed.GET("/ai/history", h.AssistantHistory)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/requests/all", h.ListAllRequests)
		admin.PUT("/requests/:id/status", h.UpdateRequestStatus)
		admin.GET("/feedbacks", h.ListFeedback)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
