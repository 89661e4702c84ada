package api

import (
	"github.com/Ayash-Bera/mentor/backend/internal/api/handlers"
	"github.com/Ayash-Bera/mentor/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	ChatHandler    *handlers.ChatHandler
	ProfileHandler *handlers.ProfileHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
	Logger      *logrus.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		middleware.SecurityHeaders(),
	)

	r.GET("/health", cfg.HealthHandler.HandleHealth)

	api := r.Group("/api")
	api.GET("/questionnaire", cfg.ProfileHandler.HandleQuestions)

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	if cfg.RateLimiter != nil {
		protected.Use(cfg.RateLimiter.RateLimit())
	}
	{
		protected.POST("/chat", cfg.ChatHandler.HandleChat)
		protected.GET("/chat_history", cfg.ChatHandler.HandleHistory)
		protected.POST("/chat_feedback", cfg.ChatHandler.HandleFeedback)

		protected.POST("/submit_questionnaire", cfg.ProfileHandler.HandleSubmitQuestionnaire)
		protected.GET("/get_user_profile", cfg.ProfileHandler.HandleGetProfile)
		protected.GET("/progress", cfg.ProfileHandler.HandleProgress)
	}

	return r
}
