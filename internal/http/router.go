package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/http/handlers"
	"github.com/yungbote/gazelab-backend/internal/http/middleware"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ManualHandler  *handlers.ManualHandler
	ActionHandler  *handlers.ActionHandler
	ChatbotHandler *handlers.ChatbotHandler
	HealthHandler  *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachRequestID())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.Check)

	router.POST("/", cfg.ManualHandler.Upload)
	router.POST("/action", cfg.ActionHandler.Submit)
	router.POST("/chatbot", cfg.ChatbotHandler.Ask)

	return router
}
