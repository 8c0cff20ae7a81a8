package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/playcrest/playcrest-backend/internal/handlers"
	"github.com/playcrest/playcrest-backend/internal/middleware"
	"github.com/playcrest/playcrest-backend/internal/utils"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	TasksHandler   *handlers.TasksHandler
	CardsHandler   *handlers.CardsHandler
	RelayHandler   *handlers.RelayHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("playcrest-backend"))

	// Cors
	allowedOrigins := strings.Split(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5174", nil), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Relay
	protected.GET("/ws", cfg.RelayHandler.Connect)
	// API
	api := protected.Group("/api")
	{
		api.POST("/tasks", cfg.TasksHandler.CreateTask)
		api.GET("/tasks/:id", cfg.TasksHandler.GetTask)
		api.GET("/insights", cfg.TasksHandler.GetInsights)
		api.GET("/system/health", cfg.TasksHandler.GetSystemHealth)
		api.POST("/cards/render", cfg.CardsHandler.RenderCard)
	}

	return router
}
