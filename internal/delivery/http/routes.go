package http

import (
	"github.com/gin-gonic/gin"
	"github.com/openrecipes/ingredient-panel/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/", handler.Page)

	v1 := router.Group("/api/v1")
	{
		panel := v1.Group("/panel")
		{
			panel.GET("", handler.PanelState)
			panel.GET("/export.xlsx", handler.ExportWorkbook)
		}
	}

	return router
}
