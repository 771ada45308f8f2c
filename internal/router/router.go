package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/smedocgen/backend/config"
	"github.com/smedocgen/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	corsOrigins []string,
	templateHandler *handler.TemplateHandler,
	settingHandler *handler.SettingHandler,
	generateHandler *handler.GenerateHandler,
	historyHandler *handler.HistoryHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
	}
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "SME Document Generator API"})
		})

		templates := api.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
			templates.POST("/:id/test", templateHandler.Test)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", settingHandler.List)
			settings.PUT("", settingHandler.Update)
			settings.GET("/test-connection", settingHandler.TestConnection)
		}

		api.POST("/generate", generateHandler.Generate)

		history := api.Group("/history")
		{
			history.GET("/docs", historyHandler.List)
			history.GET("/docs/:id", historyHandler.Get)
			history.GET("/docs/:id/download", historyHandler.Download)
		}
	}

	return r
}
