package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fleet-activity-go/internal/config"
	"github.com/jengzang/fleet-activity-go/internal/handler"
	"github.com/jengzang/fleet-activity-go/internal/middleware"
	"github.com/jengzang/fleet-activity-go/internal/report"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(cfg *config.Config, generator *report.Generator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fleet Activity API is running",
		})
	})

	reportHandler := handler.NewReportHandler(generator, cfg.ReportLoc)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	// Report generation fans out into many upstream calls per request.
	api.Use(middleware.RateLimit(10, time.Minute))
	{
		reports := api.Group("/reports")
		{
			reports.POST("/activity", reportHandler.Generate)
			reports.GET("/activity/export", reportHandler.Export)
		}
	}

	return r
}
