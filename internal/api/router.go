// Package api wires the gin router for the report server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/handler"
	"github.com/davitra/fleetboard/internal/middleware"
)

// SetupRouter builds the report server routes.
func SetupRouter(cfg *config.Config, h *handler.ReportHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", h.Health)

	// Each page load is a full telemetry cycle.
	r.GET("/", middleware.RateLimit(10, time.Minute), h.GetLeaderboard)

	// Rendered map artifacts.
	r.Static("/static", cfg.StaticDir)

	return r
}
