package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin engine.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.POST("/chat", h.Chat)
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	return r
}

// corsMiddleware allows any origin; the widget embedding this API runs on
// arbitrary intranet hosts.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
