// Package api implements the HTTP surface of the replay server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/logger"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// SetupRouter creates and configures the Gin router with all routes.
// The registry must be fully loaded before the router starts serving; the
// handlers read it without locking.
func SetupRouter(log logger.Interface, registry *archive.Registry) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	handler := NewHandler(log, registry)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sites": registry.Len()})
	})

	router.GET("/", handler.Index)
	router.GET("/index.html", handler.Index)
	router.GET("/page/*target", handler.Page)
	router.GET("/asset/*target", handler.Asset)

	// Anything else is treated as an implicit page request so a page's
	// self-relative links still resolve.
	router.NoRoute(handler.FallbackPage)

	return router
}

// requestIDMiddleware assigns each request a correlation id, honoring one
// supplied by the client.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// loggingMiddleware creates a middleware that logs HTTP requests.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", statusCode,
			"latency", latency,
			"request_id", c.GetString("request_id"),
		)
	}
}
