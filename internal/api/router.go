package api

import (
	"net/http"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	principalKey = "principal"

	headerUserID = "X-User-ID"
	headerRole   = "X-User-Role"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(principalMiddleware())

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	moderationHandler := NewModerationHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		comments := v1.Group("/comments")
		{
			comments.POST("", requireAuth(), commentHandler.Submit)
			comments.GET("/:id", commentHandler.Get)
			comments.PATCH("/:id", requireAuth(), commentHandler.Update)
			comments.DELETE("/:id", requireAuth(), commentHandler.Delete)

			comments.POST("/:id/flag", requireAuth(), moderationHandler.Flag)

			comments.POST("/:id/approve", requireAdmin(), moderationHandler.Approve)
			comments.POST("/:id/reject", requireAdmin(), moderationHandler.Reject)
		}

		// Admin-only moderation surface. Static segments live under /admin so
		// they cannot collide with the :id wildcard above.
		admin := v1.Group("/admin/comments", requireAdmin())
		{
			admin.GET("", moderationHandler.ListAll)
			admin.GET("/stats", moderationHandler.Stats)
			admin.GET("/deleted", moderationHandler.ListDeleted)
			admin.POST("/bulk", moderationHandler.BulkModerate)
		}

		v1.GET("/posts/:post_id/comments", commentHandler.ListForPost)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "comment-moderation-api",
	})
}

// metricsHandler returns comment pipeline metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Moderation.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect metrics"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"comments":  stats,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// principalMiddleware resolves the caller identity from the trusted headers
// set by the upstream auth layer. Authentication itself happens upstream;
// these headers arrive already verified.
func principalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, models.Principal{
			UserID: c.GetHeader(headerUserID),
			Role:   c.GetHeader(headerRole),
		})
		c.Next()
	}
}

// requireAuth rejects requests without a resolved caller identity
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if getPrincipal(c).UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireAdmin rejects callers without the admin role
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := getPrincipal(c)
		if principal.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// getPrincipal returns the caller identity stored by principalMiddleware
func getPrincipal(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Principal{}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, X-User-Role")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
