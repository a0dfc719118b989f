package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// profileKey is the gin context key holding the resolved profile
const profileKey = "profile"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(sessionMiddleware(services.Auth, log))

	// Handlers
	directoryHandler := NewDirectoryHandler(services, log)
	eventHandler := NewEventHandler(services, log)
	leadHandler := NewLeadHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/categories", directoryHandler.ListCategories)
		v1.GET("/categories/:key/providers", directoryHandler.ListProviders)
		v1.GET("/providers/:id", directoryHandler.GetProvider)

		funnel := v1.Group("/funnel")
		{
			funnel.POST("/:key/match", directoryHandler.Match)
			funnel.PUT("/:key/responses", requireAuth(), directoryHandler.SaveResponse)
		}

		eventsGroup := v1.Group("/events")
		{
			eventsGroup.GET("", eventHandler.ListUpcoming)
			eventsGroup.POST("", requireAuth(), eventHandler.Submit)
			eventsGroup.POST("/:id/vote", requireAuth(), eventHandler.Vote)
		}

		v1.POST("/applications", leadHandler.SubmitApplication)

		bookings := v1.Group("/bookings", requireAuth())
		{
			bookings.POST("", leadHandler.CreateBooking)
			bookings.GET("", leadHandler.ListOwnBookings)
		}

		admin := v1.Group("/admin", requireAuth(), requireAdmin(services.Auth))
		{
			admin.GET("/providers/export", adminHandler.ExportProviders)
			admin.POST("/providers", adminHandler.CreateProvider)
			admin.PUT("/providers/:id", adminHandler.UpdateProvider)
			admin.PATCH("/providers/:id/publish", adminHandler.SetPublished)
			admin.DELETE("/providers/:id", adminHandler.DeleteProvider)

			admin.GET("/applications", adminHandler.ListApplications)
			admin.POST("/applications/:id/review", adminHandler.ReviewApplication)

			admin.GET("/bookings", adminHandler.ListBookings)
			admin.PATCH("/bookings/:id", adminHandler.UpdateBooking)

			admin.POST("/sync", adminHandler.TriggerSync)
			admin.POST("/backfill-images", adminHandler.BackfillImages)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "bonita-forward-api",
	})
}

// metricsHandler returns directory size metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		providers, eventsCount, err := services.Directory.Counts(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to collect metrics")
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"providers": providers,
			"events":    eventsCount,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// sessionMiddleware resolves an optional bearer token to a profile and
// threads it through the request context. Resolution failures are treated
// as anonymous, not fatal; endpoints that need a profile use requireAuth.
func sessionMiddleware(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			profile, err := auth.ResolveToken(c.Request.Context(), token)
			if err != nil {
				log.Error().Err(err).Msg("Failed to resolve session token")
			} else if profile != nil {
				c.Set(profileKey, profile)
			}
		}
		c.Next()
	}
}

// requireAuth aborts requests without a resolved profile
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentProfile(c) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireAdmin aborts requests whose profile is not an admin
func requireAdmin(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAdmin(currentProfile(c)) {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentProfile returns the resolved profile for the request, or nil
func currentProfile(c *gin.Context) *models.Profile {
	if v, ok := c.Get(profileKey); ok {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				respondError(c, http.StatusInternalServerError, "internal server error")
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
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
