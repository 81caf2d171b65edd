// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/priyankgupta/doi-monitor/internal/api/handlers"
	"github.com/priyankgupta/doi-monitor/internal/api/middleware"
	"github.com/priyankgupta/doi-monitor/internal/service"
	"github.com/priyankgupta/doi-monitor/internal/session"
)

type Services struct {
	DOIService     *service.DOIService
	SessionManager *session.Manager
}

func NewRouter(services *Services, allowedOrigins []string, maxUploadBytes int64) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if maxUploadBytes > 0 {
		router.MaxMultipartMemory = maxUploadBytes
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.DOIService != nil {
		datasetHandler := handlers.NewDatasetHandler(services.DOIService, maxUploadBytes)
		datasetGroup := apiGroup.Group("/datasets")
		{
			datasetGroup.POST("", datasetHandler.Upload)
			datasetGroup.GET("/:id/options", datasetHandler.GetOptions)
			datasetGroup.GET("/:id/report", datasetHandler.GetReport)
		}

		if services.SessionManager != nil {
			sessionHandler := handlers.NewSessionHandler(services.SessionManager, services.DOIService)
			sessionGroup := apiGroup.Group("/sessions")
			{
				sessionGroup.POST("", sessionHandler.Create)
				sessionGroup.GET("/:id", sessionHandler.Get)
				sessionGroup.PUT("/:id/selection", sessionHandler.UpdateSelection)
				sessionGroup.PUT("/:id/window", sessionHandler.UpdateWindow)
				sessionGroup.GET("/:id/report", sessionHandler.GetReport)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
