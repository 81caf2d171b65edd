// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/priyankgupta/doi-monitor/internal/api"
	"github.com/priyankgupta/doi-monitor/internal/cache"
	"github.com/priyankgupta/doi-monitor/internal/config"
	"github.com/priyankgupta/doi-monitor/internal/service"
	"github.com/priyankgupta/doi-monitor/internal/session"
	"github.com/priyankgupta/doi-monitor/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize caches and services
	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize result cache: %v", err)
	}

	memo := cache.NewMemoStore()
	doiService := service.NewDOIService(memo, resultCache, cfg.App.DefaultWindowDays)
	sessions := session.NewManager()

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		DOIService:     doiService,
		SessionManager: sessions,
	}, cfg.Server.AllowedOrigins, cfg.App.MaxUploadMB<<20)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
