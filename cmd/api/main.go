package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reservalexis/creolespeak/internal/api"
	"github.com/reservalexis/creolespeak/internal/cache"
	"github.com/reservalexis/creolespeak/internal/config"
	"github.com/reservalexis/creolespeak/internal/jobs"
	"github.com/reservalexis/creolespeak/internal/provider"
)

func main() {
	log.Println("Starting CreoleSpeak API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.HasPlaceholderCredentials() {
		log.Println("WARNING: CreoleCentric credentials are still placeholders — TTS submissions will be rejected until CREOLECENTRIC_API_KEY and CREOLECENTRIC_USER_ID are set")
	}

	// Translation cache: Redis when configured, in-memory otherwise
	var translationCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.TranslateCacheTTL)
		if err != nil {
			log.Printf("Redis cache unavailable (%v), falling back to in-memory", err)
			translationCache = cache.NewMemoryCache(cfg.TranslateCacheTTL)
		} else {
			defer redisCache.Close()
			translationCache = redisCache
			log.Println("Connected to Redis translation cache")
		}
	} else {
		translationCache = cache.NewMemoryCache(cfg.TranslateCacheTTL)
	}

	// Provider clients
	translator := provider.NewGoogleTranslator(cfg.TranslateBaseURL)
	tts := provider.NewCreoleCentricClient(cfg.CreoleCentricBaseURL, cfg.CreoleCentricAPIKey)

	// Single-slot job tracker
	tracker := jobs.NewTracker()

	// Create API handler
	handler := api.NewHandler(cfg, translator, tts, tracker, translationCache)
	router := api.NewRouter(handler, api.RouterConfig{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
