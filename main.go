package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aeronauty/DataVisualiser/internal/config"
	"github.com/aeronauty/DataVisualiser/internal/logger"
	"github.com/aeronauty/DataVisualiser/internal/server"
)

func main() {
	ctx := context.Background()

	// Load .env for local development; the file is optional
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetGlobalLevel(cfg.LogLevel)

	log.Printf("Starting Data Visualiser Service on port %s", cfg.Port)
	log.Printf("Environment: %s", cfg.Environment)
	if cfg.GCSBucket != "" {
		log.Printf("GCS Bucket: %s", cfg.GCSBucket)
	} else {
		log.Printf("Local Artifacts Dir: %s", cfg.LocalArtifactsDir)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Animated exports record in real time
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
