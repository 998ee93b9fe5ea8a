package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/pixelmind/server/internal/config"
	"codeberg.org/pixelmind/server/internal/logger"
)

// @title PixelMind API
// @version 1.0
// @description Metered AI image and video generation
// @description
// @description Features:
// @description - Text-to-image generation with style presets
// @description - Image enhancement (upscale, sharpen, denoise, color, face)
// @description - Image-to-video animation with live progress over WebSockets
// @description - Per-user daily quotas with UTC midnight reset

// @contact.name API Support
// @contact.url https://codeberg.org/pixelmind/server

// @license.name GPL-3.0
// @license.url https://www.gnu.org/licenses/gpl-3.0.html

// @host pixelmind.app

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

// video renders hold the POST response open while the operation is polled
const writeTimeout = 10 * time.Minute

func main() {
	logger.Info("starting pixelmind server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// start usage event recorder
	srv.recorder.Start()

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// drain queued usage events before the database goes away
	srv.recorder.Stop()

	srv.Close()

	logger.Info("server stopped")
}
