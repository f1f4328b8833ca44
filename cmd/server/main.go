package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waguri-backend/internal/config"
	"waguri-backend/internal/handlers"
	"waguri-backend/internal/router"
	"waguri-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Waguri Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Gemini Client ────
	assistant, err := services.NewAssistantService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer assistant.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(assistant, cfg.MaxMessageLen, cfg.HistoryWindow)
	widgetHandler := handlers.NewWidgetHandler(handlers.WidgetConfig{
		Endpoint:      "/api/v1/chat",
		MaxMessageLen: cfg.MaxMessageLen,
		HistoryWindow: cfg.HistoryWindow,
		TypingDelayMs: cfg.TypingDelayMs,
		Lang:          cfg.DefaultLang,
	})

	// ──── Step 3: Start HTTP Server ────
	r := router.New(chatHandler, widgetHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Waguri Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Widget: http://localhost:%s/", cfg.Port)
	log.Printf("  API:    http://localhost:%s/api/v1/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
