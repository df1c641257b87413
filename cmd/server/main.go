package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"wildebeast-llm-api/internal/config"
	"wildebeast-llm-api/internal/docs"
	"wildebeast-llm-api/internal/handlers"
	"wildebeast-llm-api/internal/services"
	"wildebeast-llm-api/pkg/wildebeast"
)

func main() {
	// Load configuration; exits here if the downstream credential is missing
	cfg := config.Load()

	// Initialize services
	historyService := services.NewHistoryService(context.Background(), cfg.FirestoreProject)
	defer historyService.Close()

	forecastClient := wildebeast.NewClient(cfg.ForecastURL, cfg.RenderToken)
	forecastService := services.NewForecastService(forecastClient, historyService)

	// Initialize handlers
	forecastHandler := handlers.NewForecastHandler(forecastService, historyService)
	healthHandler := handlers.NewHealthHandler()

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "Wildebeast-LLM-API",
		AppName:       "Wildebeast LLM API v1.0",
		ReadTimeout:   time.Second * 10,
		// The downstream call is bounded at 30s; leave headroom to flush.
		WriteTimeout: time.Second * 35,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))

	// Routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)
	docs.Register(app)

	v1 := app.Group("/api/v1")
	v1.Post("/forecast", forecastHandler.GetForecast)
	v1.Get("/history", forecastHandler.GetHistory)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Wildebeast LLM API started on port %s", port)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Forecast service: %s", cfg.ForecastURL)
	if historyService.Enabled() {
		log.Printf("Forecast history: Firestore project %s", cfg.FirestoreProject)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
