package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const defaultForecastURL = "https://wildebeast.onrender.com/api/forecast"

type Config struct {
	Port             string
	Environment      string
	RenderToken      string
	ForecastURL      string
	FirestoreProject string
}

func Load() *Config {
	// Local development convenience; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "production"),
		RenderToken:      getEnv("WILDEBEAST_RENDER_TOKEN", ""),
		ForecastURL:      getEnv("WILDEBEAST_FORECAST_URL", defaultForecastURL),
		FirestoreProject: getEnv("FIRESTORE_PROJECT_ID", ""),
	}

	// A missing credential cannot be remediated by any caller, so the
	// process refuses to become ready rather than failing per request.
	if cfg.RenderToken == "" {
		log.Fatal("WILDEBEAST_RENDER_TOKEN is required")
	}

	if cfg.FirestoreProject == "" {
		log.Println("FIRESTORE_PROJECT_ID not set, forecast history disabled")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
