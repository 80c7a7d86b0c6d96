package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the immutable configuration for the service, loaded once at
// startup and passed to each component at construction time.
type AppConfig struct {
	// AEMETAPIKey authenticates the upstream metadata request.
	AEMETAPIKey string

	// DatabasePath is the sqlite file holding persisted observation records.
	DatabasePath string

	// WriteQueueSize bounds the background persistence queue.
	WriteQueueSize int

	// StatsInterval controls how often the store size is reported.
	StatsInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AEMETAPIKey = os.Getenv("AEMET_API_KEY")
	if cfg.AEMETAPIKey == "" {
		return nil, fmt.Errorf("AEMET_API_KEY is required")
	}

	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "./database/observations.db")
	cfg.WriteQueueSize = getenvInt("WRITE_QUEUE_SIZE", 64)

	statsStr := getenvDefault("STATS_INTERVAL", "15m")
	statsInterval, err := time.ParseDuration(statsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}
	cfg.StatsInterval = statsInterval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
