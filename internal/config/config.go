// Package config reads runtime configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the trigger binaries.
type Config struct {
	OrdersTable     string
	DocumentsBucket string
	PromotionsQueue string
	SenderAddress   string

	// SweepThreshold is the minimum age of a RECEIVED order before the
	// sweeper promotes it. Kept strictly below the sweep schedule so every
	// eligible order is caught within one extra cycle.
	SweepThreshold time.Duration
	SweepSchedule  string
	SweepMode      string

	PresignTTL time.Duration
}

const (
	defaultSweepThreshold = 4 * time.Minute
	defaultSweepSchedule  = "@every 5m"
	defaultPresignTTL     = 15 * time.Minute

	// SweepModeDirect promotes via the lifecycle engine in-process;
	// SweepModeEnqueue hands each order to the promotions queue instead.
	SweepModeDirect  = "direct"
	SweepModeEnqueue = "enqueue"
)

// Load reads configuration from environment variables, falling back to
// defaults. A local .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OrdersTable:     readEnv("ORDERS_TABLE", "orders"),
		DocumentsBucket: readEnv("DOCUMENTS_BUCKET", "order-documents"),
		PromotionsQueue: os.Getenv("PROMOTIONS_QUEUE_URL"),
		SenderAddress:   readEnv("NOTIFY_SENDER", "orders@example.com"),
		SweepThreshold:  readDuration("SWEEP_THRESHOLD", defaultSweepThreshold),
		SweepSchedule:   readEnv("SWEEP_SCHEDULE", defaultSweepSchedule),
		SweepMode:       readEnv("SWEEP_MODE", SweepModeDirect),
		PresignTTL:      readDuration("PRESIGN_TTL", defaultPresignTTL),
	}
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func readDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
