// Package config centralises configuration parsing for the workout stats service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinSessionCacheBytes is the smallest session cache accepted from the
// environment.
const MinSessionCacheBytes = 16 * 1024 * 1024

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress       string
	DatasetPath       string // optional export preloaded as the "default" session
	Discipline        string // rows of other disciplines are dropped; empty keeps all
	SessionCacheBytes int
	SessionTTL        time.Duration
	FetchTimeout      time.Duration
	FetchMaxElapsed   time.Duration
	FetchAllowHTTP    bool
	FetchAllowPrivate bool // lets ?url= reach loopback and private networks
	ProcessTimeout    time.Duration
	MaxUploadBytes    int64
	MetricsNamespace  string
}

// Load reads .env (if present) and the environment into Config, applying
// defaults for local use.
func Load() Config {
	_ = godotenv.Load() // loads .env
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() Config {
	addr := getEnv("HTTP_ADDRESS", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "8080")
	}
	return Config{
		HTTPAddress:       addr,
		DatasetPath:       getEnv("DATASET_PATH", ""),
		Discipline:        lookupEnv("DISCIPLINE", "Cycling"),
		SessionCacheBytes: max(getIntEnv("SESSION_CACHE_BYTES", 64*1024*1024), MinSessionCacheBytes),
		SessionTTL:        getDurationEnv("SESSION_TTL", 24*time.Hour),
		FetchTimeout:      getDurationEnv("FETCH_TIMEOUT", 15*time.Second),
		FetchMaxElapsed:   getDurationEnv("FETCH_MAX_ELAPSED", 30*time.Second),
		FetchAllowHTTP:    getBoolEnv("FETCH_ALLOW_HTTP", false),
		FetchAllowPrivate: getBoolEnv("FETCH_ALLOW_PRIVATE", false),
		ProcessTimeout:    getDurationEnv("PROCESS_TIMEOUT", 40*time.Second),
		MaxUploadBytes:    int64(getIntEnv("MAX_UPLOAD_BYTES", 20*1024*1024)),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "workout_stats"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// lookupEnv is getEnv but an explicitly empty value is kept.
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
