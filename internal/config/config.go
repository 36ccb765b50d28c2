package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Upstream API roots; empty means the real services
	WHOBaseURL   string
	QuoteBaseURL string

	// GatewayBaseURL is where the wizard's client reaches the gateway
	// endpoints; the default is loopback on ServerPort.
	GatewayBaseURL string

	// UpstreamTimeout bounds every outbound request
	UpstreamTimeout time.Duration

	TemplatesPath   string
	StaticFilesPath string
	// DatasetsPath optionally overrides the embedded reference datasets
	DatasetsPath string

	SessionMaxIdle time.Duration

	CacheEnabled bool
	CacheDriver  string
	CachePath    string
	CacheURL     string
	CacheTTL     time.Duration
}

// Load reads configuration from a .env file (when present) and environment
// variables with sensible defaults.
func Load() *Config {
	// Absent .env is fine; the environment wins either way.
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		ServerPort:      port,
		WHOBaseURL:      getEnv("WHO_BASE_URL", ""),
		QuoteBaseURL:    getEnv("QUOTE_BASE_URL", ""),
		GatewayBaseURL:  getEnv("GATEWAY_BASE_URL", "http://localhost:"+port+"/api"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		DatasetsPath:    getEnv("DATASETS_PATH", ""),
		SessionMaxIdle:  getEnvDuration("SESSION_MAX_IDLE", 2*time.Hour),
		CacheEnabled:    getEnvBool("CACHE_ENABLED", true),
		CacheDriver:     getEnv("CACHE_DRIVER", "sqlite"),
		CachePath:       getEnv("CACHE_PATH", "./precioustime.db"),
		CacheURL:        getEnv("CACHE_URL", ""),
		CacheTTL:        getEnvDuration("CACHE_TTL", 7*24*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable (e.g. "45s", "1h")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvBool reads a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
