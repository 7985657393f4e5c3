package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the TokenGate gateway.
//
// The OIDC bearer options themselves (server URL, provisioning, admin group)
// live in internal/settings and are read fresh on every authentication
// attempt; only process-lifetime configuration belongs here.
type Config struct {
	Port      int
	Version   string
	Database  DatabaseConfig
	Settings  SettingsConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	// URL selects the PostgreSQL user store; empty falls back to in-memory.
	URL string
}

type SettingsConfig struct {
	// RedisAddr selects the Redis settings source; empty falls back to env.
	RedisAddr     string
	RedisPassword string
	RedisKey      string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("TOKENGATE_PORT", 8080),
		Version: envStr("TOKENGATE_VERSION", "0.1.0"),
		Database: DatabaseConfig{
			URL: envStr("DATABASE_URL", ""),
		},
		Settings: SettingsConfig{
			RedisAddr:     envStr("SETTINGS_REDIS_ADDR", ""),
			RedisPassword: envStr("SETTINGS_REDIS_PASSWORD", ""),
			RedisKey:      envStr("SETTINGS_REDIS_KEY", "tokengate:oidc"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "tokengate"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
