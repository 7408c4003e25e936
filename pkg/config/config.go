package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the bootstrap layer reads from the
// environment. The signaling core never touches it.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// AllowedOrigins is the cross-origin allow-list. Empty means every
	// origin is accepted.
	AllowedOrigins []string

	// LogLevel is a logrus level name.
	LogLevel string
}

// Load reads the configuration from the environment, honoring a .env
// file when one is present.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsIntOrDefault("PORT", 8080),
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// OriginAllowed reports whether a request origin passes the allow-list.
func (c *Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// splitOrigins parses the comma-separated allow-list, dropping empty
// entries so a trailing comma does not lock everyone out.
func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
