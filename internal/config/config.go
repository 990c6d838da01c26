package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Environment      string
	SessionBackend   string // "memory" or "redis"
	RedisURL         string
	SessionNamespace string
}

// LoadConfig reads the environment, optionally seeded from a local .env
// file. A missing .env is not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		SessionBackend:   getEnv("SESSION_BACKEND", "memory"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionNamespace: getEnv("SESSION_NAMESPACE", "exambank"),
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
