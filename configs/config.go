package configs

import (
	"os"
)

// Config holds all configuration for both applications
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Hub      HubConfig
	Quote    QuoteConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr string
}

// HubConfig holds the light hub API configuration.
// URL includes the authorized-user segment, e.g. http://bridge-host/api/<user>.
type HubConfig struct {
	URL string
}

// QuoteConfig holds the stock quote service configuration
type QuoteConfig struct {
	URL    string
	APIKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Hub: HubConfig{
			URL: getEnv("HUB_URL", ""),
		},
		Quote: QuoteConfig{
			URL:    getEnv("QUOTE_URL", "https://cloud.iexapis.com/stable"),
			APIKey: getEnv("QUOTE_API_KEY", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
