package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Notify NotifyConfig
}

type ServerConfig struct {
	Port string
}

type StoreConfig struct {
	// Driver selects the persistence backend: "json" (flat document files,
	// the default) or "sqlite" (embedded store holding the same documents).
	Driver     string
	DataDir    string
	SQLitePath string
}

type NotifyConfig struct {
	TTL time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "json"),
			DataDir:    getEnv("DATA_DIR", "data"),
			SQLitePath: getEnv("SQLITE_PATH", "agrotec.db"),
		},
		Notify: NotifyConfig{
			TTL: getEnvDuration("NOTIFY_TTL", 3*time.Second),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
