package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendDB    = "db"
	BackendRedis = "redis"
)

type Config struct {
	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	HTTP struct {
		Host string
		Port string
	}

	Storage struct {
		Backend string // "db" or "redis"
	}

	DB struct {
		Dialect string // "sqlite" or "mysql"
		DSN     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	TMDB struct {
		APIKey  string
		BaseURL string
	}
}

// New builds configuration from environment variables with sensible local
// defaults. A .env file in the working directory is loaded first if present.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "http_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Storage
	cfg.Storage.Backend = getEnvDefault("STORAGE_BACKEND", BackendDB)

	// Database (key-value snapshot table)
	cfg.DB.Dialect = getEnvDefault("DB_DIALECT", "sqlite")
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.DSN == "" {
		switch cfg.DB.Dialect {
		case "mysql":
			host := getEnvDefault("DB_HOST", "localhost")
			port := getEnvDefault("DB_PORT", "3306")
			user := getEnvDefault("DB_USER", "root")
			password := getEnvDefault("DB_PASSWORD", "root")
			name := getEnvDefault("DB_NAME", "plexflix")
			cfg.DB.DSN = user + ":" + password + "@tcp(" + host + ":" + port + ")/" + name +
				"?parseTime=true&charset=utf8mb4&loc=UTC"
		default:
			cfg.DB.DSN = getEnvDefault("DB_PATH", "plexflix.db")
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// Catalog API
	cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	cfg.TMDB.BaseURL = getEnvDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
