package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Env values recognised by the application.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed into component constructors.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	Env         string
	SwaggerHost string
}

// Load builds Config from the environment. MYSQL_DSN and JWT_SECRET are
// required; the process refuses to start rather than fall back to a
// guessable default secret or a local database.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    strings.TrimSpace(os.Getenv("MYSQL_DSN")),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Env:         getEnv("APP_ENV", EnvDevelopment),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}

	if cfg.MySQLDSN == "" {
		return nil, errors.New("MYSQL_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsDevelopment reports whether error detail may be surfaced in responses.
func (c *Config) IsDevelopment() bool {
	return c.Env != EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
