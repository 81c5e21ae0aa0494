package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	AppEnv          string
	BaseURL         string
	ShortCodeLength int
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:          getEnv("APP_ENV", "local"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		ShortCodeLength: getEnvInt("SHORT_CODE_LENGTH", 0), // 0 = service default
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
