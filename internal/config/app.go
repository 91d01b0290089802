package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Load reads a .env file from the working directory, if there is one.
// Variables already present in the environment take precedence.
func Load(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not loaded", slog.Any("error", err))
	}
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}
