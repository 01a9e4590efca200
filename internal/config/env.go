package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var envPaths = []string{".env", ".env.local"}

// loadEnvFile loads environment variables from the first .env/.env.local file found
// in the working directory. Existing process environment variables are not overwritten.
func loadEnvFile() error {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return err
		}
		slog.Info("Loaded environment variables", "path", envPath)
		return nil
	}
	return errors.New("no .env file found")
}
