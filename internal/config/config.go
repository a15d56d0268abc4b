// Package config also loads .env files and maps configuration onto the logger.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-sim/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are not overridden.
// It returns the file that was loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.GetLogger()
	}

	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldInputFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldInputFile, Value: envFile})
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// ParseLogLevel converts a configured level into a logrus level, defaulting to info.
func ParseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// ConfigureLoggingFromConfig builds the application logger from the Config
// and installs it as the package default.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	logger := logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
	logging.SetDefaultLogger(logger)
	return logger
}
