// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/budget-sim/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported AI providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Provider          string `mapstructure:"provider" yaml:"provider"`
		Model             string `mapstructure:"model" yaml:"model"`
		BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Simulation struct {
		DefaultMonths int    `mapstructure:"default_months" yaml:"default_months"`
		Seed          uint64 `mapstructure:"seed" yaml:"seed"`
	} `mapstructure:"simulation" yaml:"simulation"`

	Export struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"export" yaml:"export"`

	Server struct {
		Address             string `mapstructure:"address" yaml:"address"`
		ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	} `mapstructure:"server" yaml:"server"`

	History struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"history" yaml:"history"`
}

// AITimeout returns the configured AI call timeout.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// AIActive reports whether recommendations should be requested from a model.
func (c *Config) AIActive() bool {
	return c.AI.Enabled && c.AI.Provider != ProviderNone
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return load("")
}

// InitializeConfigFromFile loads configuration from an explicit file, still
// applying defaults and environment overrides.
func InitializeConfigFromFile(path string) (*Config, error) {
	return load(path)
}

func load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-sim")
		v.AddConfigPath(".budget-sim")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("BUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Provider credentials and hosts are read from their usual, unprefixed variables
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("ai.base_url", "BUDGET_AI_BASE_URL", "OLLAMA_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind OLLAMA_HOST: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.AI.Provider = strings.ToLower(config.AI.Provider)
	if config.AI.BaseURL != "" && !strings.Contains(config.AI.BaseURL, "://") {
		config.AI.BaseURL = "http://" + config.AI.BaseURL
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// AI defaults
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ProviderOllama)
	v.SetDefault("ai.model", "llama3.2")
	v.SetDefault("ai.base_url", "http://localhost:11434")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.requests_per_minute", 0)

	// Simulation defaults
	v.SetDefault("simulation.default_months", models.DefaultSimulationMonths)
	v.SetDefault("simulation.seed", 0)

	// Export defaults
	v.SetDefault("export.directory", "exports")
	v.SetDefault("export.delimiter", ",")

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 60)

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "budget-sim.db")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate export delimiter
	if len([]rune(config.Export.Delimiter)) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	// Validate simulation horizon
	months := config.Simulation.DefaultMonths
	if months < models.MinSimulationMonths || months > models.MaxSimulationMonths {
		return fmt.Errorf("simulation.default_months must be between %d and %d, got: %d",
			models.MinSimulationMonths, models.MaxSimulationMonths, months)
	}

	// Validate AI configuration
	switch config.AI.Provider {
	case ProviderOllama, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("ai.provider must be one of ollama, gemini, none, got: %s", config.AI.Provider)
	}

	if config.AIActive() {
		if config.AI.Provider == ProviderGemini && config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when the gemini provider is enabled")
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}

		if config.AI.RequestsPerMinute < 0 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 0 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		// The AI call runs inside the HTTP handler, so it must finish before the write deadline.
		if write := config.Server.WriteTimeoutSeconds; write > 0 && config.AI.TimeoutSeconds >= write {
			return fmt.Errorf("ai.timeout_seconds (%d) must be lower than server.write_timeout_seconds (%d)",
				config.AI.TimeoutSeconds, write)
		}
	}

	return nil
}
