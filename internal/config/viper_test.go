package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, ProviderOllama, config.AI.Provider)
	assert.Equal(t, "llama3.2", config.AI.Model)
	assert.Equal(t, "http://localhost:11434", config.AI.BaseURL)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, 30*time.Second, config.AITimeout())
	assert.Equal(t, 0, config.AI.RequestsPerMinute)
	assert.Equal(t, 12, config.Simulation.DefaultMonths)
	assert.Equal(t, uint64(0), config.Simulation.Seed)
	assert.Equal(t, "exports", config.Export.Directory)
	assert.Equal(t, ",", config.Export.Delimiter)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.False(t, config.History.Enabled)
	assert.Equal(t, "budget-sim.db", config.History.Path)
	assert.True(t, config.AIActive())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"BUDGET_LOG_LEVEL":                 "debug",
		"BUDGET_LOG_FORMAT":                "json",
		"BUDGET_AI_PROVIDER":               "Gemini",
		"BUDGET_AI_MODEL":                  "gemini-1.5-pro",
		"BUDGET_AI_REQUESTS_PER_MINUTE":    "15",
		"BUDGET_SIMULATION_DEFAULT_MONTHS": "18",
		"BUDGET_SIMULATION_SEED":           "42",
		"BUDGET_EXPORT_DELIMITER":          ";",
		"GEMINI_API_KEY":                   "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ProviderGemini, config.AI.Provider)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, 15, config.AI.RequestsPerMinute)
	assert.Equal(t, 18, config.Simulation.DefaultMonths)
	assert.Equal(t, uint64(42), config.Simulation.Seed)
	assert.Equal(t, ";", config.Export.Delimiter)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_OllamaHost(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())
	t.Setenv("OLLAMA_HOST", "127.0.0.1:11500")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:11500", config.AI.BaseURL)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
  format: "json"
ai:
  enabled: false
  model: "mistral"
  timeout_seconds: 10
simulation:
  default_months: 24
export:
  directory: "out"
history:
  enabled: true
  path: "runs.db"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.False(t, config.AI.Enabled)
	assert.False(t, config.AIActive())
	assert.Equal(t, "mistral", config.AI.Model)
	assert.Equal(t, 10, config.AI.TimeoutSeconds)
	assert.Equal(t, 24, config.Simulation.DefaultMonths)
	assert.Equal(t, "out", config.Export.Directory)
	assert.True(t, config.History.Enabled)
	assert.Equal(t, "runs.db", config.History.Path)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  provider: none\n"), 0644))

	config, err := InitializeConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderNone, config.AI.Provider)
	assert.False(t, config.AIActive())

	_, err = InitializeConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
ai:
  model: "from-file"
  requests_per_minute: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	t.Setenv("BUDGET_LOG_LEVEL", "error")
	t.Setenv("BUDGET_AI_REQUESTS_PER_MINUTE", "25")
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)       // env var wins
	assert.Equal(t, "from-file", config.AI.Model)    // config file value
	assert.Equal(t, 25, config.AI.RequestsPerMinute) // env var wins
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.AI.Enabled = true
	c.AI.Provider = ProviderOllama
	c.AI.TimeoutSeconds = 30
	c.Simulation.DefaultMonths = 12
	c.Export.Delimiter = ","
	c.Server.WriteTimeoutSeconds = 60
	return c
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid delimiter",
			modifyConfig: func(c *Config) { c.Export.Delimiter = "ab" },
			expectError:  "export delimiter must be a single character",
		},
		{
			name:         "horizon too short",
			modifyConfig: func(c *Config) { c.Simulation.DefaultMonths = 5 },
			expectError:  "simulation.default_months must be between 6 and 24",
		},
		{
			name:         "horizon too long",
			modifyConfig: func(c *Config) { c.Simulation.DefaultMonths = 25 },
			expectError:  "simulation.default_months must be between 6 and 24",
		},
		{
			name:         "unknown provider",
			modifyConfig: func(c *Config) { c.AI.Provider = "openai" },
			expectError:  "ai.provider must be one of",
		},
		{
			name:         "gemini without API key",
			modifyConfig: func(c *Config) { c.AI.Provider = ProviderGemini },
			expectError:  "GEMINI_API_KEY required",
		},
		{
			name:         "timeout too small",
			modifyConfig: func(c *Config) { c.AI.TimeoutSeconds = 0 },
			expectError:  "ai.timeout_seconds must be between 1 and 300",
		},
		{
			name:         "timeout too large",
			modifyConfig: func(c *Config) { c.AI.TimeoutSeconds = 301 },
			expectError:  "ai.timeout_seconds must be between 1 and 300",
		},
		{
			name:         "negative rate",
			modifyConfig: func(c *Config) { c.AI.RequestsPerMinute = -1 },
			expectError:  "ai.requests_per_minute must be between 0 and 1000",
		},
		{
			name:         "AI timeout equal to write timeout",
			modifyConfig: func(c *Config) { c.AI.TimeoutSeconds = 60 },
			expectError:  "must be lower than server.write_timeout_seconds",
		},
		{
			name: "AI timeout above write timeout",
			modifyConfig: func(c *Config) {
				c.AI.TimeoutSeconds = 120
				c.Server.WriteTimeoutSeconds = 90
			},
			expectError: "must be lower than server.write_timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)

			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_WriteTimeout(t *testing.T) {
	config := validConfig()
	config.AI.TimeoutSeconds = 59
	assert.NoError(t, validateConfig(config))

	// Zero disables the HTTP write deadline.
	config.AI.TimeoutSeconds = 300
	config.Server.WriteTimeoutSeconds = 0
	assert.NoError(t, validateConfig(config))
}

func TestValidateConfig_DisabledAISkipsAIChecks(t *testing.T) {
	config := validConfig()
	config.AI.Enabled = false
	config.AI.TimeoutSeconds = 0
	config.AI.Provider = ProviderGemini

	assert.NoError(t, validateConfig(config))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		t.Run(format, func(t *testing.T) {
			config := validConfig()
			config.Log.Format = format

			logger := ConfigureLoggingFromConfig(config)
			assert.NotNil(t, logger)
		})
	}
}

// clearTestEnvVars blanks every variable the loader reads; empty values are
// treated as unset by viper and restored after the test.
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"BUDGET_LOG_LEVEL",
		"BUDGET_LOG_FORMAT",
		"BUDGET_AI_ENABLED",
		"BUDGET_AI_PROVIDER",
		"BUDGET_AI_MODEL",
		"BUDGET_AI_BASE_URL",
		"BUDGET_AI_TIMEOUT_SECONDS",
		"BUDGET_AI_REQUESTS_PER_MINUTE",
		"BUDGET_SIMULATION_DEFAULT_MONTHS",
		"BUDGET_SIMULATION_SEED",
		"BUDGET_EXPORT_DIRECTORY",
		"BUDGET_EXPORT_DELIMITER",
		"BUDGET_SERVER_ADDRESS",
		"BUDGET_HISTORY_ENABLED",
		"BUDGET_HISTORY_PATH",
		"GEMINI_API_KEY",
		"OLLAMA_HOST",
	}

	for _, envVar := range envVars {
		t.Setenv(envVar, "")
	}
}
