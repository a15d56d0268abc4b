// Package container provides dependency injection for the budget-sim application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/config"
	"fjacquet/budget-sim/internal/export"
	"fjacquet/budget-sim/internal/history"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/report"
	"fjacquet/budget-sim/internal/service"
	"fjacquet/budget-sim/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger logging.Logger
	config *config.Config

	aiClient    advisor.AIClient
	ollama      *advisor.OllamaClient
	gemini      *advisor.GeminiClient
	synthesizer *advisor.Synthesizer

	service   *service.Service
	exporter  *export.Exporter
	scenarios *store.ScenarioStore
	reports   *report.ReportGenerator
	history   *history.Store
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	c := &Container{
		logger: logger,
		config: cfg,
	}

	// Ollama client is always built so the status command can check it
	c.ollama = advisor.NewOllamaClient(cfg.AI.BaseURL, &http.Client{}, logger)

	if cfg.AIActive() {
		var backend advisor.AIClient
		switch cfg.AI.Provider {
		case config.ProviderGemini:
			c.gemini = advisor.NewGeminiClient(cfg.AI.APIKey, logger)
			backend = c.gemini
		default:
			backend = c.ollama
		}
		if cfg.AI.RequestsPerMinute > 0 {
			backend = advisor.NewRateLimitedClient(backend, cfg.AI.RequestsPerMinute)
		}
		c.aiClient = backend
		logger.Info("AI recommendations enabled",
			logging.Field{Key: logging.FieldBackend, Value: cfg.AI.Provider},
			logging.Field{Key: logging.FieldModel, Value: cfg.AI.Model})
	} else {
		logger.Info("AI recommendations disabled")
	}

	c.synthesizer = advisor.NewSynthesizer(c.aiClient, logger,
		advisor.WithModel(cfg.AI.Model),
		advisor.WithTimeout(cfg.AITimeout()))

	c.exporter = export.NewExporter(cfg.Export.Directory, delimiterRune(cfg.Export.Delimiter), logger)
	c.scenarios = store.NewScenarioStore("", logger)
	c.reports = report.NewReportGenerator(logger)

	opts := []service.Option{
		service.WithSynthesizer(c.synthesizer),
		service.WithDefaultMonths(cfg.Simulation.DefaultMonths),
		service.WithSeed(cfg.Simulation.Seed),
	}

	if cfg.History.Enabled {
		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		c.history = h
		opts = append(opts, service.WithHistory(h))
	}

	c.service = service.New(logger, opts...)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "ai_enabled", Value: c.aiClient != nil},
		logging.Field{Key: "history_enabled", Value: c.history != nil})

	return c, nil
}

func delimiterRune(s string) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ','
	}
	return r
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetAIClient returns the configured AI backend.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() advisor.AIClient {
	return c.aiClient
}

// GetOllamaClient returns a client for the configured Ollama server,
// whether or not it is the active backend.
func (c *Container) GetOllamaClient() *advisor.OllamaClient {
	return c.ollama
}

// GetSynthesizer returns the recommendation synthesizer.
func (c *Container) GetSynthesizer() *advisor.Synthesizer {
	return c.synthesizer
}

// GetService returns the simulation service.
func (c *Container) GetService() *service.Service {
	return c.service
}

// GetExporter returns the CSV exporter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetScenarioStore returns the scenario store.
func (c *Container) GetScenarioStore() *store.ScenarioStore {
	return c.scenarios
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetHistory returns the run history store.
// Returns nil if history is not enabled.
func (c *Container) GetHistory() *history.Store {
	return c.history
}

// Close releases the history database and the Gemini client.
func (c *Container) Close() error {
	var firstErr error
	if c.history != nil {
		if err := c.history.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close run history: %w", err)
		}
	}
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close gemini client: %w", err)
		}
	}
	c.logger.Info("Container closed")
	return firstErr
}
