// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/budget-sim/internal/config"
	"fjacquet/budget-sim/internal/container"
	"fjacquet/budget-sim/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is the configuration loaded by PersistentPreRunE
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for the running command
	AppContainer *container.Container

	// ConfigFile is an explicit configuration file path
	ConfigFile string

	// LogLevel overrides the configured log level
	LogLevel string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-sim",
		Short: "A CLI tool to simulate a household budget and get savings recommendations.",
		Long: `budget-sim projects a monthly budget forward with realistic random and seasonal
variation, analyzes the resulting trends and produces savings recommendations,
from a local language model when one is available and from built-in rules otherwise.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-sim!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
			AppContainer = nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.budget-sim, .budget-sim and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

// Initialize loads the configuration, configures logging and wires the
// application container.
func Initialize() error {
	var (
		cfg *config.Config
		err error
	)
	if ConfigFile != "" {
		cfg, err = config.InitializeConfigFromFile(ConfigFile)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if LogLevel != "" {
		cfg.Log.Level = strings.ToLower(LogLevel)
	}

	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the wired container, or an error when the root
// command has not been initialized.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return AppContainer, nil
}
