package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-sim/cmd/aistatus"
	"fjacquet/budget-sim/cmd/history"
	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/cmd/scenarios"
	"fjacquet/budget-sim/cmd/serve"
	"fjacquet/budget-sim/cmd/simulate"
	"fjacquet/budget-sim/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logger is created
	logging.SetAllLogLevels(configureLogLevelDirectly())

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(simulate.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(scenarios.Cmd)
	root.Cmd.AddCommand(aistatus.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
// and returns the configured level
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("BUDGET_LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
