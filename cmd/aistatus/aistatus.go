// Package aistatus implements the ai-status command.
package aistatus

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/config"

	"github.com/spf13/cobra"
)

const statusTimeout = 5 * time.Second

// Cmd represents the ai-status command
var Cmd = &cobra.Command{
	Use:   "ai-status",
	Short: "Check whether the configured language model is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		cfg := c.GetConfig()
		if !cfg.AIActive() {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "AI recommendations are disabled; rule-based recommendations will be used.")
			return err
		}
		if cfg.AI.Provider == config.ProviderGemini {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Provider: gemini\nModel:    %s\n", cfg.AI.Model)
			return err
		}
		return Check(cmd.Context(), c.GetOllamaClient(), cfg.AI.Model, cmd.OutOrStdout())
	},
}

// Check reports whether the Ollama server is reachable and has model.
// An unreachable server is reported, not returned as an error.
func Check(ctx context.Context, client *advisor.OllamaClient, model string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		_, werr := fmt.Fprintf(w, "Ollama:  unavailable (%v)\nRecommendations will use the built-in rules.\n", err)
		return werr
	}

	installed, err := client.HasModel(ctx, model)
	if err != nil {
		return err
	}

	status := "missing (run: ollama pull " + model + ")"
	if installed {
		status = "installed"
	}
	_, err = fmt.Fprintf(w, "Ollama:  available\nModel:   %s %s\nModels:  %s\n", model, status, strings.Join(models, ", "))
	return err
}
