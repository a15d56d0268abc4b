// Package history implements the history command.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/internal/container"
	runhistory "fjacquet/budget-sim/internal/history"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/render"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrDisabled is returned when run history is not enabled in the configuration.
var ErrDisabled = errors.New("run history is disabled; set history.enabled to true")

var limit int

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List past simulation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return List(cmd.Context(), c, limit, cmd.OutOrStdout())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one past run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Show(cmd.Context(), c, args[0], cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	Cmd.AddCommand(showCmd)
}

// List writes the most recent runs as a table.
func List(ctx context.Context, c *container.Container, limit int, w io.Writer) error {
	store := c.GetHistory()
	if store == nil {
		return ErrDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err = fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}
	_, err = fmt.Fprintln(w, render.HistoryTable(runs))
	return err
}

type runView struct {
	ID                  string                      `yaml:"run_id"`
	CreatedAt           string                      `yaml:"created_at"`
	Input               models.BudgetInput          `yaml:"input_parameters"`
	Months              int                         `yaml:"months"`
	AverageSavings      float64                     `yaml:"average_monthly_savings"`
	FinalCumulative     float64                     `yaml:"final_cumulative_savings"`
	GoalAchievementRate float64                     `yaml:"goal_achievement_rate"`
	Trend               models.TrendDirection       `yaml:"trend"`
	Source              models.RecommendationSource `yaml:"recommendation_source"`
	Recommendations     models.Recommendation       `yaml:"recommendations"`
}

// Show writes a single run as YAML.
func Show(ctx context.Context, c *container.Container, id string, w io.Writer) error {
	store := c.GetHistory()
	if store == nil {
		return ErrDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, runhistory.ErrNotFound) {
			return fmt.Errorf("no run with id %s", id)
		}
		return err
	}

	data, err := yaml.Marshal(runView{
		ID:                  run.ID,
		CreatedAt:           run.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		Input:               run.Input,
		Months:              run.Months,
		AverageSavings:      run.AverageSavings,
		FinalCumulative:     run.FinalCumulative,
		GoalAchievementRate: run.GoalAchievementRate,
		Trend:               run.Trend,
		Source:              run.RecommendationSource,
		Recommendations:     run.Recommendations,
	})
	if err != nil {
		return fmt.Errorf("error marshaling run: %w", err)
	}
	_, err = w.Write(data)
	return err
}
