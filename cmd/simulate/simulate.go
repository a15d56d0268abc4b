// Package simulate implements the simulate command.
package simulate

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/internal/container"
	"fjacquet/budget-sim/internal/export"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/render"
	"fjacquet/budget-sim/internal/report"
	"fjacquet/budget-sim/internal/service"
	"fjacquet/budget-sim/internal/store"

	"github.com/spf13/cobra"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = report.FormatJSON
	FormatYAML  = report.FormatYAML
)

// Options holds the simulate command flags.
type Options struct {
	Income       float64
	Fixed        map[string]string
	Variable     map[string]string
	Goal         float64
	Months       int
	Input        string
	CSV          bool
	Output       string
	Detailed     bool
	Format       string
	Seed         uint64
	NoAI         bool
	SaveScenario string
}

var opts = Options{}

// Cmd represents the simulate command
var Cmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a budget and print recommendations",
	Long: `Simulate a monthly budget over 6 to 24 months and print the month-by-month
results, trend statistics and savings recommendations.

The budget comes either from flags or from a scenario file:
  budget-sim simulate --income 5000 --fixed rent=1500,insurance=300 \
      --variable food=600,entertainment=400 --goal 800
  budget-sim simulate --input family.yaml --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().Float64Var(&opts.Income, "income", 0, "Monthly income")
	Cmd.Flags().StringToStringVar(&opts.Fixed, "fixed", nil, "Fixed expenses as name=amount pairs")
	Cmd.Flags().StringToStringVar(&opts.Variable, "variable", nil, "Variable expenses as name=amount pairs")
	Cmd.Flags().Float64Var(&opts.Goal, "goal", 0, "Monthly savings goal")
	Cmd.Flags().IntVarP(&opts.Months, "months", "m", 0, "Months to simulate (6-24, default from config)")
	Cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Scenario file or name to load the budget from")
	Cmd.Flags().BoolVar(&opts.CSV, "csv", false, "Export the monthly results to CSV")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "CSV file name inside the export directory")
	Cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "Include one CSV column per expense category")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Output format: table, json or yaml")
	Cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed for a reproducible run (0 uses the configured seed)")
	Cmd.Flags().BoolVar(&opts.NoAI, "no-ai", false, "Use rule-based recommendations only")
	Cmd.Flags().StringVar(&opts.SaveScenario, "save-scenario", "", "Save the budget as a named scenario")
}

// Run executes one simulation and writes the result to w.
func Run(ctx context.Context, c *container.Container, o Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	format := strings.ToLower(o.Format)
	if format == "" {
		format = FormatTable
	}
	if format != FormatTable && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unsupported output format: %s", o.Format)
	}

	input, err := resolveInput(c.GetScenarioStore(), o)
	if err != nil {
		return err
	}

	if o.SaveScenario != "" {
		if _, err := c.GetScenarioStore().Save(&store.Scenario{Name: o.SaveScenario, BudgetInput: input}); err != nil {
			return err
		}
	}

	run, err := serviceFor(c, o).Simulate(ctx, input)
	if err != nil {
		return err
	}

	if o.CSV {
		name := o.Output
		if name == "" {
			name = export.FileName(run.Result.Input, run.ID)
		}
		path, err := c.GetExporter().Export(name, run.Result, o.Detailed)
		if err != nil {
			return err
		}
		logger.Info("CSV written", logging.Field{Key: logging.FieldOutputFile, Value: path})
	}

	if format == FormatTable {
		_, err = fmt.Fprintf(w, "%s\n\n%s\n\n%s\n",
			render.MonthlyTable(run.Result),
			render.Summary(run.Result, run.Statistics),
			render.Recommendations(run.Advice))
		return err
	}

	data, err := c.GetReportGenerator().GenerateReport(run.Report(true), format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// serviceFor returns the container's service, or a one-off service when
// the command overrides the seed or disables the AI backend.
func serviceFor(c *container.Container, o Options) *service.Service {
	if o.Seed == 0 && !o.NoAI {
		return c.GetService()
	}

	cfg := c.GetConfig()
	svcOpts := []service.Option{
		service.WithDefaultMonths(cfg.Simulation.DefaultMonths),
		service.WithSeed(cfg.Simulation.Seed),
	}
	if o.Seed != 0 {
		svcOpts = append(svcOpts, service.WithSeed(o.Seed))
	}
	if !o.NoAI {
		svcOpts = append(svcOpts, service.WithSynthesizer(c.GetSynthesizer()))
	}
	if h := c.GetHistory(); h != nil {
		svcOpts = append(svcOpts, service.WithHistory(h))
	}
	return service.New(c.GetLogger(), svcOpts...)
}

// resolveInput builds the budget from a scenario and/or flags. Flags given
// alongside a scenario override its values.
func resolveInput(scenarios store.ScenarioRepository, o Options) (models.BudgetInput, error) {
	var input models.BudgetInput
	if o.Input != "" {
		scenario, err := scenarios.Load(o.Input)
		if err != nil {
			return input, err
		}
		input = scenario.BudgetInput
	} else if o.Income == 0 {
		return input, fmt.Errorf("either --input or --income is required")
	}

	if o.Income != 0 {
		input.MonthlyIncome = o.Income
	}
	if o.Goal != 0 {
		input.SavingsGoal = o.Goal
	}
	if o.Months != 0 {
		input.SimulationMonths = o.Months
	}

	fixed, err := parseAmounts("fixed", o.Fixed)
	if err != nil {
		return input, err
	}
	if fixed != nil {
		input.FixedExpenses = fixed
	}

	variable, err := parseAmounts("variable", o.Variable)
	if err != nil {
		return input, err
	}
	if variable != nil {
		input.VariableExpenses = variable
	}
	return input, nil
}

func parseAmounts(flag string, raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	amounts := make(map[string]float64, len(raw))
	for name, value := range raw {
		amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s amount for %q: %w", flag, name, err)
		}
		amounts[strings.TrimSpace(name)] = amount
	}
	return amounts, nil
}
