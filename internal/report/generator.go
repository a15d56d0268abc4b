// Package report renders a complete simulation run as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunReport is the serializable view of one simulation and its advice.
type RunReport struct {
	RunID           string                      `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time                   `json:"generated_at" yaml:"generated_at"`
	Input           models.BudgetInput          `json:"input_parameters" yaml:"input_parameters"`
	Summary         models.SimulationSummary    `json:"summary" yaml:"summary"`
	Statistics      models.FinancialStatistics  `json:"statistics" yaml:"statistics"`
	Recommendations models.Recommendation       `json:"recommendations" yaml:"recommendations"`
	Source          models.RecommendationSource `json:"recommendation_source" yaml:"recommendation_source"`
	FallbackReason  string                      `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
	Months          []models.MonthlyRecord      `json:"monthly_results,omitempty" yaml:"monthly_results,omitempty"`
}

// NewRunReport assembles a report. Month-by-month records are included only
// when withMonths is set.
func NewRunReport(runID string, result *models.SimulationResult, stats models.FinancialStatistics,
	advice advisor.Advice, generatedAt time.Time, withMonths bool) *RunReport {
	r := &RunReport{
		RunID:           runID,
		GeneratedAt:     generatedAt.UTC(),
		Statistics:      stats,
		Recommendations: advice.Recommendations,
		Source:          advice.Source,
		FallbackReason:  advice.FallbackReason,
	}
	if result != nil {
		r.Input = result.Input
		r.Summary = result.Summary
		if withMonths {
			r.Months = result.Records
		}
	}
	return r
}

// ReportGenerator serializes run reports.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ReportGenerator{
		logger: logger.WithField(logging.FieldComponent, "ReportGenerator"),
	}
}

// GenerateReport renders report in the given format (json or yaml).
func (g *ReportGenerator) GenerateReport(report *RunReport, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(report *RunReport) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateYAMLReport(report *RunReport) ([]byte, error) {
	out, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
