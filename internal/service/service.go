// Package service is the application entry point for running simulations:
// it chains the engine, the analyzer and the recommendation synthesizer and
// records completed runs.
package service

import (
	"context"
	"fmt"
	"time"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/analysis"
	"fjacquet/budget-sim/internal/history"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/report"
	"fjacquet/budget-sim/internal/simulation"
	"fjacquet/budget-sim/internal/variation"
)

// HistoryRecorder persists completed runs.
type HistoryRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Run is a completed simulation together with its analysis and advice.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Result     *models.SimulationResult
	Statistics models.FinancialStatistics
	Advice     advisor.Advice
}

// Report converts the run into its serializable form.
func (r *Run) Report(withMonths bool) *report.RunReport {
	return report.NewRunReport(r.ID, r.Result, r.Statistics, r.Advice, r.CreatedAt, withMonths)
}

// Service runs simulations. It is safe for concurrent use.
type Service struct {
	logger        logging.Logger
	model         *variation.Model
	synthesizer   *advisor.Synthesizer
	history       HistoryRecorder
	defaultMonths int
	seed          uint64
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSynthesizer sets the recommendation synthesizer.
func WithSynthesizer(s *advisor.Synthesizer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.synthesizer = s
		}
	}
}

// WithHistory records every completed run.
func WithHistory(h HistoryRecorder) Option {
	return func(svc *Service) { svc.history = h }
}

// WithDefaultMonths sets the horizon used when an input leaves it at zero.
func WithDefaultMonths(months int) Option {
	return func(svc *Service) {
		if months > 0 {
			svc.defaultMonths = months
		}
	}
}

// WithSeed makes every run reproducible. Zero keeps runs random.
func WithSeed(seed uint64) Option {
	return func(svc *Service) { svc.seed = seed }
}

// WithVariationModel overrides the variation model.
func WithVariationModel(m *variation.Model) Option {
	return func(svc *Service) {
		if m != nil {
			svc.model = m
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// New creates a Service. Without WithSynthesizer, recommendations come from
// the rule-based path only.
func New(logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	svc := &Service{
		logger:        logger,
		model:         variation.Default(),
		defaultMonths: models.DefaultSimulationMonths,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.synthesizer == nil {
		svc.synthesizer = advisor.NewSynthesizer(nil, logger)
	}
	return svc
}

// RunSimulation validates input and projects it forward. A zero horizon
// takes the configured default.
func (s *Service) RunSimulation(ctx context.Context, input models.BudgetInput) (*models.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.SimulationMonths == 0 {
		input.SimulationMonths = s.defaultMonths
	}

	opts := []simulation.Option{
		simulation.WithModel(s.model),
		simulation.WithLogger(s.logger),
	}
	if s.seed != 0 {
		opts = append(opts, simulation.WithSeed(s.seed))
	}
	return simulation.NewEngine(input, opts...).Run()
}

// Analyze computes statistics for a result.
func (s *Service) Analyze(result *models.SimulationResult) models.FinancialStatistics {
	return analysis.Analyze(result)
}

// GenerateRecommendations analyzes result and synthesizes advice.
func (s *Service) GenerateRecommendations(ctx context.Context, result *models.SimulationResult) (advisor.Advice, error) {
	return s.synthesizer.Synthesize(ctx, result, s.Analyze(result))
}

// Simulate runs the full pipeline for one request and records the run when
// a history is configured. History failures are logged, not returned.
func (s *Service) Simulate(ctx context.Context, input models.BudgetInput) (*Run, error) {
	start := s.now()

	result, err := s.RunSimulation(ctx, input)
	if err != nil {
		return nil, err
	}

	stats := s.Analyze(result)
	advice, err := s.synthesizer.Synthesize(ctx, result, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	run := &Run{
		ID:         history.NewRunID(),
		CreatedAt:  start,
		Result:     result,
		Statistics: stats,
		Advice:     advice,
	}

	log := s.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: run.ID},
		logging.Field{Key: logging.FieldMonths, Value: result.Months()},
		logging.Field{Key: logging.FieldSource, Value: string(advice.Source)},
	)

	if s.history != nil {
		h := history.NewRun(run.ID, run.CreatedAt, result, stats, advice.Source, advice.Recommendations)
		if err := s.history.Record(ctx, h); err != nil {
			log.WithError(err).Warn("Failed to record run in history")
		}
	}

	log.Info("Simulation completed",
		logging.Field{Key: logging.FieldDuration, Value: s.now().Sub(start).String()})
	return run, nil
}
