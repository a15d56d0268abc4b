package advisor

import (
	"context"
	"errors"
	"time"

	"fjacquet/budget-sim/internal/budgeterror"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"
)

const (
	DefaultModel   = "llama3.2"
	DefaultTimeout = 30 * time.Second

	// MaxRecommendations caps every list returned by Synthesize.
	MaxRecommendations = 6
	// MinAIRecommendations is the size below which AI advice is topped up
	// with rule-based items.
	MinAIRecommendations = 2
)

// ErrEmptyStatistics is returned when there is nothing to analyze.
var ErrEmptyStatistics = errors.New("no simulated months to analyze")

// Advice is the output of a synthesis pass.
type Advice struct {
	Recommendations models.Recommendation       `json:"recommendations" yaml:"recommendations"`
	Source          models.RecommendationSource `json:"source" yaml:"source"`
	FallbackReason  string                      `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}

// Synthesizer produces recommendations, preferring the AI backend and
// falling back to rules. It is safe for concurrent use.
type Synthesizer struct {
	client  AIClient
	logger  logging.Logger
	model   string
	timeout time.Duration
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithModel sets the model name sent to the backend.
func WithModel(model string) SynthesizerOption {
	return func(s *Synthesizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTimeout bounds each AI call.
func WithTimeout(timeout time.Duration) SynthesizerOption {
	return func(s *Synthesizer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewSynthesizer creates a Synthesizer. A nil client disables the AI path.
func NewSynthesizer(client AIClient, logger logging.Logger, opts ...SynthesizerOption) *Synthesizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &Synthesizer{
		client:  client,
		logger:  logger,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns recommendations for a run. The only error is
// ErrEmptyStatistics; every AI failure is absorbed by the rule-based path.
func (s *Synthesizer) Synthesize(ctx context.Context, result *models.SimulationResult, stats models.FinancialStatistics) (Advice, error) {
	if stats.Months == 0 || result.Months() == 0 {
		return Advice{}, ErrEmptyStatistics
	}

	if s.client == nil {
		s.logger.Debug("AI disabled, using rule-based recommendations",
			logging.Field{Key: logging.FieldOperation, Value: "synthesize"})
		return s.fallback(result, stats, "disabled"), nil
	}

	start := time.Now()
	outcome := s.attempt(ctx, result, stats)
	log := s.logger.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "synthesize"},
		logging.Field{Key: logging.FieldModel, Value: s.model},
		logging.Field{Key: logging.FieldStatus, Value: string(outcome.Status)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()},
	)

	if outcome.Status != OutcomeSuccess {
		log.WithError(outcome.Err).Warn("AI recommendations unavailable, using rule-based fallback",
			logging.Field{Key: logging.FieldReason, Value: outcome.Reason()})
		return s.fallback(result, stats, outcome.Reason()), nil
	}

	advice := Advice{Recommendations: outcome.Items, Source: models.SourceAI}
	if len(advice.Recommendations) < MinAIRecommendations {
		advice.Recommendations = append(advice.Recommendations, Fallback(result, stats)...)
		advice.Source = models.SourceAIAndRules
	}
	advice.Recommendations = capRecommendations(advice.Recommendations)
	log.Info("Generated AI recommendations",
		logging.Field{Key: logging.FieldCount, Value: len(advice.Recommendations)},
		logging.Field{Key: logging.FieldSource, Value: string(advice.Source)})
	return advice, nil
}

type generateResult struct {
	text string
	err  error
}

// attempt runs the AI call under the configured deadline. It returns when
// the deadline passes even if the client ignores ctx; the client's late
// answer is discarded.
func (s *Synthesizer) attempt(ctx context.Context, result *models.SimulationResult, stats models.FinancialStatistics) Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := GenerateRequest{
		Model:  s.model,
		System: SystemPrompt,
		Prompt: BuildPrompt(result, stats),
	}

	done := make(chan generateResult, 1)
	go func() {
		text, err := s.client.Generate(ctx, req)
		done <- generateResult{text: text, err: err}
	}()

	var text string
	var err error
	select {
	case r := <-done:
		text, err = r.text, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return failure(budgeterror.NewAIBackendError("ai", budgeterror.AITimeout, ctx.Err()))
		}
		return failure(ctx.Err())
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = budgeterror.NewAIBackendError("ai", budgeterror.AITimeout, err)
		}
		return failure(err)
	}

	items := ParseResponse(text)
	if len(items) == 0 {
		return failure(budgeterror.NewAIBackendError("ai", budgeterror.AIMalformed,
			errors.New("response contained no usable recommendations")))
	}
	return success(text, items)
}

func (s *Synthesizer) fallback(result *models.SimulationResult, stats models.FinancialStatistics, reason string) Advice {
	return Advice{
		Recommendations: capRecommendations(Fallback(result, stats)),
		Source:          models.SourceRules,
		FallbackReason:  reason,
	}
}

func capRecommendations(recs models.Recommendation) models.Recommendation {
	if len(recs) > MaxRecommendations {
		return recs[:MaxRecommendations]
	}
	return recs
}
