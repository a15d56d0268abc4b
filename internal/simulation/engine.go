// Package simulation drives the month-by-month budget projection.
package simulation

import (
	"math/rand/v2"

	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/variation"
)

// Engine projects a BudgetInput forward. It keeps no state between runs: every
// call to Run draws a fresh random source and returns an independent result.
type Engine struct {
	input   models.BudgetInput
	model   *variation.Model
	newRand func() *rand.Rand
	logger  logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel overrides the variation model.
func WithModel(model *variation.Model) Option {
	return func(e *Engine) {
		if model != nil {
			e.model = model
		}
	}
}

// WithRandSource sets the factory used to create one random source per run.
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(e *Engine) {
		if newRand != nil {
			e.newRand = newRand
		}
	}
}

// WithSeed makes every run start from the same seeded source.
func WithSeed(seed uint64) Option {
	return WithRandSource(func() *rand.Rand { return variation.NewRand(seed) })
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine for input. The input is validated by Run.
func NewEngine(input models.BudgetInput, opts ...Option) *Engine {
	e := &Engine{
		input:   input,
		model:   variation.Default(),
		newRand: variation.NewRandomRand,
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the input and simulates every month. On invalid input it
// returns a *budgeterror.InvalidInputError and no records.
func (e *Engine) Run() (*models.SimulationResult, error) {
	if err := e.input.Validate(); err != nil {
		e.logger.WithError(err).Warn("Rejected budget input",
			logging.Field{Key: logging.FieldOperation, Value: "simulate"})
		return nil, err
	}

	rng := e.newRand()
	fixed := e.input.FixedCategories()
	variable := e.input.VariableCategories()

	records := make([]models.MonthlyRecord, 0, e.input.SimulationMonths)
	cumulative := 0.0
	for month := 1; month <= e.input.SimulationMonths; month++ {
		record := e.simulateMonth(rng, month, fixed, variable, cumulative)
		cumulative = record.CumulativeSavings
		records = append(records, record)
	}

	result := &models.SimulationResult{
		Input:   e.input,
		Records: records,
		Summary: summarize(records),
	}

	e.logger.Debug("Simulation completed",
		logging.Field{Key: logging.FieldMonths, Value: len(records)},
		logging.Field{Key: "final_cumulative_savings", Value: result.Summary.FinalCumulativeSavings},
		logging.Field{Key: "goal_achievement_rate", Value: result.Summary.GoalAchievementRate})

	return result, nil
}

func (e *Engine) simulateMonth(rng *rand.Rand, month int, fixed, variable []string, previous float64) models.MonthlyRecord {
	income := models.RoundCents(e.model.PerturbIncome(rng, e.input.MonthlyIncome, month))

	fixedRealized := make(map[string]float64, len(fixed))
	fixedAmounts := make([]float64, 0, len(fixed))
	for _, name := range fixed {
		v := models.RoundCents(e.model.PerturbExpense(rng, e.input.FixedExpenses[name], models.ExpenseFixed, month))
		fixedRealized[name] = v
		fixedAmounts = append(fixedAmounts, v)
	}

	variableRealized := make(map[string]float64, len(variable))
	variableAmounts := make([]float64, 0, len(variable))
	for _, name := range variable {
		v := models.RoundCents(e.model.PerturbExpense(rng, e.input.VariableExpenses[name], models.ExpenseVariable, month))
		variableRealized[name] = v
		variableAmounts = append(variableAmounts, v)
	}

	totalFixed := models.SumAmounts(fixedAmounts...)
	totalVariable := models.SumAmounts(variableAmounts...)
	total := models.SumAmounts(totalFixed, totalVariable)
	savings := models.SubAmounts(income, total)

	return models.MonthlyRecord{
		Month:             month,
		Income:            income,
		FixedExpenses:     fixedRealized,
		VariableExpenses:  variableRealized,
		TotalFixed:        totalFixed,
		TotalVariable:     totalVariable,
		TotalExpenses:     total,
		MonthlySavings:    savings,
		CumulativeSavings: models.SumAmounts(previous, savings),
		GoalMet:           savings >= e.input.SavingsGoal,
	}
}
