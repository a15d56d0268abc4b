// Package variation implements the random variation model used by the
// simulation engine. Every function takes an explicit random source so runs
// can be reproduced with a seed.
package variation

import (
	"math"
	"math/rand/v2"

	"fjacquet/budget-sim/internal/models"
)

// Params holds the tunable constants of the model.
type Params struct {
	// IncomeShockProbability is the chance that a month's income deviates from base.
	IncomeShockProbability float64
	IncomeShockMin         float64
	IncomeShockMax         float64

	// FixedNoise and VariableNoise are half-widths of the uniform multiplicative
	// noise applied every month (0.03 means [0.97, 1.03]).
	FixedNoise    float64
	VariableNoise float64

	// Seasonal uplifts apply to variable expenses only, keyed by calendar month.
	HolidayMonths []int
	HolidayUplift float64
	SummerMonths  []int
	SummerUplift  float64
}

// DefaultParams returns the constants documented in DESIGN.md.
func DefaultParams() Params {
	return Params{
		IncomeShockProbability: 0.20,
		IncomeShockMin:         0.85,
		IncomeShockMax:         1.15,
		FixedNoise:             0.03,
		VariableNoise:          0.12,
		HolidayMonths:          []int{11, 12},
		HolidayUplift:          0.25,
		SummerMonths:           []int{6, 7, 8},
		SummerUplift:           0.15,
	}
}

// Model perturbs base amounts. It holds no mutable state and is safe for
// concurrent use as long as each goroutine supplies its own *rand.Rand.
type Model struct {
	params Params
}

// NewModel creates a Model with the given parameters.
func NewModel(params Params) *Model {
	return &Model{params: params}
}

// Default returns a Model using DefaultParams.
func Default() *Model {
	return NewModel(DefaultParams())
}

// Params returns a copy of the model parameters.
func (m *Model) Params() Params {
	return m.params
}

// PerturbIncome returns base unchanged most months; with probability
// IncomeShockProbability it scales base by a uniform factor in
// [IncomeShockMin, IncomeShockMax].
func (m *Model) PerturbIncome(rng *rand.Rand, base float64, monthIndex int) float64 {
	if rng.Float64() >= m.params.IncomeShockProbability {
		return clamp(base)
	}
	factor := uniform(rng, m.params.IncomeShockMin, m.params.IncomeShockMax)
	return clamp(base * factor)
}

// PerturbExpense applies routine noise to base and, for variable expenses,
// the seasonal multiplier of the month.
func (m *Model) PerturbExpense(rng *rand.Rand, base float64, class models.ExpenseClass, monthIndex int) float64 {
	noise := m.params.VariableNoise
	if class == models.ExpenseFixed {
		noise = m.params.FixedNoise
	}
	factor := uniform(rng, 1-noise, 1+noise)
	return clamp(base * factor * m.SeasonalMultiplier(class, monthIndex))
}

// SeasonalMultiplier returns the seasonal uplift for monthIndex. Fixed
// expenses always get 1.
func (m *Model) SeasonalMultiplier(class models.ExpenseClass, monthIndex int) float64 {
	if class == models.ExpenseFixed {
		return 1
	}
	month := CalendarMonth(monthIndex)
	switch {
	case contains(m.params.HolidayMonths, month):
		return 1 + m.params.HolidayUplift
	case contains(m.params.SummerMonths, month):
		return 1 + m.params.SummerUplift
	default:
		return 1
	}
}

// IsHolidayMonth reports whether monthIndex falls in a holiday month.
func (m *Model) IsHolidayMonth(monthIndex int) bool {
	return contains(m.params.HolidayMonths, CalendarMonth(monthIndex))
}

// CalendarMonth maps a 1-based month index onto 1..12.
func CalendarMonth(monthIndex int) int {
	m := (monthIndex - 1) % 12
	if m < 0 {
		m += 12
	}
	return m + 1
}

// NewRand returns a PCG-backed source that yields the same sequence for the same seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomRand returns an independently seeded source.
func NewRandomRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v float64) float64 {
	return math.Max(0, v)
}

func contains(months []int, month int) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}
