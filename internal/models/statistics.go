package models

// TrendDirection describes how monthly savings move across the horizon.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendFlat      TrendDirection = "flat"
)

// HighFixedRatioThreshold is the fixed-to-income ratio above which fixed
// costs are considered high.
const HighFixedRatioThreshold = 0.5

// CategoryStats describes how a variable expense category behaved over a run.
type CategoryStats struct {
	Name             string  `json:"name" yaml:"name"`
	Budget           float64 `json:"budget" yaml:"budget"`
	AverageActual    float64 `json:"average_actual" yaml:"average_actual"`
	StdDeviation     float64 `json:"std_deviation" yaml:"std_deviation"`
	Min              float64 `json:"min_spent" yaml:"min_spent"`
	Max              float64 `json:"max_spent" yaml:"max_spent"`
	PeakMonth        int     `json:"peak_month" yaml:"peak_month"`
	MonthsOverBudget int     `json:"months_over_budget" yaml:"months_over_budget"`
	Volatility       float64 `json:"volatility" yaml:"volatility"`
	AdherencePct     float64 `json:"budget_adherence_pct" yaml:"budget_adherence_pct"`
}

// Overspend is the average monthly amount spent above budget (zero or negative
// when the category stays within budget).
func (c CategoryStats) Overspend() float64 {
	return c.AverageActual - c.Budget
}

// PeakOverrun is how far the peak month exceeded the budget.
func (c CategoryStats) PeakOverrun() float64 {
	return c.Max - c.Budget
}

// FinancialStatistics is derived from a SimulationResult and never persisted.
type FinancialStatistics struct {
	Months               int                `json:"months" yaml:"months"`
	IncomeStability      float64            `json:"income_stability" yaml:"income_stability"`
	CategoryVolatility   map[string]float64 `json:"category_volatility" yaml:"category_volatility"`
	Categories           []CategoryStats    `json:"categories" yaml:"categories"`
	FixedToIncomeRatio   float64            `json:"fixed_to_income_ratio" yaml:"fixed_to_income_ratio"`
	HighFixedRatio       bool               `json:"high_fixed_ratio" yaml:"high_fixed_ratio"`
	ExpenseVolatility    float64            `json:"expense_volatility" yaml:"expense_volatility"`
	Trend                TrendDirection     `json:"trend" yaml:"trend"`
	FirstHalfAvgSavings  float64            `json:"first_half_avg_savings" yaml:"first_half_avg_savings"`
	SecondHalfAvgSavings float64            `json:"second_half_avg_savings" yaml:"second_half_avg_savings"`
	GoalAchievementRate  float64            `json:"goal_achievement_rate" yaml:"goal_achievement_rate"`
	AverageIncome        float64            `json:"average_income" yaml:"average_income"`
	AverageFixed         float64            `json:"average_fixed" yaml:"average_fixed"`
	AverageSavings       float64            `json:"average_savings" yaml:"average_savings"`
	SavingsRate          float64            `json:"savings_rate" yaml:"savings_rate"`
}

// HighestVolatility returns the variable category with the largest
// coefficient of variation. Ties resolve to the alphabetically first name.
func (s FinancialStatistics) HighestVolatility() (CategoryStats, bool) {
	var best CategoryStats
	found := false
	for _, c := range s.Categories {
		if !found || c.Volatility > best.Volatility ||
			(c.Volatility == best.Volatility && c.Name < best.Name) {
			best = c
			found = true
		}
	}
	return best, found
}

// Category looks up the stats of a variable category by name.
func (s FinancialStatistics) Category(name string) (CategoryStats, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryStats{}, false
}
