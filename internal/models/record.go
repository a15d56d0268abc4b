package models

// MonthlyRecord is one simulated month. Records are created by the simulation
// engine and never modified afterwards.
type MonthlyRecord struct {
	Month             int                `json:"month" yaml:"month"`
	Income            float64            `json:"income" yaml:"income"`
	FixedExpenses     map[string]float64 `json:"fixed_expenses" yaml:"fixed_expenses"`
	VariableExpenses  map[string]float64 `json:"variable_expenses" yaml:"variable_expenses"`
	TotalFixed        float64            `json:"total_fixed" yaml:"total_fixed"`
	TotalVariable     float64            `json:"total_variable" yaml:"total_variable"`
	TotalExpenses     float64            `json:"total_expenses" yaml:"total_expenses"`
	MonthlySavings    float64            `json:"monthly_savings" yaml:"monthly_savings"`
	CumulativeSavings float64            `json:"cumulative_savings" yaml:"cumulative_savings"`
	GoalMet           bool               `json:"goal_met" yaml:"goal_met"`
}

// Expense returns the realized amount for a fixed or variable category.
// Validate guarantees a name belongs to only one of the two classes.
func (r MonthlyRecord) Expense(category string) (float64, bool) {
	if v, ok := r.FixedExpenses[category]; ok {
		return v, true
	}
	v, ok := r.VariableExpenses[category]
	return v, ok
}

// MonthSavings identifies a notable month in the summary.
type MonthSavings struct {
	Month    int     `json:"month" yaml:"month"`
	Savings  float64 `json:"savings" yaml:"savings"`
	Expenses float64 `json:"expenses" yaml:"expenses"`
}

// SimulationSummary holds aggregates computed across every record of a run.
type SimulationSummary struct {
	TotalIncome            float64      `json:"total_income" yaml:"total_income"`
	TotalExpenses          float64      `json:"total_expenses" yaml:"total_expenses"`
	AverageSavings         float64      `json:"average_monthly_savings" yaml:"average_monthly_savings"`
	FinalCumulativeSavings float64      `json:"final_cumulative_savings" yaml:"final_cumulative_savings"`
	MonthsGoalMet          int          `json:"months_goal_met" yaml:"months_goal_met"`
	GoalAchievementRate    float64      `json:"goal_achievement_rate" yaml:"goal_achievement_rate"`
	MinMonthlySavings      float64      `json:"min_monthly_savings" yaml:"min_monthly_savings"`
	MaxMonthlySavings      float64      `json:"max_monthly_savings" yaml:"max_monthly_savings"`
	BestMonth              MonthSavings `json:"best_month" yaml:"best_month"`
	WorstMonth             MonthSavings `json:"worst_month" yaml:"worst_month"`
	SavingsSpread          float64      `json:"savings_spread" yaml:"savings_spread"`
}

// SimulationResult is the output of one simulation run.
type SimulationResult struct {
	Input   BudgetInput       `json:"input_parameters" yaml:"input_parameters"`
	Records []MonthlyRecord   `json:"monthly_results" yaml:"monthly_results"`
	Summary SimulationSummary `json:"summary" yaml:"summary"`
}

// Months returns the number of simulated months.
func (r *SimulationResult) Months() int {
	if r == nil {
		return 0
	}
	return len(r.Records)
}
