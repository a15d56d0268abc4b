// Package models defines the data structures shared by the simulation engine,
// the trend analyzer and the advisor.
package models

import (
	"math"
	"sort"
	"strings"

	"fjacquet/budget-sim/internal/budgeterror"
)

// Horizon bounds for a simulation run.
const (
	MinSimulationMonths     = 6
	MaxSimulationMonths     = 24
	DefaultSimulationMonths = 12
)

// MaxAmount bounds every monetary input and the sum of all expenses.
const MaxAmount = 1e12

// ExpenseClass separates contractual costs from discretionary spending.
type ExpenseClass string

const (
	ExpenseFixed    ExpenseClass = "fixed"
	ExpenseVariable ExpenseClass = "variable"
)

// BudgetInput is the household budget a simulation starts from.
type BudgetInput struct {
	MonthlyIncome    float64            `json:"monthly_income" yaml:"monthly_income"`
	FixedExpenses    map[string]float64 `json:"fixed_expenses" yaml:"fixed_expenses"`
	VariableExpenses map[string]float64 `json:"variable_expenses" yaml:"variable_expenses"`
	SavingsGoal      float64            `json:"savings_goal" yaml:"savings_goal"`
	SimulationMonths int                `json:"simulation_months" yaml:"simulation_months"`
}

// Validate checks the input before any month is generated.
func (b BudgetInput) Validate() error {
	if b.SimulationMonths < MinSimulationMonths || b.SimulationMonths > MaxSimulationMonths {
		return budgeterror.NewInvalidInput("simulation_months", b.SimulationMonths,
			"must be between 6 and 24")
	}
	if math.IsNaN(b.MonthlyIncome) || math.IsInf(b.MonthlyIncome, 0) {
		return budgeterror.NewInvalidInput("monthly_income", b.MonthlyIncome, "must be a finite number")
	}
	if b.MonthlyIncome <= 0 {
		return budgeterror.NewInvalidInput("monthly_income", b.MonthlyIncome, "must be positive")
	}
	if b.MonthlyIncome > MaxAmount {
		return budgeterror.NewInvalidInput("monthly_income", b.MonthlyIncome, "exceeds the maximum amount of 1e12")
	}
	if math.IsNaN(b.SavingsGoal) || math.IsInf(b.SavingsGoal, 0) {
		return budgeterror.NewInvalidInput("savings_goal", b.SavingsGoal, "must be a finite number")
	}
	if math.Abs(b.SavingsGoal) > MaxAmount {
		return budgeterror.NewInvalidInput("savings_goal", b.SavingsGoal, "exceeds the maximum amount of 1e12")
	}
	if err := validateExpenses("fixed_expenses", b.FixedExpenses); err != nil {
		return err
	}
	if err := validateExpenses("variable_expenses", b.VariableExpenses); err != nil {
		return err
	}

	// Records key expenses by category name alone, so a name may not be both.
	for _, name := range SortedKeys(b.VariableExpenses) {
		if _, dup := b.FixedExpenses[name]; dup {
			return budgeterror.NewInvalidInput("variable_expenses."+name, nil, "already listed as a fixed expense")
		}
	}

	total := 0.0
	for _, m := range []map[string]float64{b.FixedExpenses, b.VariableExpenses} {
		for _, amount := range m {
			total += amount
		}
	}
	if total > MaxAmount {
		return budgeterror.NewInvalidInput("expenses", total, "total exceeds the maximum amount of 1e12")
	}
	return nil
}

func validateExpenses(field string, expenses map[string]float64) error {
	for _, name := range SortedKeys(expenses) {
		amount := expenses[name]
		if strings.TrimSpace(name) == "" {
			return budgeterror.NewInvalidInput(field, nil, "category name cannot be empty")
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return budgeterror.NewInvalidInput(field+"."+name, amount, "must be a finite number")
		}
		if amount < 0 {
			return budgeterror.NewInvalidInput(field+"."+name, amount, "cannot be negative")
		}
		if amount > MaxAmount {
			return budgeterror.NewInvalidInput(field+"."+name, amount, "exceeds the maximum amount of 1e12")
		}
	}
	return nil
}

// FixedCategories returns the fixed expense category names in sorted order.
func (b BudgetInput) FixedCategories() []string {
	return SortedKeys(b.FixedExpenses)
}

// VariableCategories returns the variable expense category names in sorted order.
func (b BudgetInput) VariableCategories() []string {
	return SortedKeys(b.VariableExpenses)
}

// TotalFixed is the budgeted monthly sum of fixed expenses.
func (b BudgetInput) TotalFixed() float64 {
	return sumMap(b.FixedExpenses)
}

// TotalVariable is the budgeted monthly sum of variable expenses.
func (b BudgetInput) TotalVariable() float64 {
	return sumMap(b.VariableExpenses)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sumMap(m map[string]float64) float64 {
	amounts := make([]float64, 0, len(m))
	for _, k := range SortedKeys(m) {
		amounts = append(amounts, m[k])
	}
	return SumAmounts(amounts...)
}
