package models

import (
	"errors"
	"math"
	"testing"

	"fjacquet/budget-sim/internal/budgeterror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BudgetInput {
	return BudgetInput{
		MonthlyIncome:    5000,
		FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 300},
		VariableExpenses: map[string]float64{"food": 600, "entertainment": 400},
		SavingsGoal:      800,
		SimulationMonths: 12,
	}
}

func TestBudgetInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(b *BudgetInput)
		wantField string
	}{
		{name: "valid input", mutate: func(b *BudgetInput) {}},
		{name: "minimum horizon", mutate: func(b *BudgetInput) { b.SimulationMonths = 6 }},
		{name: "maximum horizon", mutate: func(b *BudgetInput) { b.SimulationMonths = 24 }},
		{name: "goal above income is allowed", mutate: func(b *BudgetInput) { b.SavingsGoal = 9000 }},
		{name: "no expenses", mutate: func(b *BudgetInput) {
			b.FixedExpenses = nil
			b.VariableExpenses = nil
		}},
		{name: "too many months", mutate: func(b *BudgetInput) { b.SimulationMonths = 25 }, wantField: "simulation_months"},
		{name: "too few months", mutate: func(b *BudgetInput) { b.SimulationMonths = 5 }, wantField: "simulation_months"},
		{name: "zero income", mutate: func(b *BudgetInput) { b.MonthlyIncome = 0 }, wantField: "monthly_income"},
		{name: "negative income", mutate: func(b *BudgetInput) { b.MonthlyIncome = -1 }, wantField: "monthly_income"},
		{name: "infinite income", mutate: func(b *BudgetInput) { b.MonthlyIncome = math.Inf(1) }, wantField: "monthly_income"},
		{name: "NaN goal", mutate: func(b *BudgetInput) { b.SavingsGoal = math.NaN() }, wantField: "savings_goal"},
		{name: "negative fixed", mutate: func(b *BudgetInput) { b.FixedExpenses["rent"] = -10 }, wantField: "fixed_expenses.rent"},
		{name: "negative variable", mutate: func(b *BudgetInput) { b.VariableExpenses["food"] = -0.01 }, wantField: "variable_expenses.food"},
		{name: "blank category", mutate: func(b *BudgetInput) { b.VariableExpenses["  "] = 10 }, wantField: "variable_expenses"},
		{name: "amounts at the maximum", mutate: func(b *BudgetInput) {
			b.MonthlyIncome = MaxAmount
			b.FixedExpenses = map[string]float64{"rent": MaxAmount / 2}
			b.VariableExpenses = map[string]float64{"food": MaxAmount / 2}
		}},
		{name: "huge income", mutate: func(b *BudgetInput) { b.MonthlyIncome = 1e13 }, wantField: "monthly_income"},
		{name: "huge goal", mutate: func(b *BudgetInput) { b.SavingsGoal = -1e300 }, wantField: "savings_goal"},
		{name: "huge fixed", mutate: func(b *BudgetInput) { b.FixedExpenses["rent"] = 1e308 }, wantField: "fixed_expenses.rent"},
		{name: "expenses overflow in total", mutate: func(b *BudgetInput) {
			b.FixedExpenses = map[string]float64{"a": 9e11, "b": 9e11}
		}, wantField: "expenses"},
		{name: "category in both maps", mutate: func(b *BudgetInput) { b.VariableExpenses["rent"] = 100 }, wantField: "variable_expenses.rent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			err := input.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))
			var invalid *budgeterror.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestBudgetInput_Categories(t *testing.T) {
	input := validInput()

	assert.Equal(t, []string{"insurance", "rent"}, input.FixedCategories())
	assert.Equal(t, []string{"entertainment", "food"}, input.VariableCategories())
	assert.Equal(t, 1800.0, input.TotalFixed())
	assert.Equal(t, 1000.0, input.TotalVariable())
}

func TestMonthlyRecord_Expense(t *testing.T) {
	record := MonthlyRecord{
		FixedExpenses:    map[string]float64{"rent": 1500},
		VariableExpenses: map[string]float64{"food": 612.4},
	}

	v, ok := record.Expense("rent")
	assert.True(t, ok)
	assert.Equal(t, 1500.0, v)

	v, ok = record.Expense("food")
	assert.True(t, ok)
	assert.Equal(t, 612.4, v)

	_, ok = record.Expense("travel")
	assert.False(t, ok)
}

func TestFinancialStatistics_HighestVolatility(t *testing.T) {
	stats := FinancialStatistics{
		Categories: []CategoryStats{
			{Name: "food", Volatility: 0.12},
			{Name: "entertainment", Volatility: 0.12},
			{Name: "transport", Volatility: 0.05},
		},
	}

	best, ok := stats.HighestVolatility()
	require.True(t, ok)
	assert.Equal(t, "entertainment", best.Name)

	_, ok = FinancialStatistics{}.HighestVolatility()
	assert.False(t, ok)

	food, ok := stats.Category("food")
	assert.True(t, ok)
	assert.Equal(t, 0.12, food.Volatility)
}

func TestSimulationResult_Months(t *testing.T) {
	var nilResult *SimulationResult
	assert.Equal(t, 0, nilResult.Months())
	assert.Equal(t, 2, (&SimulationResult{Records: make([]MonthlyRecord, 2)}).Months())
}
