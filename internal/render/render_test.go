package render

import (
	"strings"
	"testing"
	"time"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/history"
	"fjacquet/budget-sim/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *models.SimulationResult {
	return &models.SimulationResult{
		Input: models.BudgetInput{MonthlyIncome: 5000, SavingsGoal: 800, SimulationMonths: 2},
		Records: []models.MonthlyRecord{
			{Month: 1, Income: 5000, TotalFixed: 1800, TotalVariable: 1000, MonthlySavings: 2200, CumulativeSavings: 2200, GoalMet: true},
			{Month: 2, Income: 4000, TotalFixed: 1800, TotalVariable: 1600, MonthlySavings: 600, CumulativeSavings: 2800},
		},
		Summary: models.SimulationSummary{
			TotalIncome:            9000,
			TotalExpenses:          6200,
			AverageSavings:         1400,
			FinalCumulativeSavings: 2800,
			MonthsGoalMet:          1,
			GoalAchievementRate:    0.5,
			BestMonth:              models.MonthSavings{Month: 1, Savings: 2200},
			WorstMonth:             models.MonthSavings{Month: 2, Savings: 600},
		},
	}
}

func TestMonthlyTable(t *testing.T) {
	out := MonthlyTable(sampleResult())

	for _, want := range []string{"Month", "Cumulative", "$5,000.00", "$2,800.00", "yes", "no"} {
		assert.Contains(t, out, want)
	}
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 4)
}

func TestSummary(t *testing.T) {
	stats := models.FinancialStatistics{FixedToIncomeRatio: 0.4, IncomeStability: 0.9, Trend: models.TrendDeclining}
	out := Summary(sampleResult(), stats)

	assert.Contains(t, out, "$1,400.00")
	assert.Contains(t, out, "1/2 months (50.0%)")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "declining")
}

func TestRecommendations(t *testing.T) {
	out := Recommendations(advisor.Advice{
		Recommendations: models.Recommendation{"First thing.", "Second thing."},
		Source:          models.SourceRules,
		FallbackReason:  "timeout",
	})

	assert.Contains(t, out, "rule-based: AI timeout")
	assert.Contains(t, out, "1. First thing.")
	assert.Contains(t, out, "2. Second thing.")
}

func TestHistoryTable(t *testing.T) {
	runs := []history.Run{{
		ID:                   "0123456789abcdef",
		CreatedAt:            time.Now(),
		Input:                models.BudgetInput{MonthlyIncome: 5000, SavingsGoal: 800},
		Months:               12,
		FinalCumulative:      28000,
		GoalAchievementRate:  1,
		RecommendationSource: models.SourceAI,
	}}

	out := HistoryTable(runs)
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "$28,000.00")
	assert.Contains(t, out, "100.0%")
}
