// Package analysis reduces a simulation run to the statistics the advisor
// reasons about.
package analysis

import (
	"math"

	"fjacquet/budget-sim/internal/models"
)

// TrendMargin is the relative change between the two halves of the horizon
// that counts as a material improvement or decline.
const TrendMargin = 0.10

// TrendMarginFloor is the minimum margin in dollars, which applies when the
// first half averages near zero.
const TrendMarginFloor = 1.0

// Analyze computes FinancialStatistics for result. It is a pure function: the
// same result always yields the same statistics. A nil or empty result yields
// zero statistics with Months == 0.
func Analyze(result *models.SimulationResult) models.FinancialStatistics {
	if result.Months() == 0 {
		return models.FinancialStatistics{
			Trend:              models.TrendFlat,
			CategoryVolatility: map[string]float64{},
		}
	}

	records := result.Records
	incomes := column(records, func(r models.MonthlyRecord) float64 { return r.Income })
	fixed := column(records, func(r models.MonthlyRecord) float64 { return r.TotalFixed })
	totals := column(records, func(r models.MonthlyRecord) float64 { return r.TotalExpenses })
	savings := column(records, func(r models.MonthlyRecord) float64 { return r.MonthlySavings })

	avgIncome := mean(incomes)
	avgFixed := mean(fixed)
	avgSavings := mean(savings)

	stats := models.FinancialStatistics{
		Months:              len(records),
		IncomeStability:     incomeStability(incomes),
		CategoryVolatility:  make(map[string]float64, len(result.Input.VariableExpenses)),
		ExpenseVolatility:   math.Min(1, coefficientOfVariation(totals)),
		GoalAchievementRate: result.Summary.GoalAchievementRate,
		AverageIncome:       avgIncome,
		AverageFixed:        avgFixed,
		AverageSavings:      avgSavings,
	}

	if avgIncome > 0 {
		stats.FixedToIncomeRatio = avgFixed / avgIncome
		stats.SavingsRate = avgSavings / avgIncome
	}
	stats.HighFixedRatio = stats.FixedToIncomeRatio > models.HighFixedRatioThreshold

	for _, name := range result.Input.VariableCategories() {
		c := categoryStats(name, result.Input.VariableExpenses[name], records)
		stats.Categories = append(stats.Categories, c)
		stats.CategoryVolatility[name] = c.Volatility
	}

	stats.FirstHalfAvgSavings, stats.SecondHalfAvgSavings, stats.Trend = trend(savings)
	return stats
}

// incomeStability is 1 - CV clamped to [0,1]; 0 when mean income is 0.
func incomeStability(incomes []float64) float64 {
	m := mean(incomes)
	if m == 0 {
		return 0
	}
	return clamp01(1 - stdDev(incomes)/m)
}

func categoryStats(name string, budget float64, records []models.MonthlyRecord) models.CategoryStats {
	values := make([]float64, 0, len(records))
	c := models.CategoryStats{Name: name, Budget: budget}

	for i, r := range records {
		v := r.VariableExpenses[name]
		values = append(values, v)
		if i == 0 || v < c.Min {
			c.Min = v
		}
		if i == 0 || v > c.Max {
			c.Max = v
			c.PeakMonth = r.Month
		}
		if v > budget {
			c.MonthsOverBudget++
		}
	}

	c.AverageActual = mean(values)
	c.StdDeviation = stdDev(values)
	c.Volatility = coefficientOfVariation(values)
	if budget > 0 {
		c.AdherencePct = (budget - c.AverageActual) / budget * 100
	}
	return c
}

// trend compares average monthly savings of the first and second half.
func trend(savings []float64) (first, second float64, direction models.TrendDirection) {
	mid := len(savings) / 2
	if mid == 0 {
		return 0, mean(savings), models.TrendFlat
	}
	first = mean(savings[:mid])
	second = mean(savings[mid:])

	margin := math.Max(TrendMargin*math.Abs(first), TrendMarginFloor)
	switch diff := second - first; {
	case diff > margin:
		direction = models.TrendImproving
	case diff < -margin:
		direction = models.TrendDeclining
	default:
		direction = models.TrendFlat
	}
	return first, second, direction
}

func column(records []models.MonthlyRecord, get func(models.MonthlyRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = get(r)
	}
	return out
}
