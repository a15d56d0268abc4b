package simulation

import "fjacquet/budget-sim/internal/models"

// summarize aggregates a non-empty record sequence.
func summarize(records []models.MonthlyRecord) models.SimulationSummary {
	if len(records) == 0 {
		return models.SimulationSummary{}
	}

	incomes := make([]float64, 0, len(records))
	expenses := make([]float64, 0, len(records))
	savings := make([]float64, 0, len(records))
	metCount := 0
	best, worst := records[0], records[0]

	for _, r := range records {
		incomes = append(incomes, r.Income)
		expenses = append(expenses, r.TotalExpenses)
		savings = append(savings, r.MonthlySavings)
		if r.GoalMet {
			metCount++
		}
		if r.MonthlySavings > best.MonthlySavings {
			best = r
		}
		if r.MonthlySavings < worst.MonthlySavings {
			worst = r
		}
	}

	n := float64(len(records))
	totalSavings := models.SumAmounts(savings...)

	return models.SimulationSummary{
		TotalIncome:            models.SumAmounts(incomes...),
		TotalExpenses:          models.SumAmounts(expenses...),
		AverageSavings:         models.RoundCents(totalSavings / n),
		FinalCumulativeSavings: records[len(records)-1].CumulativeSavings,
		MonthsGoalMet:          metCount,
		GoalAchievementRate:    float64(metCount) / n,
		MinMonthlySavings:      worst.MonthlySavings,
		MaxMonthlySavings:      best.MonthlySavings,
		BestMonth:              monthSavings(best),
		WorstMonth:             monthSavings(worst),
		SavingsSpread:          models.SubAmounts(best.MonthlySavings, worst.MonthlySavings),
	}
}

func monthSavings(r models.MonthlyRecord) models.MonthSavings {
	return models.MonthSavings{Month: r.Month, Savings: r.MonthlySavings, Expenses: r.TotalExpenses}
}
