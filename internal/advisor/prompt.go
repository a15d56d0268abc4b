package advisor

import (
	"fmt"
	"strings"

	"fjacquet/budget-sim/internal/models"
)

// SystemPrompt frames the model as a financial planner and fixes the output format.
const SystemPrompt = `You are an experienced certified financial planner specialising in household budgets.
Analyze the budget simulation data and give 3-4 specific, actionable recommendations
that improve the savings rate and the allocation of the budget.

Recommendations must be:
- Specific to the data, with dollar amounts or percentages where relevant
- Ordered by potential impact, most impactful first
- Realistic for a household to carry out

Formatting:
- Number each recommendation (1., 2., ...)
- Start each with a short bold title, e.g. **Trim Dining Out**, followed by one paragraph
- Do not use markdown headers`

// BuildPrompt renders the statistics and budget figures of a run into the
// user prompt. Month-by-month series are never included.
func BuildPrompt(result *models.SimulationResult, stats models.FinancialStatistics) string {
	input := result.Input
	summary := result.Summary
	income := input.MonthlyIncome

	var b strings.Builder
	fmt.Fprintf(&b, "BUDGET SIMULATION ANALYSIS - %d MONTHS\n\n", stats.Months)

	b.WriteString("INCOME & SAVINGS PERFORMANCE:\n")
	fmt.Fprintf(&b, "- Monthly income: %s\n", models.FormatDollars(income))
	fmt.Fprintf(&b, "- Savings goal: %s/month (%s of income)\n",
		models.FormatDollars(input.SavingsGoal), models.FormatPercent(ratio(input.SavingsGoal, income)))
	fmt.Fprintf(&b, "- Actual average savings: %s/month (%s of income)\n",
		models.FormatDollars(stats.AverageSavings), models.FormatPercent(stats.SavingsRate))
	fmt.Fprintf(&b, "- Goal achievement rate: %s of months\n", models.FormatPercent(stats.GoalAchievementRate))
	fmt.Fprintf(&b, "- Savings trend: %s (first half %s, second half %s)\n", stats.Trend,
		models.FormatDollars(stats.FirstHalfAvgSavings), models.FormatDollars(stats.SecondHalfAvgSavings))
	fmt.Fprintf(&b, "- Final cumulative savings: %s\n\n", models.FormatDollars(summary.FinalCumulativeSavings))

	b.WriteString("EXPENSE ALLOCATION:\n")
	fmt.Fprintf(&b, "- Total expenses: %s\n", models.FormatDollars(summary.TotalExpenses))
	fmt.Fprintf(&b, "- Fixed expenses: %s of income (%s budgeted)\n",
		models.FormatPercent(stats.FixedToIncomeRatio), models.FormatDollars(input.TotalFixed()))
	fmt.Fprintf(&b, "- Variable expenses budget: %s of income (%s)\n\n",
		models.FormatPercent(ratio(input.TotalVariable(), income)), models.FormatDollars(input.TotalVariable()))

	b.WriteString("FIXED EXPENSE BREAKDOWN:\n")
	for _, name := range input.FixedCategories() {
		amount := input.FixedExpenses[name]
		fmt.Fprintf(&b, "- %s: %s (%s)\n", name, models.FormatDollars(amount), models.FormatPercent(ratio(amount, income)))
	}

	b.WriteString("\nVARIABLE EXPENSE ANALYSIS:\n")
	for _, c := range stats.Categories {
		fmt.Fprintf(&b, "- %s: budget %s | actual avg %s | adherence %+.1f%% | volatility %.2f\n",
			c.Name, models.FormatDollars(c.Budget), models.FormatDollars(c.AverageActual), c.AdherencePct, c.Volatility)
		fmt.Fprintf(&b, "  over budget %d/%d months | peak %s in month %d\n",
			c.MonthsOverBudget, stats.Months, models.FormatDollars(c.Max), c.PeakMonth)
	}

	b.WriteString("\nFINANCIAL STABILITY METRICS:\n")
	fmt.Fprintf(&b, "- Income stability score: %.2f/1.0\n", stats.IncomeStability)
	fmt.Fprintf(&b, "- Expense volatility score: %.2f/1.0\n", stats.ExpenseVolatility)
	fmt.Fprintf(&b, "- Best month: month %d (%s saved)\n", summary.BestMonth.Month, models.FormatDollars(summary.BestMonth.Savings))
	fmt.Fprintf(&b, "- Worst month: month %d (%s saved)\n\n", summary.WorstMonth.Month, models.FormatDollars(summary.WorstMonth.Savings))

	b.WriteString("OPTIMIZATION PRIORITIES:\n")
	fmt.Fprintf(&b, "1. Reach the %s/month savings goal more consistently\n", models.FormatDollars(input.SavingsGoal))
	b.WriteString("2. Fix categories with poor budget adherence or high volatility\n")
	b.WriteString("3. Improve overall stability and predictability\n")
	b.WriteString("4. Suggest specific dollar adjustments to budget allocations\n")
	return b.String()
}

func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}
