package advisor

import (
	"fmt"
	"sort"

	"fjacquet/budget-sim/internal/models"
)

// Thresholds used by the rule-based recommendations.
const (
	ModerateFixedRatio   = 0.4
	OverspendTolerance   = 0.10
	LowGoalRate          = 0.5
	HighVolatility       = 0.20
	SeasonalPeakMargin   = 0.05
	EmergencyFundMonths  = 3
	ReducedGoalFraction  = 0.8
	ModerateTrimFraction = 0.10
)

// candidate is a rule-based recommendation before ordering.
type candidate struct {
	text     string
	impact   float64
	category string
	rule     int
}

type rule func(result *models.SimulationResult, stats models.FinancialStatistics) []candidate

// rules are evaluated in this order; the index breaks ordering ties.
var rules = []rule{
	savingsShortfall,
	fixedRatio,
	variableOverspend,
	lowGoalAchievement,
	highVolatility,
	seasonalPeak,
	emergencyFund,
	goalConsistentlyMet,
}

// Fallback derives recommendations from fixed thresholds. The output depends
// only on its arguments, is ordered by monthly dollar impact (largest first,
// ties by category then rule) and is never empty.
func Fallback(result *models.SimulationResult, stats models.FinancialStatistics) models.Recommendation {
	var candidates []candidate
	for i, r := range rules {
		for _, c := range r(result, stats) {
			c.rule = i
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, candidate{
			text: "Your budget is balanced; review it every quarter and keep tracking variable categories against their budgets.",
			rule: len(rules),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.impact != b.impact {
			return a.impact > b.impact
		}
		if a.category != b.category {
			return a.category < b.category
		}
		return a.rule < b.rule
	})

	recs := make(models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, c.text)
	}
	return recs
}

func savingsShortfall(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	goal := result.Input.SavingsGoal
	if stats.AverageSavings >= goal {
		return nil
	}
	gap := goal - stats.AverageSavings
	return []candidate{{
		text: fmt.Sprintf("Average monthly savings of %s fall %s short of your %s goal; cut discretionary spending by %s per month or lower the goal.",
			models.FormatDollars(stats.AverageSavings), models.FormatDollars(gap), models.FormatDollars(goal), models.FormatDollars(gap)),
		impact:   gap,
		category: "savings",
	}}
}

func fixedRatio(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	largest, amount, ok := largestFixed(result.Input)
	if !ok {
		return nil
	}

	switch {
	case stats.HighFixedRatio:
		excess := stats.AverageFixed - models.HighFixedRatioThreshold*stats.AverageIncome
		return []candidate{{
			text: fmt.Sprintf("Fixed costs take %s of income; reduce %s (%s), your largest fixed expense, to free the %s needed to bring them under %s.",
				models.FormatPercent(stats.FixedToIncomeRatio), largest, models.FormatDollars(amount),
				models.FormatDollars(excess), models.FormatPercent(models.HighFixedRatioThreshold)),
			impact:   excess,
			category: largest,
		}}
	case stats.FixedToIncomeRatio > ModerateFixedRatio:
		trim := ModerateTrimFraction * amount
		return []candidate{{
			text: fmt.Sprintf("Fixed costs take %s of income; renegotiating %s by 10%% would free %s per month.",
				models.FormatPercent(stats.FixedToIncomeRatio), largest, models.FormatDollars(trim)),
			impact:   trim,
			category: largest,
		}}
	}
	return nil
}

func variableOverspend(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	var out []candidate
	for _, c := range stats.Categories {
		if c.Budget <= 0 || c.AverageActual <= c.Budget*(1+OverspendTolerance) {
			continue
		}
		delta := c.Overspend()
		out = append(out, candidate{
			text: fmt.Sprintf("Spending on %s averaged %s against a %s budget; reduce it by %s per month or raise the budget to match reality.",
				c.Name, models.FormatDollars(c.AverageActual), models.FormatDollars(c.Budget), models.FormatDollars(delta)),
			impact:   delta,
			category: c.Name,
		})
	}
	return out
}

func lowGoalAchievement(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	rate := stats.GoalAchievementRate
	if rate >= LowGoalRate {
		return nil
	}
	goal := result.Input.SavingsGoal
	text := fmt.Sprintf("The savings goal was met in only %s of months; lower it to %s (80%% of the current goal)",
		models.FormatPercent(rate), models.FormatDollars(goal*ReducedGoalFraction))
	if volatile, ok := stats.HighestVolatility(); ok {
		text += fmt.Sprintf(" or stabilize %s, your most volatile category.", volatile.Name)
	} else {
		text += "."
	}
	return []candidate{{
		text:     text,
		impact:   goal * (1 - rate),
		category: "goal",
	}}
}

func highVolatility(_ *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	var out []candidate
	for _, c := range stats.Categories {
		if c.Volatility <= HighVolatility {
			continue
		}
		out = append(out, candidate{
			text: fmt.Sprintf("Spending on %s swings by about %s a month (volatility %.2f); set a weekly cap or keep a buffer of that size.",
				c.Name, models.FormatDollars(c.StdDeviation), c.Volatility),
			impact:   c.StdDeviation,
			category: c.Name,
		})
	}
	return out
}

func seasonalPeak(_ *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	var peak models.CategoryStats
	found := false
	for _, c := range stats.Categories {
		if c.Max <= c.Budget*(1+SeasonalPeakMargin) {
			continue
		}
		if !found || c.PeakOverrun() > peak.PeakOverrun() {
			peak = c
			found = true
		}
	}
	if !found || stats.Months == 0 {
		return nil
	}

	overrun := peak.PeakOverrun()
	perMonth := overrun / float64(stats.Months)
	return []candidate{{
		text: fmt.Sprintf("Spending on %s peaks at %s in month %d, %s over budget; set aside %s each month ahead of that season.",
			peak.Name, models.FormatDollars(peak.Max), peak.PeakMonth, models.FormatDollars(overrun), models.FormatDollars(perMonth)),
		impact:   perMonth,
		category: peak.Name,
	}}
}

func emergencyFund(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	target := EmergencyFundMonths * result.Input.MonthlyIncome
	final := result.Summary.FinalCumulativeSavings
	if final >= target || stats.Months == 0 {
		return nil
	}
	perMonth := (target - final) / float64(stats.Months)
	return []candidate{{
		text: fmt.Sprintf("Cumulative savings of %s cover less than three months of income; build an emergency fund of %s by saving an extra %s per month.",
			models.FormatDollars(final), models.FormatDollars(target), models.FormatDollars(perMonth)),
		impact:   perMonth,
		category: "emergency_fund",
	}}
}

func goalConsistentlyMet(result *models.SimulationResult, stats models.FinancialStatistics) []candidate {
	if stats.Months == 0 || result.Summary.MonthsGoalMet < stats.Months {
		return nil
	}
	return []candidate{{
		text:     "Your savings goal was met every month; keep the current allocation and consider raising the goal or investing the surplus.",
		category: "goal",
	}}
}

// largestFixed returns the fixed category with the highest budget, ties
// resolved by name.
func largestFixed(input models.BudgetInput) (string, float64, bool) {
	name, amount, found := "", 0.0, false
	for _, n := range input.FixedCategories() {
		if v := input.FixedExpenses[n]; !found || v > amount {
			name, amount, found = n, v, true
		}
	}
	return name, amount, found
}
