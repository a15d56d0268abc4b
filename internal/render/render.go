// Package render formats simulation output for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/history"
	"fjacquet/budget-sim/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	goodStyle   = cellStyle.Foreground(colorGreen)
	badStyle    = cellStyle.Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// MonthlyTable renders one row per simulated month.
func MonthlyTable(result *models.SimulationResult) string {
	rows := make([][]string, 0, result.Months())
	for _, r := range result.Records {
		rows = append(rows, []string{
			strconv.Itoa(r.Month),
			models.FormatDollars(r.Income),
			models.FormatDollars(r.TotalFixed),
			models.FormatDollars(r.TotalVariable),
			models.FormatDollars(r.MonthlySavings),
			models.FormatDollars(r.CumulativeSavings),
			goalMark(r.GoalMet),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Month", "Income", "Fixed", "Variable", "Savings", "Cumulative", "Goal").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 6 && row >= 0 && row < len(result.Records) {
				if result.Records[row].GoalMet {
					return goodStyle
				}
				return badStyle
			}
			return cellStyle
		})
	return t.String()
}

// Summary renders the headline figures of a run and its statistics.
func Summary(result *models.SimulationResult, stats models.FinancialStatistics) string {
	s := result.Summary
	lines := [][2]string{
		{"Total income", models.FormatDollars(s.TotalIncome)},
		{"Total expenses", models.FormatDollars(s.TotalExpenses)},
		{"Average monthly savings", models.FormatDollars(s.AverageSavings)},
		{"Final cumulative savings", models.FormatDollars(s.FinalCumulativeSavings)},
		{"Goal met", fmt.Sprintf("%d/%d months (%s)", s.MonthsGoalMet, result.Months(), models.FormatPercent(s.GoalAchievementRate))},
		{"Best month", fmt.Sprintf("%d (%s)", s.BestMonth.Month, models.FormatDollars(s.BestMonth.Savings))},
		{"Worst month", fmt.Sprintf("%d (%s)", s.WorstMonth.Month, models.FormatDollars(s.WorstMonth.Savings))},
		{"Fixed-to-income ratio", models.FormatPercent(stats.FixedToIncomeRatio)},
		{"Income stability", fmt.Sprintf("%.2f", stats.IncomeStability)},
		{"Expense volatility", fmt.Sprintf("%.2f", stats.ExpenseVolatility)},
		{"Savings trend", string(stats.Trend)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "  %-26s %s\n", mutedStyle.Render(l[0]+":"), l[1])
	}
	return b.String()
}

// Recommendations renders the advice as a numbered list.
func Recommendations(advice advisor.Advice) string {
	var b strings.Builder
	title := "Recommendations"
	switch advice.Source {
	case models.SourceRules:
		title += " (rule-based"
		if advice.FallbackReason != "" {
			title += ": AI " + advice.FallbackReason
		}
		title += ")"
	case models.SourceAIAndRules:
		title += " (AI + rules)"
	case models.SourceAI:
		title += " (AI)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for i, rec := range advice.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
	}
	return b.String()
}

// HistoryTable renders past runs, newest first.
func HistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			models.FormatDollars(r.Input.MonthlyIncome),
			models.FormatDollars(r.Input.SavingsGoal),
			strconv.Itoa(r.Months),
			models.FormatDollars(r.FinalCumulative),
			models.FormatPercent(r.GoalAchievementRate),
			string(r.RecommendationSource),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Run", "Date", "Income", "Goal", "Months", "Saved", "Goal met", "Advice").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func goalMark(met bool) string {
	if met {
		return "yes"
	}
	return "no"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
