package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.SimulationResult {
	return &models.SimulationResult{
		Input: models.BudgetInput{
			MonthlyIncome:    5000,
			FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 300},
			VariableExpenses: map[string]float64{"food": 600},
			SavingsGoal:      800,
			SimulationMonths: 2,
		},
		Records: []models.MonthlyRecord{
			{
				Month: 1, Income: 5000,
				FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 301.5},
				VariableExpenses: map[string]float64{"food": 610.25},
				TotalFixed:       1801.5, TotalVariable: 610.25, TotalExpenses: 2411.75,
				MonthlySavings: 2588.25, CumulativeSavings: 2588.25, GoalMet: true,
			},
			{
				Month: 2, Income: 4200,
				FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 299},
				VariableExpenses: map[string]float64{"food": 3000},
				TotalFixed:       1799, TotalVariable: 3000, TotalExpenses: 4799,
				MonthlySavings: -599, CumulativeSavings: 1989.25, GoalMet: false,
			},
		},
	}
}

func readAll(t *testing.T, data string, delimiter rune) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = delimiter
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, sampleResult(), ','))

	rows := readAll(t, buf.String(), ',')
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Month", "Income", "Fixed_Expenses", "Variable_Expenses", "Total_Expenses",
		"Monthly_Savings", "Cumulative_Savings", "Savings_Goal_Met"}, rows[0])
	assert.Equal(t, []string{"1", "5000.00", "1801.50", "610.25", "2411.75", "2588.25", "2588.25", "true"}, rows[1])
	assert.Equal(t, []string{"2", "4200.00", "1799.00", "3000.00", "4799.00", "-599.00", "1989.25", "false"}, rows[2])
}

func TestWriteSummaryCSV_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, sampleResult(), ';'))

	assert.True(t, strings.HasPrefix(buf.String(), "Month;Income;"))
	assert.Len(t, readAll(t, buf.String(), ';'), 3)
}

func TestWriteDetailedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailedCSV(&buf, sampleResult(), ','))

	rows := readAll(t, buf.String(), ',')
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Month", "Income", "insurance", "rent", "food",
		"Total_Expenses", "Monthly_Savings", "Cumulative_Savings", "Savings_Goal_Met"}, rows[0])
	assert.Equal(t, []string{"1", "5000.00", "301.50", "1500.00", "610.25", "2411.75", "2588.25", "2588.25", "true"}, rows[1])
	assert.Equal(t, "-599.00", rows[2][6])
}

func TestWrite_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSummaryCSV(&buf, nil, ','))
	assert.Error(t, WriteDetailedCSV(&buf, nil, ','))
}

func TestExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	logger := logging.NewMockLogger()
	exporter := NewExporter(dir, 0, logger)

	path, err := exporter.Export("run.csv", sampleResult(), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Month,Income,Fixed_Expenses"))
	assert.True(t, logger.HasEntry("INFO", "Exported simulation results"))

	path, err = exporter.Export("detail.csv", sampleResult(), true)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Month,Income,insurance,rent,food"))
}

func TestExporter_RejectsUnsafeNames(t *testing.T) {
	exporter := NewExporter(t.TempDir(), ',', logging.NewMockLogger())

	for _, name := range []string{"../escape.csv", "sub/dir.csv", ".hidden.csv", "notes.txt", ""} {
		_, err := exporter.Export(name, sampleResult(), false)
		assert.Error(t, err, name)
	}
}

func TestFileName(t *testing.T) {
	input := models.BudgetInput{MonthlyIncome: 5000, SavingsGoal: 800.5}

	assert.Equal(t, "simulation_5000_800.5_1a2b3c4d.csv", FileName(input, "1a2b3c4d-0000-0000"))
	assert.Equal(t, "simulation_5000_800.5.csv", FileName(input, ""))
	assert.True(t, ValidFilename(FileName(input, "abc")))
}
