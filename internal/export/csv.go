// Package export writes simulation results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// amount renders a dollar value with two decimals.
type amount float64

// MarshalCSV implements gocsv.TypeMarshaller.
func (a amount) MarshalCSV() (string, error) {
	return decimal.NewFromFloat(float64(a)).StringFixed(2), nil
}

// summaryRow is one month in the summary layout.
type summaryRow struct {
	Month             int    `csv:"Month"`
	Income            amount `csv:"Income"`
	FixedExpenses     amount `csv:"Fixed_Expenses"`
	VariableExpenses  amount `csv:"Variable_Expenses"`
	TotalExpenses     amount `csv:"Total_Expenses"`
	MonthlySavings    amount `csv:"Monthly_Savings"`
	CumulativeSavings amount `csv:"Cumulative_Savings"`
	GoalMet           bool   `csv:"Savings_Goal_Met"`
}

func newCSVWriter(w io.Writer, delimiter rune) *gocsv.SafeCSVWriter {
	writer := csv.NewWriter(w)
	if delimiter != 0 {
		writer.Comma = delimiter
	}
	return gocsv.NewSafeCSVWriter(writer)
}

// WriteSummaryCSV writes one row per month with totals per expense class.
func WriteSummaryCSV(w io.Writer, result *models.SimulationResult, delimiter rune) error {
	if result == nil {
		return fmt.Errorf("cannot write nil simulation result to CSV")
	}

	rows := make([]summaryRow, 0, len(result.Records))
	for _, r := range result.Records {
		rows = append(rows, summaryRow{
			Month:             r.Month,
			Income:            amount(r.Income),
			FixedExpenses:     amount(r.TotalFixed),
			VariableExpenses:  amount(r.TotalVariable),
			TotalExpenses:     amount(r.TotalExpenses),
			MonthlySavings:    amount(r.MonthlySavings),
			CumulativeSavings: amount(r.CumulativeSavings),
			GoalMet:           r.GoalMet,
		})
	}

	if err := gocsv.MarshalCSV(rows, newCSVWriter(w, delimiter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteDetailedCSV writes one row per month and one column per expense
// category, fixed categories first, each group sorted by name.
func WriteDetailedCSV(w io.Writer, result *models.SimulationResult, delimiter rune) error {
	if result == nil {
		return fmt.Errorf("cannot write nil simulation result to CSV")
	}

	fixed := result.Input.FixedCategories()
	variable := result.Input.VariableCategories()

	header := []string{"Month", "Income"}
	header = append(header, fixed...)
	header = append(header, variable...)
	header = append(header, "Total_Expenses", "Monthly_Savings", "Cumulative_Savings", "Savings_Goal_Met")

	writer := newCSVWriter(w, delimiter)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range result.Records {
		row := []string{strconv.Itoa(r.Month), money(r.Income)}
		for _, name := range fixed {
			row = append(row, money(r.FixedExpenses[name]))
		}
		for _, name := range variable {
			row = append(row, money(r.VariableExpenses[name]))
		}
		row = append(row, money(r.TotalExpenses), money(r.MonthlySavings), money(r.CumulativeSavings),
			strconv.FormatBool(r.GoalMet))
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row for month %d: %w", r.Month, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV data: %w", err)
	}
	return nil
}

func money(v float64) string {
	s, _ := amount(v).MarshalCSV()
	return s
}

var safeFilename = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*\.csv$`)

// ValidFilename reports whether name is a plain CSV file name without any
// path component.
func ValidFilename(name string) bool {
	return safeFilename.MatchString(name) && filepath.Base(name) == name
}

// Exporter writes result files into a directory.
type Exporter struct {
	directory string
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an Exporter for directory.
func NewExporter(directory string, delimiter rune, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Exporter{directory: directory, delimiter: delimiter, logger: logger}
}

// Directory returns the export directory.
func (e *Exporter) Directory() string {
	return e.directory
}

// Path returns the full path of an exported file name.
func (e *Exporter) Path(name string) string {
	return filepath.Join(e.directory, name)
}

// Export writes result to name inside the export directory, creating the
// directory if needed. It returns the full path of the written file.
func (e *Exporter) Export(name string, result *models.SimulationResult, detailed bool) (string, error) {
	if !ValidFilename(name) {
		return "", fmt.Errorf("invalid export file name: %q", name)
	}
	path := e.Path(name)

	if err := os.MkdirAll(e.directory, models.PermissionDirectory); err != nil {
		e.logger.WithError(err).Error("Failed to create export directory")
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		e.logger.WithError(err).Error("Failed to create CSV file")
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	write := WriteSummaryCSV
	if detailed {
		write = WriteDetailedCSV
	}
	if err := write(file, result, e.delimiter); err != nil {
		e.logger.WithError(err).Error("Failed to write simulation CSV")
		return "", err
	}

	e.logger.Info("Exported simulation results",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldMonths, Value: result.Months()},
		logging.Field{Key: logging.FieldDelimiter, Value: string(e.delimiter)})
	return path, nil
}

// FileName derives the export name used for a run, for example
// "simulation_5000_800_1a2b3c4d.csv".
func FileName(input models.BudgetInput, runID string) string {
	suffix := runID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	name := fmt.Sprintf("simulation_%s_%s", plain(input.MonthlyIncome), plain(input.SavingsGoal))
	if suffix != "" {
		name += "_" + suffix
	}
	return name + ".csv"
}

func plain(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
