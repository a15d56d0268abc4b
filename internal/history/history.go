// Package history keeps a SQLite log of past simulation runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/budget-sim/internal/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id                  TEXT PRIMARY KEY,
	created_at              TEXT NOT NULL,
	monthly_income          REAL NOT NULL,
	savings_goal            REAL NOT NULL,
	months                  INTEGER NOT NULL,
	average_savings         REAL NOT NULL,
	final_cumulative        REAL NOT NULL,
	goal_achievement_rate   REAL NOT NULL,
	trend                   TEXT NOT NULL,
	recommendation_source   TEXT NOT NULL,
	recommendations         TEXT NOT NULL,
	input_json              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// timeLayout sorts lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Run is one persisted simulation.
type Run struct {
	ID                   string
	CreatedAt            time.Time
	Input                models.BudgetInput
	Months               int
	AverageSavings       float64
	FinalCumulative      float64
	GoalAchievementRate  float64
	Trend                models.TrendDirection
	RecommendationSource models.RecommendationSource
	Recommendations      models.Recommendation
}

// NewRun builds a Run from a completed simulation.
func NewRun(id string, createdAt time.Time, result *models.SimulationResult, stats models.FinancialStatistics,
	source models.RecommendationSource, recs models.Recommendation) Run {
	return Run{
		ID:                   id,
		CreatedAt:            createdAt.UTC(),
		Input:                result.Input,
		Months:               result.Months(),
		AverageSavings:       result.Summary.AverageSavings,
		FinalCumulative:      result.Summary.FinalCumulativeSavings,
		GoalAchievementRate:  result.Summary.GoalAchievementRate,
		Trend:                stats.Trend,
		RecommendationSource: source,
		Recommendations:      recs,
	}
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store persists runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. The run ID must be unique.
func (s *Store) Record(ctx context.Context, run Run) error {
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}

	input, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("encoding input: %w", err)
	}
	recs, err := json.Marshal(run.Recommendations)
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO runs
		(run_id, created_at, monthly_income, savings_goal, months, average_savings,
		 final_cumulative, goal_achievement_rate, trend, recommendation_source,
		 recommendations, input_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Input.MonthlyIncome, run.Input.SavingsGoal,
		run.Months, run.AverageSavings, run.FinalCumulative, run.GoalAchievementRate,
		string(run.Trend), string(run.RecommendationSource), string(recs), string(input),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

const selectColumns = `SELECT run_id, created_at, months, average_savings, final_cumulative,
	goal_achievement_rate, trend, recommendation_source, recommendations, input_json FROM runs`

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectColumns + " ORDER BY created_at DESC, run_id"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns a single run by ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectColumns+" WHERE run_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                      Run
		createdAt, trend, source string
		recsJSON, inputJSON      string
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Months, &run.AverageSavings, &run.FinalCumulative,
		&run.GoalAchievementRate, &trend, &source, &recsJSON, &inputJSON); err != nil {
		return Run{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	run.Trend = models.TrendDirection(trend)
	run.RecommendationSource = models.RecommendationSource(source)

	if err := json.Unmarshal([]byte(recsJSON), &run.Recommendations); err != nil {
		return Run{}, fmt.Errorf("decoding recommendations of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(inputJSON), &run.Input); err != nil {
		return Run{}, fmt.Errorf("decoding input of run %s: %w", run.ID, err)
	}
	return run, nil
}
