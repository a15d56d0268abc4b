package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/budget-sim/internal/export"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type simulateBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Results struct {
		RunID           string   `json:"run_id"`
		CSVFilename     string   `json:"csv_filename"`
		Recommendations []string `json:"recommendations"`
		Source          string   `json:"recommendation_source"`
		Months          []struct {
			Month int `json:"month"`
		} `json:"monthly_results"`
	} `json:"results"`
}

const validRequest = `{
	"monthly_income": 5000,
	"fixed_expenses": {"rent": 1500, "insurance": 300},
	"variable_expenses": {"food": 600, "entertainment": 400},
	"savings_goal": 800,
	"simulation_months": 12
}`

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	srv := New(service.New(logger, service.WithSeed(11)), export.NewExporter(dir, ',', logger), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, dir
}

func postSimulate(t *testing.T, ts *httptest.Server, body string) (*http.Response, simulateBody) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/simulate", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded simulateBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestSimulate(t *testing.T) {
	ts, dir := newTestServer(t)

	resp, body := postSimulate(t, ts, validRequest)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Results.RunID)
	assert.Len(t, body.Results.Months, 12)
	assert.NotEmpty(t, body.Results.Recommendations)
	assert.Equal(t, "rules", body.Results.Source)

	require.True(t, strings.HasPrefix(body.Results.CSVFilename, "simulation_5000_800_"))
	_, err := os.Stat(filepath.Join(dir, body.Results.CSVFilename))
	assert.NoError(t, err)
}

func TestSimulate_DefaultMonths(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := postSimulate(t, ts, `{"monthly_income": 3000, "savings_goal": 200}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body.Results.Months, 12)
}

func TestSimulate_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed json", body: `{"monthly_income":`, message: "invalid request body"},
		{name: "too many months", body: `{"monthly_income": 5000, "simulation_months": 25}`, message: "simulation_months"},
		{name: "zero income", body: `{"monthly_income": 0}`, message: "monthly_income"},
		{name: "negative expense", body: `{"monthly_income": 5000, "fixed_expenses": {"rent": -10}}`, message: "cannot be negative"},
	}

	ts, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postSimulate(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.message)
		})
	}
}

func TestDownload(t *testing.T) {
	ts, _ := newTestServer(t)
	_, body := postSimulate(t, ts, validRequest)

	resp, err := http.Get(ts.URL + "/api/download/" + body.Results.CSVFilename)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), body.Results.CSVFilename)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "Month,Income"))
}

func TestDownload_Errors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "missing file", path: "/api/download/nothing.csv", status: http.StatusNotFound},
		{name: "wrong extension", path: "/api/download/passwd", status: http.StatusBadRequest},
		{name: "hidden file", path: "/api/download/.secret.csv", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHealthAndMethods(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/simulate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
