package aistatus

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/budget-sim/internal/advisor"
	"fjacquet/budget-sim/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		model    string
		expected string
	}{
		{
			name:     "model installed",
			body:     `{"models":[{"name":"llama3.2:latest"},{"name":"mistral:7b"}]}`,
			model:    "llama3.2",
			expected: "llama3.2 installed",
		},
		{
			name:     "model missing",
			body:     `{"models":[{"name":"mistral:7b"}]}`,
			model:    "llama3.2",
			expected: "ollama pull llama3.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := tagsServer(t, tt.body)
			client := advisor.NewOllamaClient(ts.URL, ts.Client(), logging.NewMockLogger())

			var out bytes.Buffer
			require.NoError(t, Check(context.Background(), client, tt.model, &out))
			assert.Contains(t, out.String(), "Ollama:  available")
			assert.Contains(t, out.String(), tt.expected)
		})
	}
}

func TestCheck_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := advisor.NewOllamaClient(url, &http.Client{}, logging.NewMockLogger())
	var out bytes.Buffer
	require.NoError(t, Check(context.Background(), client, "llama3.2", &out))
	assert.Contains(t, out.String(), "unavailable")
	assert.Contains(t, out.String(), "built-in rules")
}
