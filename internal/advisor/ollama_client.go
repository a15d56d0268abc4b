package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"fjacquet/budget-sim/internal/budgeterror"
	"fjacquet/budget-sim/internal/logging"

	"golang.org/x/net/context/ctxhttp"
)

const (
	ollamaBackend = "ollama"

	// DefaultOllamaURL is where a local Ollama server listens by default.
	DefaultOllamaURL = "http://localhost:11434"
)

// OllamaClient talks to an Ollama server over its HTTP API.
type OllamaClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewOllamaClient creates a client for the server at baseURL. A nil
// httpClient uses http.DefaultClient; deadlines come from the request context.
func NewOllamaClient(baseURL string, httpClient *http.Client, logger logging.Logger) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string             `json:"model"`
	Messages []ollamaMessage    `json:"messages"`
	Stream   bool               `json:"stream"`
	Options  map[string]float64 `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate sends a non-streaming chat request.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: req.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Options: map[string]float64{
			"temperature": 0.7,
			"top_p":       0.9,
			"num_predict": 800,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	c.logger.Debug("Sending chat request",
		logging.Field{Key: logging.FieldBackend, Value: ollamaBackend},
		logging.Field{Key: logging.FieldModel, Value: req.Model})

	resp, err := ctxhttp.Post(ctx, c.httpClient, c.baseURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	if err := checkStatus(resp, req.Model); err != nil {
		return "", err
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIMalformed, err)
	}
	if chat.Error != "" {
		return "", budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIUnreachable, errors.New(chat.Error))
	}
	content := strings.TrimSpace(chat.Message.Content)
	if content == "" {
		return "", budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIMalformed, errors.New("empty message content"))
	}
	return content, nil
}

// ListModels returns the names of the models installed on the server.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	resp, err := ctxhttp.Get(ctx, c.httpClient, c.baseURL+"/api/tags")
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	if err := checkStatus(resp, ""); err != nil {
		return nil, err
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIMalformed, err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// HasModel reports whether model is installed. A bare name such as
// "llama3.2" matches any of its tags ("llama3.2:latest").
func (c *OllamaClient) HasModel(ctx context.Context, model string) (bool, error) {
	names, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == model || strings.HasPrefix(name, model+":") {
			return true, nil
		}
	}
	return false, nil
}

func checkStatus(resp *http.Response, model string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	if resp.StatusCode == http.StatusNotFound {
		if model != "" {
			err = fmt.Errorf("model %q: %w", model, err)
		}
		return budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIModelNotFound, err)
	}
	return budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIUnreachable, err)
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AITimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AITimeout, err)
	}
	return budgeterror.NewAIBackendError(ollamaBackend, budgeterror.AIUnreachable, err)
}
