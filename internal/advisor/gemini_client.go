package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fjacquet/budget-sim/internal/budgeterror"
	"fjacquet/budget-sim/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiBackend = "gemini"

	// DefaultGeminiModel is used when the request names no model.
	DefaultGeminiModel = "gemini-1.5-flash"
)

// GeminiClient implements AIClient on the Google Gemini API. The underlying
// genai client is created on first use.
type GeminiClient struct {
	apiKey string
	logger logging.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a client authenticated with apiKey.
func NewGeminiClient(apiKey string, logger logging.Logger) *GeminiClient {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &GeminiClient{apiKey: apiKey, logger: logger}
}

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, budgeterror.NewAIBackendError(geminiBackend, budgeterror.AIUnreachable,
			errors.New("GEMINI_API_KEY is not set"))
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, budgeterror.NewAIBackendError(geminiBackend, budgeterror.AIUnreachable,
			fmt.Errorf("failed to create Gemini client: %w", err))
	}
	c.client = client
	return client, nil
}

// Generate sends the system and user prompt as a single text part.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	modelName := req.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)

	c.logger.Debug("Sending generate request",
		logging.Field{Key: logging.FieldBackend, Value: geminiBackend},
		logging.Field{Key: logging.FieldModel, Value: modelName})

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", budgeterror.NewAIBackendError(geminiBackend, budgeterror.AITimeout, err)
		}
		return "", budgeterror.NewAIBackendError(geminiBackend, budgeterror.AIUnreachable, err)
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", budgeterror.NewAIBackendError(geminiBackend, budgeterror.AIMalformed, errors.New("no candidates in response"))
	}
	return b.String(), nil
}

// Close releases the underlying client, if one was created.
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
