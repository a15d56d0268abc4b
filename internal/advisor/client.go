// Package advisor turns simulation statistics into budget recommendations.
//
// A Synthesizer first asks a language-model backend (any AIClient) for advice
// and falls back to deterministic rules whenever the backend is disabled,
// unreachable, too slow or returns nothing usable. Callers therefore always
// receive at least one recommendation.
package advisor

import "context"

// GenerateRequest is a single chat-style completion request.
type GenerateRequest struct {
	Model  string
	System string
	Prompt string
}

// AIClient is the contract every language-model backend implements.
// Implementations must honour ctx cancellation and report failures as
// *budgeterror.AIBackendError so the synthesizer can classify them.
type AIClient interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
