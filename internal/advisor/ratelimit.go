package advisor

import (
	"context"
	"time"

	"fjacquet/budget-sim/internal/budgeterror"

	"golang.org/x/time/rate"
)

// RateLimitedClient throttles calls to another AIClient. Waiting for a token
// counts against the caller's deadline.
type RateLimitedClient struct {
	next    AIClient
	limiter *rate.Limiter
}

// NewRateLimitedClient allows requestsPerMinute calls per minute with a burst
// of one. A non-positive rate disables throttling.
func NewRateLimitedClient(next AIClient, requestsPerMinute int) *RateLimitedClient {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &RateLimitedClient{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// Generate waits for a token, then delegates.
func (c *RateLimitedClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", budgeterror.NewAIBackendError("ratelimit", budgeterror.AITimeout, err)
	}
	return c.next.Generate(ctx, req)
}
