package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedCompleter admits at most a fixed number of requests per second
// to the wrapped completer.
type RateLimitedCompleter struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimitedCompleter wraps next. A non-positive rps disables limiting
// and returns next unchanged.
func NewRateLimitedCompleter(next Completer, rps float64, burst int) Completer {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Complete waits for a token, then delegates.
func (r *RateLimitedCompleter) Complete(ctx context.Context, prompt string, params CompletionParams) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return r.next.Complete(ctx, prompt, params)
}

// Name returns the wrapped completer's name.
func (r *RateLimitedCompleter) Name() string { return r.next.Name() }

var _ Completer = (*RateLimitedCompleter)(nil)
