package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sevigo/pr-warden/internal/core"
)

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call of gen by d. A deadline hit is
// reported as an error wrapping core.ErrTimeout. d <= 0 disables the bound.
func WithTimeout(gen Generator, d time.Duration) Generator {
	if d <= 0 {
		return gen
	}
	return &timeoutGenerator{next: gen, timeout: d}
}

func (t *timeoutGenerator) Provider() ModelProvider { return t.next.Provider() }

func (t *timeoutGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := t.next.Generate(ctx, req)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: AI call exceeded %s: %w", core.ErrTimeout, t.timeout, res.err)
		}
		return res.resp, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: AI call exceeded %s", core.ErrTimeout, t.timeout)
		}
		return "", ctx.Err()
	}
}
