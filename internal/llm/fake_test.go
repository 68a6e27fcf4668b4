package llm

import (
	"context"
	"strings"
	"sync"
)

// fakeGenerator answers by request format and records every request.
type fakeGenerator struct {
	mu        sync.Mutex
	text      string
	inline    string
	textErr   error
	inlineErr error
	block     bool
	requests  []Request
}

func (f *fakeGenerator) Provider() ModelProvider { return GeminiProvider }

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if req.Format == FormatSuggestions {
		return f.inline, f.inlineErr
	}
	return f.text, f.textErr
}

func (f *fakeGenerator) promptFor(format Format) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.Format == format {
			var b strings.Builder
			for _, t := range r.History {
				b.WriteString(t.Text)
			}
			return b.String()
		}
	}
	return ""
}
