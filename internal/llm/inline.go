package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-warden/internal/core"
)

// InlineSuggestion holds the outcome of one inline suggestion call.
type InlineSuggestion struct {
	Suggestions []core.Suggestion
	Raw         string
}

// InlineSuggestionExtractor asks the model for line-anchored suggestions in a
// conversation of its own, independent of the primary review.
type InlineSuggestionExtractor struct {
	gen            Generator
	prompts        *PromptManager
	maxSuggestions int
	logger         *slog.Logger
}

func NewInlineSuggestionExtractor(gen Generator, prompts *PromptManager, maxSuggestions int, logger *slog.Logger) *InlineSuggestionExtractor {
	return &InlineSuggestionExtractor{
		gen:            gen,
		prompts:        prompts,
		maxSuggestions: maxSuggestions,
		logger:         logger,
	}
}

// Extract returns the model's suggestions for diff. Output that cannot be parsed
// is logged and yields an empty result; only a failed AI call is returned as an error.
func (e *InlineSuggestionExtractor) Extract(ctx context.Context, diff string, repoCfg *core.RepoConfig) (*InlineSuggestion, error) {
	limit := e.limit(repoCfg)

	prompt, err := e.prompts.InlinePromptFor(e.gen.Provider(), diff, repoCfg, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build inline suggestions prompt: %w", err)
	}

	raw, err := e.gen.Generate(ctx, Request{History: NewConversation(prompt), Format: FormatSuggestions})
	if err != nil {
		return nil, fmt.Errorf("inline suggestions call failed: %w", err)
	}

	suggestions, err := ParseSuggestions(raw)
	switch {
	case errors.Is(err, ErrNoSuggestionArray):
		e.logger.WarnContext(ctx, "model returned no suggestion array", "response_len", len(raw))
		return &InlineSuggestion{Suggestions: []core.Suggestion{}, Raw: raw}, nil
	case err != nil:
		e.logger.WarnContext(ctx, "could not parse inline suggestions", "error", err)
		return &InlineSuggestion{Suggestions: []core.Suggestion{}, Raw: raw}, nil
	}

	if len(suggestions) > limit {
		e.logger.InfoContext(ctx, "dropping suggestions over the limit", "received", len(suggestions), "limit", limit)
		suggestions = suggestions[:limit]
	}
	e.logger.DebugContext(ctx, "parsed inline suggestions", "count", len(suggestions))
	return &InlineSuggestion{Suggestions: suggestions, Raw: raw}, nil
}

func (e *InlineSuggestionExtractor) limit(repoCfg *core.RepoConfig) int {
	if repoCfg != nil && repoCfg.MaxSuggestions > 0 {
		return repoCfg.MaxSuggestions
	}
	if e.maxSuggestions > 0 {
		return e.maxSuggestions
	}
	return core.DefaultMaxSuggestions
}
