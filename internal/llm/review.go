package llm

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/pr-warden/internal/core"
)

// ReviewService produces a core.Review for a diff: the primary markdown review
// and, independently, a set of inline suggestions.
type ReviewService struct {
	gen       Generator
	prompts   *PromptManager
	extractor *InlineSuggestionExtractor
	parallel  int
	logger    *slog.Logger
}

// NewReviewService creates a ReviewService. parallelCalls caps how many AI
// calls are in flight at once; below 1 it is treated as 1, which runs them in turn.
func NewReviewService(gen Generator, prompts *PromptManager, extractor *InlineSuggestionExtractor, parallelCalls int, logger *slog.Logger) *ReviewService {
	if parallelCalls < 1 {
		parallelCalls = 1
	}
	return &ReviewService{
		gen:       gen,
		prompts:   prompts,
		extractor: extractor,
		parallel:  parallelCalls,
		logger:    logger,
	}
}

// GenerateReview runs the review call, then the inline suggestion call. With
// more than one parallel call allowed they overlap. A failure of either call
// fails the review and the inline call is skipped if the review call already failed.
func (s *ReviewService) GenerateReview(ctx context.Context, diff string, repoCfg *core.RepoConfig) (*core.Review, error) {
	prompt, err := s.prompts.ReviewPromptFor(s.gen.Provider(), diff, repoCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build review prompt: %w", err)
	}

	var (
		text   string
		inline *InlineSuggestion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	g.Go(func() error {
		history := NewConversation(prompt)
		resp, err := s.gen.Generate(gctx, Request{History: history, Format: FormatText})
		if err != nil {
			return fmt.Errorf("review call failed: %w", err)
		}
		text = resp
		history = history.With(RoleModel, resp)
		s.logger.DebugContext(gctx, "review generated", "turns", len(history), "response_len", len(resp))
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		inline, err = s.extractor.Extract(gctx, diff, repoCfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	review := &core.Review{
		Text:        text,
		Suggestions: inline.Suggestions,
		InlineRaw:   inline.Raw,
		Diff:        diff,
	}
	label, raw, ok := ExtractLabel(text)
	switch {
	case ok:
		review.Label = label
	case raw != "":
		s.logger.WarnContext(ctx, "ignoring unknown label suggested by model", "label", raw)
	default:
		s.logger.InfoContext(ctx, "model did not suggest a label")
	}
	return review, nil
}
