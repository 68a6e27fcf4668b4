// Package jobs defines background tasks such as code reviews.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/gitutil"
	"github.com/sevigo/pr-warden/internal/redact"
)

// DiffSource produces the diff under review for a checked-out repository.
type DiffSource interface {
	Diff(ctx context.Context, dir, base string) (*gitutil.DiffResult, error)
}

// Reviewer turns a diff into a review.
type Reviewer interface {
	GenerateReview(ctx context.Context, diff string, repoCfg *core.RepoConfig) (*core.Review, error)
}

// Publisher writes a review back to the pull request.
type Publisher interface {
	Publish(ctx context.Context, req *core.ReviewRequest, review *core.Review) error
}

// ReviewOptions tunes a ReviewJob.
type ReviewOptions struct {
	MaxDiffBytes  int
	RedactSecrets bool
	// AllowAnonymous skips the identification check; used by dry runs that never publish.
	AllowAnonymous bool
}

// ReviewJob runs one pull request review end to end:
// workspace, repository config, diff, budget, redaction, AI review and publishing.
type ReviewJob struct {
	workspace Workspace
	diffs     DiffSource
	reviewer  Reviewer
	publisher Publisher
	opts      ReviewOptions
	logger    *slog.Logger
}

// NewReviewJob creates a ReviewJob.
func NewReviewJob(workspace Workspace, diffs DiffSource, reviewer Reviewer, publisher Publisher, opts ReviewOptions, logger *slog.Logger) *ReviewJob {
	if workspace == nil || diffs == nil || reviewer == nil || publisher == nil {
		panic("review job dependencies cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{
		workspace: workspace,
		diffs:     diffs,
		reviewer:  reviewer,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// NewReviewJobFromConfig creates a ReviewJob using the global diff and redaction settings.
func NewReviewJobFromConfig(cfg *config.Config, workspace Workspace, diffs DiffSource, reviewer Reviewer, publisher Publisher, logger *slog.Logger) *ReviewJob {
	return NewReviewJob(workspace, diffs, reviewer, publisher, ReviewOptions{
		MaxDiffBytes:  cfg.MaxDiffBytes,
		RedactSecrets: cfg.RedactSecrets,
	}, logger)
}

// Run executes the review for req. Any returned error is fatal for the run.
func (j *ReviewJob) Run(ctx context.Context, req *core.ReviewRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", core.ErrMissingIdentification)
	}
	if !j.opts.AllowAnonymous {
		if err := req.Validate(); err != nil {
			return err
		}
	}
	log := j.logger.With("repo", req.FullName(), "pr", req.PRNumber)
	log.InfoContext(ctx, "starting review job")

	checkout, err := j.workspace.Prepare(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}
	defer checkout.Cleanup()

	repoCfg, err := config.LoadRepoConfig(checkout.Dir)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		log.DebugContext(ctx, "no repository config, using defaults")
	case err != nil:
		log.WarnContext(ctx, "ignoring invalid repository config", "error", err)
		repoCfg = core.DefaultRepoConfig()
	}

	res, err := j.diffs.Diff(ctx, checkout.Dir, checkout.Base)
	if err != nil {
		return fmt.Errorf("failed to extract diff: %w", err)
	}
	log.InfoContext(ctx, "diff extracted", "mode", res.Mode, "bytes", len(res.Diff))

	diff := j.prepareDiff(ctx, log, res.Diff, repoCfg)
	if strings.TrimSpace(diff) == "" {
		if res.Mode == gitutil.ModeWorkingTree {
			log.WarnContext(ctx, "diff is empty and HEAD has no parent in this checkout, nothing to review; "+
				"shallow clones need fetch-depth: 2 or more")
		} else {
			log.WarnContext(ctx, "diff is empty, nothing to review", "mode", res.Mode)
		}
		return nil
	}

	review, err := j.reviewer.GenerateReview(ctx, diff, repoCfg)
	if err != nil {
		return fmt.Errorf("failed to generate review: %w", err)
	}

	if err := j.publisher.Publish(ctx, req, review); err != nil {
		return fmt.Errorf("failed to publish review: %w", err)
	}

	log.InfoContext(ctx, "review job completed successfully",
		"label", review.Label,
		"suggestions", len(review.Suggestions),
	)
	return nil
}

// prepareDiff applies exclusions, the size budget and secret redaction.
func (j *ReviewJob) prepareDiff(ctx context.Context, log *slog.Logger, diff string, repoCfg *core.RepoConfig) string {
	maxBytes := j.opts.MaxDiffBytes
	if repoCfg.MaxDiffBytes > 0 {
		maxBytes = repoCfg.MaxDiffBytes
	}

	budget := gitutil.LimitDiff(diff, gitutil.BudgetOptions{MaxBytes: maxBytes, Exclude: repoCfg.ExcludePaths})
	if len(budget.Excluded) > 0 {
		log.InfoContext(ctx, "excluded files from review", "files", budget.Excluded)
	}
	if budget.Truncated {
		log.WarnContext(ctx, "diff exceeds budget, trimmed", "max_bytes", maxBytes, "omitted", len(budget.Omitted))
	}
	diff = budget.Diff

	if j.opts.RedactSecrets {
		var n int
		diff, n = redact.SecretsCount(diff)
		if n > 0 {
			log.WarnContext(ctx, "redacted secrets from diff", "count", n)
		}
	}
	return diff
}
