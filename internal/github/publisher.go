package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/pr-warden/internal/core"
)

// Publisher posts a generated review to a pull request: the review comment,
// the label, line-anchored suggestions and, when there are none, a fallback comment.
type Publisher struct {
	clients ClientFactory
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher creates a Publisher. timeout bounds each GitHub call; zero disables it.
func NewPublisher(clients ClientFactory, timeout time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{clients: clients, timeout: timeout, logger: logger}
}

// Publish runs every remote write for a review. Only a missing
// identification or a failed review comment fail the run. Label and
// per-suggestion failures are logged and skipped. When the head commit cannot
// be resolved, suggestions go into the general comment instead of the lines.
func (p *Publisher) Publish(ctx context.Context, req *core.ReviewRequest, review *core.Review) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if review == nil {
		return errors.New("nothing to publish: review is nil")
	}

	client, _, err := p.clients.ForRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	owner, repo, number := req.RepoOwner, req.RepoName, req.PRNumber
	log := p.logger.With("repo", req.FullName(), "pr", number)

	if err := p.call(ctx, func(ctx context.Context) error {
		return client.CreateComment(ctx, owner, repo, number, review.Text)
	}); err != nil {
		return fmt.Errorf("failed to post review comment: %w", err)
	}
	log.InfoContext(ctx, "review comment posted")

	if review.Label != "" {
		if err := p.call(ctx, func(ctx context.Context) error {
			return client.AddLabels(ctx, owner, repo, number, []string{string(review.Label)})
		}); err != nil {
			log.WarnContext(ctx, "failed to apply label, continuing", "label", review.Label, "error", err)
		} else {
			log.InfoContext(ctx, "label applied", "label", review.Label)
		}
	}

	if len(review.Suggestions) == 0 {
		if err := p.call(ctx, func(ctx context.Context) error {
			return client.CreateComment(ctx, owner, repo, number, formatFallbackComment(review))
		}); err != nil {
			log.WarnContext(ctx, "failed to post fallback comment", "error", err)
		}
		return nil
	}

	var onDiff, offDiff []core.Suggestion
	headSHA, err := p.headSHA(ctx, client, req)
	if err != nil {
		log.WarnContext(ctx, "cannot anchor suggestions, posting them as a general comment", "error", err)
		offDiff = review.Suggestions
	} else {
		onDiff, offDiff = splitByAnchor(log, review.Suggestions, ParseValidLinesFromDiff(review.Diff, log))
	}

	posted := 0
	for _, sug := range onDiff {
		comment := LineComment{
			CommitID: headSHA,
			Path:     sug.FilePath,
			Line:     sug.LineNumber,
			Side:     SideRight,
			Body:     formatInlineComment(sug),
		}
		if err := p.call(ctx, func(ctx context.Context) error {
			return client.CreateLineComment(ctx, owner, repo, number, comment)
		}); err != nil {
			log.WarnContext(ctx, "failed to post inline suggestion", "file", sug.FilePath, "line", sug.LineNumber, "error", err)
			continue
		}
		posted++
	}

	if len(offDiff) > 0 {
		if err := p.call(ctx, func(ctx context.Context) error {
			return client.CreateComment(ctx, owner, repo, number, formatOffDiffComment(offDiff))
		}); err != nil {
			log.WarnContext(ctx, "failed to post off-diff suggestions", "count", len(offDiff), "error", err)
		}
	}

	log.InfoContext(ctx, "inline suggestions published", "posted", posted, "failed", len(onDiff)-posted, "off_diff", len(offDiff))
	return nil
}

// headSHA resolves the current head commit of the pull request. Line
// comments are anchored to it.
func (p *Publisher) headSHA(ctx context.Context, client Client, req *core.ReviewRequest) (string, error) {
	var sha string
	err := p.call(ctx, func(ctx context.Context) error {
		pr, err := client.GetPullRequest(ctx, req.RepoOwner, req.RepoName, req.PRNumber)
		if err != nil {
			return err
		}
		sha = pr.GetHead().GetSHA()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve head commit: %w", err)
	}
	if sha == "" {
		return "", fmt.Errorf("pull request %s#%d has no head commit", req.FullName(), req.PRNumber)
	}
	return sha, nil
}

// call runs fn with the per-call timeout. A deadline hit is reported as core.ErrTimeout.
func (p *Publisher) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: GitHub call exceeded %s: %w", core.ErrTimeout, p.timeout, err)
	}
	return err
}

// splitByAnchor separates suggestions GitHub can anchor from those pointing
// outside the diff. Without line information every suggestion is treated as anchorable.
func splitByAnchor(logger *slog.Logger, suggestions []core.Suggestion, validLines map[string]map[int]struct{}) (onDiff, offDiff []core.Suggestion) {
	if len(validLines) == 0 {
		logger.Warn("no line information for the diff, posting all suggestions inline")
		return suggestions, nil
	}

	for _, s := range suggestions {
		s.FilePath = strings.TrimPrefix(s.FilePath, "./")
		lines, exists := validLines[s.FilePath]
		if !exists {
			logger.Warn("moving suggestion to general comment (file not in diff)", "file", s.FilePath, "line", s.LineNumber)
			offDiff = append(offDiff, s)
			continue
		}
		if _, ok := lines[s.LineNumber]; !ok {
			logger.Warn("moving suggestion to general comment (off-diff line)", "file", s.FilePath, "line", s.LineNumber)
			offDiff = append(offDiff, s)
			continue
		}
		onDiff = append(onDiff, s)
	}
	return onDiff, offDiff
}
