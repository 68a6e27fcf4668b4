// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// SideRight anchors a review comment to the new version of the file.
const SideRight = "RIGHT"

// LineComment is a review comment anchored to a single line of a commit.
type LineComment struct {
	CommitID string
	Path     string
	Line     int
	Side     string
	Body     string
}

// Client defines the GitHub operations needed to publish a review.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	CreateLineComment(ctx context.Context, owner, repo string, number int, comment LineComment) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// This is what runs inside GitHub Actions, where GITHUB_TOKEN is provided.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubClient(github.NewClient(tc), logger)
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return pr, nil
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

// AddLabels applies labels to a pull request. Labels that do not exist yet are created by GitHub.
func (g *gitHubClient) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	_, _, err := g.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		g.logger.Error("failed to add labels", "owner", owner, "repo", repo, "pr", number, "labels", labels, "error", err)
	}
	return err
}

// CreateLineComment creates a review comment on one line of the pull request diff.
func (g *gitHubClient) CreateLineComment(ctx context.Context, owner, repo string, number int, c LineComment) error {
	side := c.Side
	if side == "" {
		side = SideRight
	}
	comment := &github.PullRequestComment{
		Body:     github.Ptr(c.Body),
		CommitID: github.Ptr(c.CommitID),
		Path:     github.Ptr(c.Path),
		Line:     github.Ptr(c.Line),
		Side:     github.Ptr(side),
	}
	_, _, err := g.client.PullRequests.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create line comment", "owner", owner, "repo", repo, "pr", number, "path", c.Path, "line", c.Line, "error", err)
	}
	return err
}
