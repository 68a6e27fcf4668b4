// Package gitutil provides helpers for working with Git repositories:
// producing the diff under review, trimming it to a budget and preparing
// temporary clones for webhook-triggered reviews.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Client handles interacting with Git repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Clone clones a repository to a specific path. It does not checkout a specific SHA.
func (c *Client) Clone(ctx context.Context, repoURL, path, token string) (*git.Repository, error) {
	authURL, err := c.getAuthenticatedURL(repoURL, token)
	if err != nil {
		return nil, err
	}

	c.Logger.InfoContext(ctx, "cloning repository", "url", repoURL, "path", path)
	cmd := exec.CommandContext(ctx, "git", "-c", "core.longpaths=true", "clone", "--quiet", authURL, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git clone failed: %s: %w", redactToken(string(out), token), err)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cloned repo: %w", err)
	}
	return repo, nil
}

// Checkout switches the repository's worktree to a specific commit using git CLI.
func (c *Client) Checkout(ctx context.Context, path string, sha string) error {
	c.Logger.InfoContext(ctx, "checking out commit", "sha", sha)

	cmd := exec.CommandContext(ctx, "git", "-c", "core.longpaths=true", "checkout", "--quiet", "--force", sha)
	cmd.Dir = path

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git checkout failed: %s: %w", string(out), err)
	}
	return nil
}

// Fetch fetches a single ref or commit from origin. token is the credential
// embedded in origin's URL and is masked in error output.
func (c *Client) Fetch(ctx context.Context, path, ref, token string) error {
	cmd := exec.CommandContext(ctx, "git", "fetch", "--quiet", "origin", ref)
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git fetch %s failed: %s: %w", ref, redactToken(string(out), token), err)
	}
	return nil
}

// HeadSHA returns the commit HEAD points to in an opened repository.
func (c *Client) HeadSHA(repo *git.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// CloneAndCheckoutTemp clones a repo into a temporary directory, checks out a commit,
// and returns the path with a cleanup function.
func (c *Client) CloneAndCheckoutTemp(ctx context.Context, repoURL, sha, token string) (string, func(), error) {
	repoPath, err := os.MkdirTemp("", "pr-warden-repo-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() {
		c.Logger.Info("cleaning up temporary repository", "path", repoPath)
		if removeErr := os.RemoveAll(repoPath); removeErr != nil {
			c.Logger.Error("failed to remove temp repo", "path", repoPath, "error", removeErr)
		}
	}

	repo, err := c.Clone(ctx, repoURL, repoPath, token)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	if err := c.Checkout(ctx, repoPath, sha); err != nil {
		// Commits from forks are not on any branch of the base repository.
		c.Logger.WarnContext(ctx, "commit not in clone, fetching it", "sha", sha, "error", err)
		if fetchErr := c.Fetch(ctx, repoPath, sha, token); fetchErr != nil {
			cleanup()
			return "", nil, errors.Join(err, fetchErr)
		}
		if err := c.Checkout(ctx, repoPath, sha); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	head, err := c.HeadSHA(repo)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if !strings.HasPrefix(head, sha) {
		cleanup()
		return "", nil, fmt.Errorf("checked out %s but HEAD is %s", sha, head)
	}

	c.Logger.InfoContext(ctx, "repository cloned and checked out successfully", "sha", head)
	return repoPath, cleanup, nil
}

func (c *Client) getAuthenticatedURL(repoURL, token string) (string, error) {
	// Local paths are used as-is. file:// is intentionally unsupported.
	if !strings.Contains(repoURL, "://") {
		return repoURL, nil
	}

	if !strings.HasPrefix(repoURL, "https://") && !strings.HasPrefix(repoURL, "http://") {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}

	parsedURL, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse repository URL '%s': %w", repoURL, err)
	}
	if token != "" {
		parsedURL.User = url.UserPassword("x-access-token", token)
	}
	return parsedURL.String(), nil
}

func redactToken(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}
