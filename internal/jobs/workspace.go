package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/gitutil"
)

const cloneTimeout = 2 * time.Minute

// Checkout is a prepared working copy of the repository under review.
type Checkout struct {
	Dir string
	// Base is the commit to diff against; empty means the parent of HEAD.
	Base    string
	Cleanup func()
}

// Workspace provides a working copy for a review request.
type Workspace interface {
	Prepare(ctx context.Context, req *core.ReviewRequest) (*Checkout, error)
}

// LocalWorkspace uses an existing checkout, such as the one actions/checkout leaves behind.
type LocalWorkspace struct {
	Dir string
}

func NewLocalWorkspace(dir string) *LocalWorkspace {
	if dir == "" {
		dir = "."
	}
	return &LocalWorkspace{Dir: dir}
}

func (w *LocalWorkspace) Prepare(context.Context, *core.ReviewRequest) (*Checkout, error) {
	return &Checkout{Dir: w.Dir, Cleanup: func() {}}, nil
}

// CloneWorkspace clones the pull request head into a temporary directory.
type CloneWorkspace struct {
	clients github.ClientFactory
	git     *gitutil.Client
	logger  *slog.Logger
}

func NewCloneWorkspace(clients github.ClientFactory, git *gitutil.Client, logger *slog.Logger) *CloneWorkspace {
	return &CloneWorkspace{clients: clients, git: git, logger: logger}
}

// Prepare clones req's repository and checks out its head. When the request
// does not carry the head or base commit (comment-triggered reviews), both
// are read from the pull request.
func (w *CloneWorkspace) Prepare(ctx context.Context, req *core.ReviewRequest) (*Checkout, error) {
	client, token, err := w.clients.ForRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	if req.HeadSHA == "" || req.BaseSHA == "" || req.CloneURL == "" {
		pr, err := client.GetPullRequest(ctx, req.RepoOwner, req.RepoName, req.PRNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to get PR details: %w", err)
		}
		if pr.GetHead().GetSHA() == "" {
			return nil, fmt.Errorf("PR %d has no valid head SHA", req.PRNumber)
		}
		req.HeadSHA = pr.GetHead().GetSHA()
		if req.BaseSHA == "" {
			req.BaseSHA = pr.GetBase().GetSHA()
		}
		if req.CloneURL == "" {
			req.CloneURL = pr.GetBase().GetRepo().GetCloneURL()
		}
	}
	if req.CloneURL == "" {
		return nil, fmt.Errorf("no clone URL for %s", req.FullName())
	}

	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	dir, cleanup, err := w.git.CloneAndCheckoutTemp(cloneCtx, req.CloneURL, req.HeadSHA, token)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}
	w.logger.InfoContext(ctx, "repository ready", "path", dir, "head", req.HeadSHA, "base", req.BaseSHA)
	return &Checkout{Dir: dir, Base: req.BaseSHA, Cleanup: cleanup}, nil
}
