package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	gh "github.com/google/go-github/v73/github"
	"github.com/spf13/cobra"

	"github.com/sevigo/pr-warden/internal/app"
	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/gitutil"
	"github.com/sevigo/pr-warden/internal/wire"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
)

var reviewFlags struct {
	prURL  string
	repo   string
	pr     int
	dir    string
	dryRun bool
	plain  bool
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the pull request checked out in the current directory",
	Long: `Review the pull request checked out in the working directory and publish
the result to GitHub.

The pull request is identified by --pr-url, by --repo and --pr, or by the
GitHub Actions environment (GITHUB_REPOSITORY with PR_NUMBER, GITHUB_REF or
the GITHUB_EVENT_PATH payload).

Examples:
  pr-warden review --pr-url https://github.com/owner/repo/pull/123
  pr-warden review --repo owner/repo --pr 123 --dir ./checkout
  pr-warden review --dry-run`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	f := reviewCmd.Flags()
	f.StringVar(&reviewFlags.prURL, "pr-url", "", "pull request URL, e.g. https://github.com/owner/repo/pull/123")
	f.StringVar(&reviewFlags.repo, "repo", "", "repository as owner/name")
	f.IntVar(&reviewFlags.pr, "pr", 0, "pull request number")
	f.StringVar(&reviewFlags.dir, "dir", ".", "repository checkout to review")
	f.BoolVar(&reviewFlags.dryRun, "dry-run", false, "print the review instead of publishing it")
	f.BoolVar(&reviewFlags.plain, "plain", false, "print dry-run output without markdown styling")
	rootCmd.AddCommand(reviewCmd)
}

// identity holds every source a pull request can be identified from.
type identity struct {
	PRURL string
	Repo  string
	PR    int

	EnvRepository string
	EnvPRNumber   int
	Ref           string
	EventName     string
	EventPath     string
}

func identityFromConfig(cfg *config.Config) identity {
	return identity{
		PRURL:         reviewFlags.prURL,
		Repo:          reviewFlags.repo,
		PR:            reviewFlags.pr,
		EnvRepository: cfg.Repository,
		EnvPRNumber:   cfg.PRNumber,
		Ref:           cfg.Ref,
		EventName:     cfg.EventName,
		EventPath:     cfg.EventPath,
	}
}

// hasPullRequestEvent reports whether the event payload describes a pull request.
// An unknown event name is given the benefit of the doubt.
func (id identity) hasPullRequestEvent() bool {
	if id.EventPath == "" {
		return false
	}
	return id.EventName == "" || strings.HasPrefix(id.EventName, "pull_request")
}

// resolveRequest builds the review request from the first source that names
// a pull request: the URL, the flags, then the Actions environment.
func resolveRequest(id identity) (*core.ReviewRequest, error) {
	if id.PRURL != "" {
		owner, repo, number, err := gitutil.ParsePullRequestURL(id.PRURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrMissingIdentification, err)
		}
		return newRequest(owner, repo, number)
	}

	repository := id.Repo
	if repository == "" {
		repository = id.EnvRepository
	}
	number := id.PR
	if number == 0 {
		number = id.EnvPRNumber
	}
	if number == 0 && id.Ref != "" {
		if n, err := gitutil.PRNumberFromRef(id.Ref); err == nil {
			number = n
		}
	}

	if (repository == "" || number == 0) && id.hasPullRequestEvent() {
		req, err := requestFromEventFile(id.EventPath)
		if err != nil {
			return nil, err
		}
		if repository == "" || repository == req.FullName() {
			if number == 0 || number == req.PRNumber {
				return req, nil
			}
		}
	}

	if repository == "" {
		return nil, fmt.Errorf("%w: repository is not set, use --repo or GITHUB_REPOSITORY", core.ErrMissingIdentification)
	}
	owner, repo, err := gitutil.ParseRepository(repository)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMissingIdentification, err)
	}
	if number == 0 {
		return nil, fmt.Errorf("%w: pull request number is not set, use --pr or PR_NUMBER", core.ErrMissingIdentification)
	}
	return newRequest(owner, repo, number)
}

func newRequest(owner, repo string, number int) (*core.ReviewRequest, error) {
	req := &core.ReviewRequest{RepoOwner: owner, RepoName: repo, PRNumber: number}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// requestFromEventFile reads the pull_request payload GitHub Actions writes to GITHUB_EVENT_PATH.
func requestFromEventFile(path string) (*core.ReviewRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read event payload: %w", core.ErrMissingIdentification, err)
	}
	parsed, err := gh.ParseWebHook("pull_request", data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse event payload: %w", core.ErrMissingIdentification, err)
	}
	event, ok := parsed.(*gh.PullRequestEvent)
	if !ok || event.GetPullRequest() == nil {
		return nil, fmt.Errorf("%w: event payload is not a pull request event", core.ErrMissingIdentification)
	}

	pr := event.GetPullRequest()
	req := &core.ReviewRequest{
		RepoOwner:    event.GetRepo().GetOwner().GetLogin(),
		RepoName:     event.GetRepo().GetName(),
		RepoFullName: event.GetRepo().GetFullName(),
		PRNumber:     pr.GetNumber(),
		HeadSHA:      pr.GetHead().GetSHA(),
		BaseSHA:      pr.GetBase().GetSHA(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	titleColor.Println("PR Warden review")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	req, err := resolveRequest(identityFromConfig(cfg))
	switch {
	case err == nil:
		dimColor.Printf("   Target: %s#%d\n", req.FullName(), req.PRNumber)
	case reviewFlags.dryRun && errors.Is(err, core.ErrMissingIdentification):
		warnColor.Println("   No pull request identified, reviewing the local checkout only")
		req = &core.ReviewRequest{}
	default:
		return err
	}

	runner, err := wire.InitializeRunner(ctx, app.RunOptions{
		Dir:    reviewFlags.dir,
		DryRun: reviewFlags.dryRun,
		Out:    cmd.OutOrStdout(),
		Plain:  reviewFlags.plain,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize review: %w", err)
	}

	if err := runner.Run(ctx, req); err != nil {
		return err
	}

	successColor.Printf("Review finished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
