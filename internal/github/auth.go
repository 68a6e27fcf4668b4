package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
)

// ClientFactory returns a client authorized for the repository of a review
// request, together with the raw token so the repository can be cloned.
type ClientFactory interface {
	ForRequest(ctx context.Context, req *core.ReviewRequest) (Client, string, error)
}

// NewClientFactory picks GitHub App authentication when app credentials are
// configured and falls back to the static token otherwise.
func NewClientFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ClientFactory, error) {
	if cfg.UsesGitHubApp() {
		return NewAppClientFactory(cfg, logger)
	}
	if cfg.GitHubToken == "" {
		return nil, errors.New("GITHUB_TOKEN is not set and no GitHub App is configured")
	}
	return NewStaticClientFactory(NewPATClient(ctx, cfg.GitHubToken, logger), cfg.GitHubToken), nil
}

type staticClientFactory struct {
	client Client
	token  string
}

// NewStaticClientFactory always hands out the same client.
func NewStaticClientFactory(client Client, token string) ClientFactory {
	return &staticClientFactory{client: client, token: token}
}

func (f *staticClientFactory) ForRequest(context.Context, *core.ReviewRequest) (Client, string, error) {
	return f.client, f.token, nil
}

type appClientFactory struct {
	appClient      *github.Client
	installationID int64
	logger         *slog.Logger
}

// NewAppClientFactory creates installation clients for a GitHub App.
func NewAppClientFactory(cfg *config.Config, logger *slog.Logger) (ClientFactory, error) {
	privateKey, err := os.ReadFile(cfg.GitHubPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.GitHubPrivateKeyPath, err)
	}

	// The apps transport authenticates as the App itself (JWT), which is needed to mint installation tokens.
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, cfg.GitHubAppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}

	return &appClientFactory{
		appClient:      github.NewClient(&http.Client{Transport: appTransport}),
		installationID: cfg.GitHubInstallationID,
		logger:         logger,
	}, nil
}

// ForRequest creates a client authenticated as the App installation that
// covers req. The installation is taken from the request, then from
// configuration, and finally looked up from the repository.
func (f *appClientFactory) ForRequest(ctx context.Context, req *core.ReviewRequest) (Client, string, error) {
	installationID := req.InstallationID
	if installationID == 0 {
		installationID = f.installationID
	}
	if installationID == 0 {
		inst, _, err := f.appClient.Apps.FindRepositoryInstallation(ctx, req.RepoOwner, req.RepoName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find installation for %s: %w", req.FullName(), err)
		}
		installationID = inst.GetID()
	}

	f.logger.Info("creating GitHub installation client", "installation_id", installationID)
	token, _, err := f.appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return nil, "", errors.New("received an empty installation token")
	}
	f.logger.Info("successfully created installation token", "installation_id", installationID, "expires_at", token.GetExpiresAt())

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubClient(github.NewClient(tc), f.logger), token.GetToken(), nil
}
