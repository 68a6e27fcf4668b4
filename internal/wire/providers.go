package wire

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/pr-warden/internal/app"
	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/gitutil"
	"github.com/sevigo/pr-warden/internal/jobs"
	"github.com/sevigo/pr-warden/internal/llm"
	"github.com/sevigo/pr-warden/internal/logger"
	"github.com/sevigo/pr-warden/internal/render"
	"github.com/sevigo/pr-warden/internal/server"
)

// ReviewSet builds everything between a diff and a core.Review.
var ReviewSet = wire.NewSet(
	provideLogger,
	provideGenerator,
	llm.NewPromptManager,
	provideInlineExtractor,
	provideReviewService,
	gitutil.NewDiffProvider,
	wire.Bind(new(jobs.DiffSource), new(*gitutil.DiffProvider)),
	wire.Bind(new(jobs.Reviewer), new(*llm.ReviewService)),
)

// RunnerSet builds the one-shot runner.
var RunnerSet = wire.NewSet(
	ReviewSet,
	provideRunConfig,
	providePublisher,
	provideLocalWorkspace,
	provideRunnerJob,
	app.NewRunner,
)

// ServerSet builds the webhook server.
var ServerSet = wire.NewSet(
	ReviewSet,
	provideServerConfig,
	github.NewClientFactory,
	provideGitHubPublisher,
	gitutil.NewClient,
	jobs.NewCloneWorkspace,
	wire.Bind(new(jobs.Workspace), new(*jobs.CloneWorkspace)),
	wire.Bind(new(jobs.Publisher), new(*github.Publisher)),
	jobs.NewReviewJobFromConfig,
	wire.Bind(new(core.Job), new(*jobs.ReviewJob)),
	provideDispatcher,
	server.NewServer,
	app.NewApp,
)

func provideRunConfig(opts app.RunOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.DryRun {
		err = cfg.ValidateForDryRun()
	} else {
		err = cfg.ValidateForReview()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func provideServerConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateForServer(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg *config.Config) *slog.Logger {
	l := logger.NewLogger(cfg.LoggerConfig, nil)
	slog.SetDefault(l)
	return l
}

// provideGenerator creates the configured AI client, bounded by AI_TIMEOUT.
func provideGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Generator, error) {
	var (
		gen llm.Generator
		err error
	)
	switch cfg.LLMProvider {
	case "gemini":
		logger.Info("using Gemini LLM provider", "model", cfg.GeneratorModelName)
		gen, err = llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeneratorModelName, logger)
	case "ollama":
		logger.Info("using Ollama LLM provider", "model", cfg.GeneratorModelName, "host", cfg.OllamaHost)
		gen, err = llm.NewOllamaGenerator(cfg.OllamaHost, cfg.GeneratorModelName, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return llm.WithTimeout(gen, cfg.AITimeout), nil
}

func provideInlineExtractor(gen llm.Generator, prompts *llm.PromptManager, cfg *config.Config, logger *slog.Logger) *llm.InlineSuggestionExtractor {
	return llm.NewInlineSuggestionExtractor(gen, prompts, cfg.MaxSuggestions, logger)
}

func provideReviewService(gen llm.Generator, prompts *llm.PromptManager, extractor *llm.InlineSuggestionExtractor, cfg *config.Config, logger *slog.Logger) *llm.ReviewService {
	return llm.NewReviewService(gen, prompts, extractor, cfg.AIParallelCalls, logger)
}

func provideLocalWorkspace(opts app.RunOptions) jobs.Workspace {
	return jobs.NewLocalWorkspace(opts.Dir)
}

// providePublisher renders to the terminal in dry runs and posts to GitHub otherwise.
func providePublisher(ctx context.Context, cfg *config.Config, opts app.RunOptions, logger *slog.Logger) (jobs.Publisher, error) {
	if opts.DryRun {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return render.NewTerminalPublisher(out, opts.Plain), nil
	}
	clients, err := github.NewClientFactory(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return provideGitHubPublisher(clients, cfg, logger), nil
}

func provideGitHubPublisher(clients github.ClientFactory, cfg *config.Config, logger *slog.Logger) *github.Publisher {
	return github.NewPublisher(clients, cfg.GitHubTimeout, logger)
}

func provideRunnerJob(cfg *config.Config, opts app.RunOptions, workspace jobs.Workspace, diffs jobs.DiffSource, reviewer jobs.Reviewer, publisher jobs.Publisher, logger *slog.Logger) core.Job {
	return jobs.NewReviewJob(workspace, diffs, reviewer, publisher, jobs.ReviewOptions{
		MaxDiffBytes:   cfg.MaxDiffBytes,
		RedactSecrets:  cfg.RedactSecrets,
		AllowAnonymous: opts.DryRun,
	}, logger)
}

func provideDispatcher(job core.Job, cfg *config.Config, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, logger)
}
