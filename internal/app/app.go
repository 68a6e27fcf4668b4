// Package app assembles the runnable forms of pr-warden: a one-shot Runner
// for CI and the long-running webhook App.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/server"
)

// RunOptions are the one-shot settings taken from the command line.
type RunOptions struct {
	// Dir is the repository checkout to review.
	Dir string
	// DryRun renders the review to Out instead of publishing it.
	DryRun bool
	Out    io.Writer
	// Plain disables markdown styling in dry runs.
	Plain bool
}

// Runner reviews a single pull request and exits.
type Runner struct {
	job    core.Job
	logger *slog.Logger
}

func NewRunner(job core.Job, logger *slog.Logger) *Runner {
	return &Runner{job: job, logger: logger}
}

// Run reviews req. The returned error is fatal for the process.
func (r *Runner) Run(ctx context.Context, req *core.ReviewRequest) error {
	r.logger.InfoContext(ctx, "running review", "repo", req.FullName(), "pr", req.PRNumber)
	return r.job.Run(ctx, req)
}

// App holds the webhook server and its worker pool.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{cfg: cfg, server: srv, dispatcher: dispatcher, logger: logger}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting pr-warden server",
		"server_port", a.cfg.ServerPort,
		"max_workers", a.cfg.MaxWorkers,
		"llm_provider", a.cfg.LLMProvider,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the server first so no new jobs arrive, then drains the queue.
func (a *App) Stop() error {
	a.logger.Info("shutting down pr-warden services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("pr-warden stopped successfully")
	return nil
}
