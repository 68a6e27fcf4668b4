package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Diff modes reported in DiffResult.
const (
	ModeCommit      = "commit"
	ModeRange       = "range"
	ModeWorkingTree = "working-tree"
)

// DiffResult holds the collected diff and the strategy that produced it.
type DiffResult struct {
	Diff string
	Mode string
}

// CommandRunner runs git with args inside dir and returns its stdout.
type CommandRunner func(ctx context.Context, dir string, args ...string) (string, error)

// DiffProvider produces the diff under review from a local repository.
type DiffProvider struct {
	run    CommandRunner
	logger *slog.Logger
}

// NewDiffProvider returns a DiffProvider that shells out to the git CLI.
func NewDiffProvider(logger *slog.Logger) *DiffProvider {
	return NewDiffProviderWithRunner(runGit, logger)
}

// NewDiffProviderWithRunner is NewDiffProvider with a custom command runner.
func NewDiffProviderWithRunner(run CommandRunner, logger *slog.Logger) *DiffProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiffProvider{run: run, logger: logger}
}

// Diff returns the change under review in dir. Without a base it diffs HEAD
// against its first parent; with a base it diffs HEAD against the merge base
// of base and HEAD. If that fails (a repository without a parent commit, for
// example) it falls back to the working tree diff against the index.
func (p *DiffProvider) Diff(ctx context.Context, dir, base string) (*DiffResult, error) {
	args := []string{"diff", "HEAD^1", "HEAD"}
	mode := ModeCommit
	if base != "" {
		args = []string{"diff", base + "...HEAD"}
		mode = ModeRange
	}

	out, err := p.run(ctx, dir, args...)
	if err == nil {
		return &DiffResult{Diff: out, Mode: mode}, nil
	}

	p.logger.WarnContext(ctx, "commit diff failed, falling back to working tree diff",
		"args", strings.Join(args, " "),
		"error", err,
	)

	out, fallbackErr := p.run(ctx, dir, "diff")
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to get diff (commit: %v): %w", err, fallbackErr)
	}
	return &DiffResult{Diff: out, Mode: ModeWorkingTree}, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return string(out), nil
}
