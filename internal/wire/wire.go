//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/pr-warden/internal/app"
)

func InitializeRunner(ctx context.Context, opts app.RunOptions) (*app.Runner, error) {
	wire.Build(RunnerSet)
	return &app.Runner{}, nil
}

func InitializeServer(ctx context.Context) (*app.App, error) {
	wire.Build(ServerSet)
	return &app.App{}, nil
}
