package cli

import (
	"context"

	"github.com/thenoetrevino/tareas/internal/app"
)

type contextKey int

const (
	appKey contextKey = iota
	configPathKey
)

// WithApp stores an already-open App in ctx. Commands run against it
// instead of opening the configured database, and leave it open.
func WithApp(ctx context.Context, application *app.App) context.Context {
	return context.WithValue(ctx, appKey, application)
}

// WithConfigPath records the --config flag value for GetCLIFromContext
func WithConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, configPathKey, path)
}

func configPathFrom(ctx context.Context) string {
	p, _ := ctx.Value(configPathKey).(string)
	return p
}
