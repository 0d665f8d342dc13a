package cli

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/tareas/internal/app"
	"github.com/thenoetrevino/tareas/internal/config"
)

// CLI represents the CLI application context
type CLI struct {
	App   *app.App // Application container with services
	owned bool
}

// NewCLI loads configuration and opens the application
func NewCLI(ctx context.Context, configPath string) (*CLI, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	application, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &CLI{App: application, owned: true}, nil
}

// GetCLIFromContext returns a CLI for the command context: the injected App
// when one is present, otherwise a freshly opened one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if application, ok := ctx.Value(appKey).(*app.App); ok && application != nil {
		return &CLI{App: application}, nil
	}
	return NewCLI(ctx, configPathFrom(ctx))
}

// LoadConfig reads the config at path, or the default location when path is empty
func LoadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Close cleans up CLI resources. An injected App is left open for its owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}
