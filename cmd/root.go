package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/task"
	"github.com/thenoetrevino/tareas/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tareas",
	Short: "Tareas - a small task tracker with a REST API",
	Long: `Tareas keeps a list of tasks with a title, optional description,
completion status and due date, and serves them over a JSON REST API.

Run 'tareas serve' to start the API, or use 'tareas task' to work with
the same database from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(cli.WithConfigPath(cmd.Context(), configPath))

		// Commands other than serve only surface warnings on stderr
		slog.SetDefault(slog.New(logging.NewHandler(cmd.ErrOrStderr(), slog.LevelWarn, "text")))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tareas/config.yaml)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	})

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(task.TaskCmd())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
