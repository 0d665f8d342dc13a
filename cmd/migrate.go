package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and print the schema version",
		RunE:  runMigrate,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

type migrateResult struct {
	Driver  string `json:"driver"`
	Version int64  `json:"version"`
}

func runMigrate(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	// Opening the database applies pending migrations
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail("MIGRATION_ERROR", err)
	}
	defer func() { _ = cliInstance.Close() }()

	repo := cliInstance.App.Repo()
	version, err := database.SchemaVersion(cmd.Context(), repo.DB(), repo.Dialect())
	if err != nil {
		return formatter.Fail("SCHEMA_VERSION_ERROR", err)
	}

	res := migrateResult{Driver: string(repo.Dialect()), Version: version}
	return formatter.Success("migration", res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ %s schema is at version %d\n", res.Driver, res.Version)
		return err
	})
}
