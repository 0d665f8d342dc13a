package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/styles"
)

// errNotConnected is returned by health when the database cannot be reached
var errNotConnected = errors.New("database not reachable")

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the configured database is reachable",
		RunE:  runHealth,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

type healthResult struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", err)
	}
	defer func() { _ = cliInstance.Close() }()

	ok, msg := cliInstance.App.TaskService.TestConnectivity(cmd.Context())
	if err := formatter.Success("health", healthResult{Connected: ok, Message: msg}, func(w io.Writer) error {
		status := styles.DoneStyle.Render("✓ connected")
		if !ok {
			status = styles.ErrorStyle.Render("✗ not connected")
		}
		_, err := fmt.Fprintf(w, "%s  %s\n", status, msg)
		return err
	}); err != nil {
		return err
	}

	if !ok {
		return errNotConnected
	}
	return nil
}
