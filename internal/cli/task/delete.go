package task

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long:  "Delete a task by ID (requires confirmation unless --force or --quiet).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Task ID (can also be provided as positional argument)")

	cmd.Flags().Bool("force", false, "Skip confirmation")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	force, _ := cmd.Flags().GetBool("force")

	id, err := taskID(cmd, args)
	if err != nil {
		return formatter.Fail("INVALID_TASK_ID", err)
	}

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	// Ask for confirmation unless force, quiet or JSON mode
	if !force && !formatter.Quiet && !formatter.JSON {
		task, err := cliInstance.App.TaskService.GetTask(ctx, id)
		if err != nil {
			return formatter.Fail("TASK_NOT_FOUND", err)
		}

		_, _ = fmt.Fprintf(formatter.Out, "Delete task #%d: '%s'? (y/N): ", id, task.Title)
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			_, err := fmt.Fprintln(formatter.Out, "Cancelled")
			return err
		}
	}

	deleted, err := cliInstance.App.TaskService.DeleteTask(ctx, id)
	if err != nil {
		return formatter.Fail("DELETE_ERROR", err)
	}
	if !deleted {
		return formatter.Fail("TASK_NOT_FOUND", taskservice.ErrTaskNotFound)
	}

	// Output success
	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(formatter.Out).Encode(map[string]any{
			"success": true,
			"task_id": id,
			"deleted": true,
		})
	}

	_, err = fmt.Fprintf(formatter.Out, "✓ Task %d deleted successfully\n", id)
	return err
}
