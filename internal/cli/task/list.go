package task

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/styles"
	"github.com/thenoetrevino/tareas/internal/models"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List tasks oldest first, optionally filtered by exact title and/or status.",
		RunE:  runList,
	}

	// Filters
	cmd.Flags().String("title", "", "Only tasks with exactly this title")
	cmd.Flags().String("status", "", "Only tasks with this status (true or false)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	var req taskservice.ListTasksRequest
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		req.Title = &title
	}
	if cmd.Flags().Changed("status") {
		raw, _ := cmd.Flags().GetString("status")
		status, err := strconv.ParseBool(raw)
		if err != nil {
			return formatter.FailWithSuggestion("INVALID_STATUS",
				fmt.Errorf("%w: invalid status %q", cli.ErrUsage, raw),
				"Use --status=true or --status=false")
		}
		req.Status = &status
	}

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	tasks, err := cliInstance.App.TaskService.ListTasks(ctx, req)
	if err != nil {
		return formatter.Fail("TASK_FETCH_ERROR", err)
	}

	// Quiet mode prints one ID per line
	if formatter.Quiet {
		for _, t := range tasks {
			if _, err := fmt.Fprintf(formatter.Out, "%d\n", t.ID); err != nil {
				return err
			}
		}
		return nil
	}

	out := make([]taskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toOutput(t))
	}

	return formatter.Success("tasks", out, func(w io.Writer) error {
		return printTaskList(w, tasks)
	})
}

func printTaskList(w io.Writer, tasks []*models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}

	if _, err := fmt.Fprintf(w, "Found %d tasks:\n\n", len(tasks)); err != nil {
		return err
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "  [%d] %s %s  %s\n",
			t.ID, styles.RenderStatus(t.Status), t.Title,
			styles.SubtitleStyle.Render("due "+models.FormatDate(t.DueDate))); err != nil {
			return err
		}
	}
	return nil
}
