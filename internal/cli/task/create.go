package task

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/styles"
	"github.com/thenoetrevino/tareas/internal/models"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task. Without --due the task is due a week from today.

Examples:
  # Simple task (human-readable output)
  tareas task create --title="Buy milk"

  # JSON output for agents
  tareas task create --title="Buy milk" --json

  # Quiet mode for bash capture
  TASK_ID=$(tareas task create --title="Buy milk" --quiet)

  # Description from stdin and an explicit due date
  echo "2 liters" | tareas task create --title="Buy milk" --description=- --due=2024-01-08
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().String("description", "", "Task description (use - for stdin)")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	title, _ := cmd.Flags().GetString("title")

	description, err := readDescription(cmd)
	if err != nil {
		return formatter.Fail("STDIN_READ_ERROR", err)
	}

	dueDate, err := readDueDate(cmd)
	if err != nil {
		return formatter.FailWithSuggestion("INVALID_DUE_DATE", err, "Use the YYYY-MM-DD format, e.g. --due=2024-01-08")
	}

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.TaskService.CreateTask(ctx, taskservice.CreateTaskRequest{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	})
	if err != nil {
		return formatter.Fail("TASK_CREATE_ERROR", err)
	}

	return formatter.Success("task", toOutput(task), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Task '%s' created successfully (ID: %d)\n  %s\n",
			task.Title, task.ID, styles.RenderField("Due", models.FormatDate(task.DueDate)))
		return err
	})
}
