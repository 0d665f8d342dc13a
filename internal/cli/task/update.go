package task

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/styles"
	"github.com/thenoetrevino/tareas/internal/models"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a task",
		Long: `Update a task's title, description, or due date.
Flags that are not given keep their current value; --description="" clears it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().Int("id", 0, "Task ID (can also be provided as positional argument)")

	// Optional update flags
	cmd.Flags().String("title", "", "New task title")
	cmd.Flags().String("description", "", "New task description (use - for stdin)")
	cmd.Flags().String("due", "", "New due date as YYYY-MM-DD")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id, err := taskID(cmd, args)
	if err != nil {
		return formatter.Fail("INVALID_TASK_ID", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("due") {
		return formatter.Fail("NO_UPDATES",
			fmt.Errorf("%w: at least one of --title, --description, or --due must be specified", cli.ErrUsage))
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

	// Updates replace title and description, so start from the stored values
	current, err := cliInstance.App.TaskService.GetTask(ctx, id)
	if err != nil {
		return formatter.Fail("TASK_NOT_FOUND", err)
	}

	req := taskservice.UpdateTaskRequest{
		TaskID:      id,
		Title:       current.Title,
		Description: current.Description,
		DueDate:     dueDate,
	}
	if flags.Changed("title") {
		req.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		if req.Description, err = readDescription(cmd); err != nil {
			return formatter.Fail("STDIN_READ_ERROR", err)
		}
	}

	task, err := cliInstance.App.TaskService.UpdateTask(ctx, req)
	if err != nil {
		code := "TASK_UPDATE_ERROR"
		if errors.Is(err, taskservice.ErrConflict) {
			code = "DUPLICATE_TITLE"
		}
		return formatter.Fail(code, err)
	}

	return formatter.Success("task", toOutput(task), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Task %d updated successfully\n  %s\n  %s\n",
			task.ID,
			styles.RenderField("Title", task.Title),
			styles.RenderField("Due", models.FormatDate(task.DueDate)))
		return err
	})
}
