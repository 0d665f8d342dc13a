package task

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/cli/styles"
	"github.com/thenoetrevino/tareas/internal/models"
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show task details",
		Long:  "Display all details of a task. The description is rendered as markdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	// Flags
	cmd.Flags().Int("id", 0, "Task ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id, err := taskID(cmd, args)
	if err != nil {
		return formatter.FailWithSuggestion("INVALID_TASK_ID", err,
			"Usage: tareas task show <id> or tareas task show --id=<id>")
	}

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.TaskService.GetTask(ctx, id)
	if err != nil {
		return formatter.FailWithSuggestion("TASK_NOT_FOUND", err, "Use 'tareas task list' to see existing tasks")
	}

	return formatter.Success("task", toOutput(task), func(w io.Writer) error {
		_, err := fmt.Fprintln(w, styles.RenderCard(renderTask(task)))
		return err
	})
}

func renderTask(task *models.Task) string {
	var content strings.Builder

	content.WriteString(styles.TitleStyle.Render(fmt.Sprintf("#%d: %s", task.ID, task.Title)))
	content.WriteString("\n\n")
	content.WriteString(styles.RenderStatus(task.Status))
	content.WriteString("\n\n")

	content.WriteString(styles.RenderField("Created", task.CreatedAt.Local().Format("2006-01-02 15:04")))
	content.WriteString("  ")
	content.WriteString(styles.RenderField("Due", models.FormatDate(task.DueDate)))
	content.WriteString("\n")

	content.WriteString(styles.SectionStyle.Render("Description"))
	content.WriteString("\n")
	content.WriteString(renderDescription(task.Description, styles.CardWidth-6))

	return content.String()
}

// renderDescription renders markdown with glamour, falling back to the raw text
func renderDescription(desc *string, width int) string {
	if desc == nil || strings.TrimSpace(*desc) == "" {
		return styles.SubtitleStyle.Italic(true).Render("No description")
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return *desc
	}
	rendered, err := renderer.Render(*desc)
	if err != nil {
		return *desc
	}
	return strings.TrimSpace(rendered)
}
