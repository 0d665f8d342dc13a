package task

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/models"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// taskOutput is the JSON shape of a task in CLI output
type taskOutput struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     *string   `json:"due_date"`
}

func (t taskOutput) GetID() int { return t.ID }

func toOutput(task *models.Task) taskOutput {
	out := taskOutput{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UTC(),
	}
	if task.DueDate != nil {
		d := models.FormatDate(task.DueDate)
		out.DueDate = &d
	}
	return out
}

// openCLI resolves the application for a command, reporting failures through formatter
func openCLI(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, error) {
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, formatter.Fail("INITIALIZATION_ERROR", err)
	}
	return cliInstance, nil
}

func closeCLI(c *cli.CLI) {
	if err := c.Close(); err != nil {
		slog.Error("Error closing CLI", "error", err)
	}
}

// readDescription returns the --description value, reading stdin when it is "-"
func readDescription(cmd *cobra.Command) (*string, error) {
	desc, _ := cmd.Flags().GetString("description")
	if desc == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		desc = strings.TrimRight(string(data), "\n")
	}
	if desc == "" {
		return nil, nil
	}
	return &desc, nil
}

// readDueDate parses --due, returning nil when the flag is unset
func readDueDate(cmd *cobra.Command) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString("due")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cli.ErrData, err)
	}
	return &d, nil
}

// taskID reads the task ID from the first positional argument or --id
func taskID(cmd *cobra.Command, args []string) (int, error) {
	var id int
	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return 0, fmt.Errorf("%w: task ID must be a positive integer, got %q", cli.ErrUsage, args[0])
		}
		id = n
	} else {
		id, _ = cmd.Flags().GetInt("id")
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: task ID must be a positive integer", cli.ErrUsage)
	}
	return id, nil
}
