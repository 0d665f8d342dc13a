package task

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tareas/internal/app"
	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/config"
	"github.com/thenoetrevino/tareas/internal/models"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// setupCLITest opens a temp-dir database and returns the App commands will run against
func setupCLITest(t *testing.T) *app.App {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "cli-test.db")

	testApp, err := app.Open(context.Background(), cfg,
		app.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = testApp.Close() })
	return testApp
}

type result struct {
	stdout string
	stderr string
	err    error
}

// executeCLICommand runs cmd with the test App injected through the context
func executeCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(cli.WithApp(context.Background(), testApp))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func createTestTask(t *testing.T, testApp *app.App, title string) *models.Task {
	t.Helper()
	task, err := testApp.TaskService.CreateTask(context.Background(), taskservice.CreateTaskRequest{Title: title})
	require.NoError(t, err)
	return task
}
