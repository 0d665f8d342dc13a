package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// NewFormatter reads the --json and --quiet flags and writes to the command's streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// AddOutputFlags registers --json and --quiet on a command
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs successful operation result under key.
// human is called for the human-readable mode.
func (f *OutputFormatter) Success(key string, data any, human func(w io.Writer) error) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			_, err := fmt.Fprintf(f.out(), "%d\n", idGetter.GetID())
			return err
		}
		return nil
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			key:       data,
		})
	}

	if human == nil {
		_, err := fmt.Fprintf(f.out(), "%+v\n", data)
		return err
	}
	return human(f.out())
}

// Fail reports err in the active mode and returns it marked as reported,
// so the entrypoint only has to pick an exit code.
func (f *OutputFormatter) Fail(code string, err error) error {
	return f.FailWithSuggestion(code, err, "")
}

// FailWithSuggestion is Fail with a hint for the human-readable mode
func (f *OutputFormatter) FailWithSuggestion(code string, err error, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": err.Error(),
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		if encErr := json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		}); encErr != nil {
			return encErr
		}
		return &reportedError{err: err}
	}

	// Human-readable error
	_, _ = fmt.Fprintf(f.errOut(), "❌ Error: %s\n", err.Error())
	if suggestion != "" {
		_, _ = fmt.Fprintf(f.errOut(), "💡 Suggestion: %s\n", suggestion)
	}
	return &reportedError{err: err}
}

// reportedError wraps an error that has already been shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed by an OutputFormatter
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
