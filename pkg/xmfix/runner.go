package xmfix

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Runner executes external tools as synchronous child processes. Output is
// captured and logged rather than inherited, so tool chatter stays in the
// log stream. No timeout is applied; a hung tool blocks the run.
type Runner struct {
	logger zerolog.Logger
}

// NewRunner creates a Runner that logs invocations to logger.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run invokes name with args and waits for it to exit. A non-zero exit (or
// a failure to start) is returned as a *ToolError.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Debug().
		Str("tool", name).
		Str("args", strings.Join(args, " ")).
		Msg("invoking external tool")

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if output.Len() > 0 {
		r.logger.Debug().
			Str("tool", name).
			Msg(strings.TrimSpace(output.String()))
	}
	if err != nil {
		return &ToolError{Tool: name, Args: args, Output: output.String(), Err: err}
	}
	return nil
}
