package xmfix

import (
	"fmt"
	"strings"
)

// ToolError reports a failed external tool invocation, carrying whatever
// the tool printed before exiting.
type ToolError struct {
	Tool   string   // Tool binary name (e.g. "zip", "unzip")
	Args   []string // Arguments the tool was invoked with
	Output string   // Combined stdout/stderr captured from the run
	Err    error    // Underlying error (usually *exec.ExitError)
}

// Error returns a formatted error message.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("external tool %s failed: %v (args: %s)",
		e.Tool, e.Err, strings.Join(e.Args, " "))
	if e.Output != "" {
		msg += fmt.Sprintf("\noutput: %s", strings.TrimSpace(e.Output))
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// FixError associates a failed fix attempt with the input file it was
// operating on.
type FixError struct {
	Path string // Input file the fix attempt was for
	Step string // Pipeline step that failed (e.g. "repair", "rebuild")
	Err  error  // Underlying error
}

// Error returns a formatted error message.
func (e *FixError) Error() string {
	return fmt.Sprintf("failed to fix %s during %s: %v", e.Path, e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *FixError) Unwrap() error {
	return e.Err
}
