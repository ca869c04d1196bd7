package xmfix_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frankshaka/xmfix/pkg/xmfix"
)

func TestRunnerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX tools")
	}
	r := xmfix.NewRunner(discardLogger())
	require.NoError(t, r.Run(context.Background(), "true"))
}

func TestRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX tools")
	}
	r := xmfix.NewRunner(discardLogger())
	err := r.Run(context.Background(), "false")
	require.Error(t, err)

	var toolErr *xmfix.ToolError
	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, "false", toolErr.Tool)
}

func TestRunnerCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX tools")
	}
	r := xmfix.NewRunner(discardLogger())
	err := r.Run(context.Background(), "sh", "-c", "echo central directory not found >&2; exit 3")
	require.Error(t, err)

	var toolErr *xmfix.ToolError
	require.ErrorAs(t, err, &toolErr)
	require.Contains(t, toolErr.Output, "central directory not found")
	require.Contains(t, toolErr.Error(), "central directory not found")
}

func TestRunnerMissingTool(t *testing.T) {
	r := xmfix.NewRunner(discardLogger())
	err := r.Run(context.Background(), "definitely-not-a-real-tool-xyz")
	require.Error(t, err)

	var toolErr *xmfix.ToolError
	require.ErrorAs(t, err, &toolErr)
}
