package main

import (
	"testing"
)

// TestRootCmdSetup tests the initialization of the root command and its
// subcommands, which happens in init().
func TestRootCmdSetup(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil after init")
	}

	expectedUse := "xmfix [flags] FILE [FILE...]"
	if rootCmd.Use != expectedUse {
		t.Errorf("expected command Use %q, got %q", expectedUse, rootCmd.Use)
	}

	if !rootCmd.SilenceErrors {
		t.Error("expected SilenceErrors, Execute reports errors itself")
	}
	if rootCmd.SilenceUsage {
		t.Error("usage must still print on an argument error")
	}

	if rootCmd.Flags().Lookup("debug") == nil {
		t.Error("debug flag not registered")
	}
	if rootCmd.Flags().Lookup("config") == nil {
		t.Error("config flag not registered")
	}

	// Check if version subcommand is added
	foundVersionCmd := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "version" {
			foundVersionCmd = true
			break
		}
	}
	if !foundVersionCmd {
		t.Error("version subcommand not found")
	}
}

// A bare invocation must be rejected; per-file failures are reported via the
// log instead of the exit code, so argument errors are the only RunE errors.
func TestRootCmdRequiresFiles(t *testing.T) {
	if err := rootCmd.Args(rootCmd, []string{}); err == nil {
		t.Error("expected an error when no files are given")
	}
	if err := rootCmd.Args(rootCmd, []string{"a.xmind"}); err != nil {
		t.Errorf("unexpected error with one file: %v", err)
	}
}
