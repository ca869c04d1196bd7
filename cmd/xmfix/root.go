package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/frankshaka/xmfix/pkg/xmfix"
)

var (
	debug      bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xmfix [flags] FILE [FILE...]",
	Short: "Repair corrupted XMind files",
	Long: `xmfix repairs XMind files whose ZIP structure was truncated or damaged,
typically by an interrupted save. It recovers as many internal entries as
possible via external ZIP repair tools and rebuilds a valid archive with a
regenerated manifest.

Each FILE may be an XMind (ZIP) file or a directory already containing its
extracted contents. The fixed copy is written next to the original as
<name>_fixed.xmind.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
	// Execute prints the error itself; without this cobra prints it too.
	SilenceErrors: true,
}

func runFix(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := xmfix.NewLogger(os.Stderr, level)

	cfg, err := xmfix.LoadConfig(configPath)
	if err != nil {
		return err
	}

	fixer := xmfix.New(cfg, logger)
	report := fixer.FixAll(cmd.Context(), args)
	report.Log(logger)

	// Per-file failures are reported through the log, not the exit code.
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Help (like a bare invocation) exits non-zero so scripts cannot
	// mistake it for a completed fix.
	if f := rootCmd.Flags().Lookup("help"); f != nil && f.Changed {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to an INI config file")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of xmfix`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xmfix version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
