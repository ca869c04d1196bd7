package xmfix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Recoverer drives the external ZIP recovery tools. The repair step rebuilds
// a damaged archive's central directory; the extraction step materializes
// whatever entries the repaired archive yields. Repair failures are fatal,
// extraction failures are best-effort.
type Recoverer struct {
	tools  ToolsConfig
	runner *Runner
	logger zerolog.Logger
}

// NewRecoverer creates a Recoverer using the configured external tools.
func NewRecoverer(tools ToolsConfig, runner *Runner, logger zerolog.Logger) *Recoverer {
	return &Recoverer{tools: tools, runner: runner, logger: logger}
}

// RecoverToDir repairs the damaged ZIP at srcPath and extracts the result
// into destDir. If the first extraction yields nothing, a second repair pass
// is run over the already-recovered archive before retrying. Intermediate
// recovered archives are removed before returning. Partial extraction is
// accepted; only a failed repair aborts.
func (r *Recoverer) RecoverToDir(ctx context.Context, srcPath, destDir string) error {
	dir := filepath.Dir(srcPath)
	prefix := stem(srcPath)

	recovered := filepath.Join(dir, "xmfix_"+prefix+"_recovered.zip")
	defer removeAllQuiet(recovered, r.logger)

	r.logger.Info().Str("file", srcPath).Msg("recovering ZIP structure")
	if err := r.repair(ctx, srcPath, recovered); err != nil {
		return fmt.Errorf("repair step failed: %w", err)
	}
	r.logger.Info().Str("file", recovered).Msg("ZIP structure recovered")

	if err := r.extract(ctx, recovered, destDir); err == nil {
		return nil
	} else if hasEntries(destDir) {
		r.logger.Warn().Err(err).Msg("extraction incomplete, using partially extracted entries")
		return nil
	}

	// Nothing came out. Some truncations need the recovered archive run
	// through the repair tool a second time before it extracts at all.
	forced := filepath.Join(dir, "xmfix_"+prefix+"_force_recovered.zip")
	defer removeAllQuiet(forced, r.logger)

	r.logger.Info().Str("file", srcPath).Msg("force recovering ZIP structure")
	if err := r.repair(ctx, recovered, forced); err != nil {
		return fmt.Errorf("force recovery failed: %w", err)
	}
	if err := r.extract(ctx, forced, destDir); err != nil {
		r.logger.Warn().Err(err).Msg("extraction incomplete, using partially extracted entries")
	}
	return nil
}

func (r *Recoverer) repair(ctx context.Context, srcPath, outPath string) error {
	return r.runner.Run(ctx, r.tools.Zip, "-FF", srcPath, "--out", outPath)
}

func (r *Recoverer) extract(ctx context.Context, zipPath, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory %s: %w", destDir, err)
	}
	r.logger.Info().Str("file", zipPath).Str("dir", destDir).Msg("extracting archive")
	return r.runner.Run(ctx, r.tools.Unzip, zipPath, "-d", destDir)
}

func hasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
