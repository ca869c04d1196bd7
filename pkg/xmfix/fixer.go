// Package xmfix repairs corrupted XMind files. XMind documents are ZIP
// archives; an interrupted save typically truncates the archive and loses
// the central directory. The fix pipeline delegates structural ZIP repair to
// external tools, re-extracts whatever entries survive, rebuilds content.xml
// from the editing history when needed, and packs the survivors into a new
// archive with a regenerated manifest.
package xmfix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frankshaka/xmfix/pkg/xmfix/archive"
)

// Fixer repairs XMind files one at a time.
type Fixer struct {
	cfg       *Config
	recoverer *Recoverer
	logger    zerolog.Logger
}

// New creates a Fixer with the given configuration.
func New(cfg *Config, logger zerolog.Logger) *Fixer {
	runner := NewRunner(logger)
	return &Fixer{
		cfg:       cfg,
		recoverer: NewRecoverer(cfg.Tools, runner, logger),
		logger:    logger,
	}
}

// Fix repairs the XMind file (or already-extracted directory) at path and
// returns the path of the rebuilt archive. All intermediate files and
// directories are removed before returning, on success and failure alike; a
// directory given as input is left untouched.
func (f *Fixer) Fix(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &FixError{Path: path, Step: "stat", Err: err}
	}

	dir := filepath.Dir(path)
	prefix := stem(path)

	workDir := path
	if info.IsDir() {
		f.logger.Info().Str("dir", path).Msg("fixing XMind file from directory")
	} else {
		workDir = filepath.Join(dir, "xmfix_"+prefix)
		if err := os.RemoveAll(workDir); err != nil {
			return "", &FixError{Path: path, Step: "prepare", Err: err}
		}
		defer removeAllQuiet(workDir, f.logger)
		if err := f.recoverer.RecoverToDir(ctx, path, workDir); err != nil {
			return "", &FixError{Path: path, Step: "repair", Err: err}
		}
	}

	if err := RebuildContent(workDir, f.logger); err != nil {
		if !errors.Is(err, ErrContentUnrecoverable) {
			return "", &FixError{Path: path, Step: "rebuild-content", Err: err}
		}
		f.logger.Warn().Err(err).Msg("continuing without content.xml")
	}

	rebuiltZip := filepath.Join(dir, "xmfix_"+prefix+".zip")
	f.logger.Info().Str("dir", workDir).Str("file", rebuiltZip).Msg("rebuilding ZIP archive")
	src := archive.NewDirSource(workDir)
	if err := RebuildArchive(src, rebuiltZip, f.cfg.Output.Compressed, f.logger); err != nil {
		return "", &FixError{Path: path, Step: "rebuild-manifest", Err: err}
	}

	targetPath := uniqueTargetPath(dir, prefix)
	if err := os.Rename(rebuiltZip, targetPath); err != nil {
		removeAllQuiet(rebuiltZip, f.logger)
		return "", &FixError{Path: path, Step: "rename", Err: err}
	}
	f.logger.Info().Str("target", targetPath).Msg("target built")
	return targetPath, nil
}

// FixAll repairs each input file in order. A failure on one file never
// aborts the batch; outcomes are collected into the returned Report.
func (f *Fixer) FixAll(ctx context.Context, paths []string) *Report {
	report := &Report{}
	for _, path := range paths {
		target, err := f.Fix(ctx, path)
		if err != nil {
			f.logger.Error().Err(err).Str("file", path).Msg("failed to fix XMind file")
		}
		report.add(Result{Source: path, Target: target, Err: err})
	}
	return report
}

// uniqueTargetPath picks <prefix>_fixed.xmind in dir, falling back to
// "<prefix>_fixed (2).xmind", "(3)", ... when taken.
func uniqueTargetPath(dir, prefix string) string {
	target := filepath.Join(dir, prefix+"_fixed.xmind")
	for index := 2; pathExists(target); index++ {
		target = filepath.Join(dir, fmt.Sprintf("%s_fixed (%d).xmind", prefix, index))
	}
	return target
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func removeAllQuiet(path string, logger zerolog.Logger) {
	if !pathExists(path) {
		return
	}
	logger.Debug().Str("path", path).Msg("deleting")
	if err := os.RemoveAll(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to delete")
	}
}
