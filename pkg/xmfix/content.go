package xmfix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
)

// ErrContentUnrecoverable reports that content.xml is absent and no usable
// sheet could be salvaged from the editing history.
var ErrContentUnrecoverable = errors.New("content.xml is missing and could not be rebuilt from revisions")

const contentName = "content.xml"

var (
	revisionFilePattern    = regexp.MustCompile(`^rev-(\d+)-\d+\.xml$`)
	revisionContentPattern = regexp.MustCompile(`<xmap-revision-content[^>]+>(<sheet[^>]+>.*</sheet>)</xmap-revision-content>`)
)

const (
	contentOpen = xmlDeclaration +
		`<xmap-content xmlns="urn:xmind:xmap:xmlns:content:2.0" ` +
		`xmlns:fo="http://www.w3.org/1999/XSL/Format" ` +
		`xmlns:svg="http://www.w3.org/2000/svg" ` +
		`xmlns:xhtml="http://www.w3.org/1999/xhtml" ` +
		`xmlns:xlink="http://www.w3.org/1999/xlink" ` +
		`version="2.0">`
	contentClose = `</xmap-content>`
)

// RebuildContent restores a missing or empty content.xml in dir from the
// Revisions/ editing history, taking the newest parsable revision of each
// sheet. Returns ErrContentUnrecoverable when nothing can be salvaged.
func RebuildContent(dir string, logger zerolog.Logger) error {
	contentPath := filepath.Join(dir, contentName)
	if info, err := os.Stat(contentPath); err == nil && info.Size() > 0 {
		logger.Debug().Msg("content file already exists")
		return nil
	}

	sheetDirs, err := os.ReadDir(filepath.Join(dir, "Revisions"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContentUnrecoverable, err)
	}

	var sheets []string
	for _, sheetDir := range sheetDirs {
		if !sheetDir.IsDir() {
			continue
		}
		sheet, revisionFile := latestSheetRevision(filepath.Join(dir, "Revisions", sheetDir.Name()), logger)
		if sheet != "" {
			sheets = append(sheets, sheet)
			logger.Info().Str("revision", revisionFile).Msg("sheet recovered")
		}
	}
	if len(sheets) == 0 {
		return ErrContentUnrecoverable
	}

	content := contentOpen
	for _, sheet := range sheets {
		content += sheet
	}
	content += contentClose
	if err := os.WriteFile(contentPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write rebuilt content file: %w", err)
	}
	logger.Warn().Int("sheets", len(sheets)).Msg("content rebuilt from editing history")
	return nil
}

// latestSheetRevision returns the sheet XML from the highest-numbered
// revision file that parses, along with the file it came from.
func latestSheetRevision(revisionDir string, logger zerolog.Logger) (sheet, revisionFile string) {
	entries, err := os.ReadDir(revisionDir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", revisionDir).Msg("failed to list revisions")
		return "", ""
	}

	best := -1
	for _, entry := range entries {
		m := revisionFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		rev, err := strconv.Atoi(m[1])
		if err != nil || rev <= best {
			continue
		}
		path := filepath.Join(revisionDir, entry.Name())
		payload, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("revision", path).Msg("failed to load revision")
			continue
		}
		if cm := revisionContentPattern.FindSubmatch(payload); cm != nil {
			sheet = string(cm[1])
			revisionFile = path
			best = rev
		}
	}
	return sheet, revisionFile
}
