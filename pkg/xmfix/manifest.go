package xmfix

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frankshaka/xmfix/pkg/xmfix/archive"
)

const (
	// MetaInfDir is the directory entry holding archive metadata.
	MetaInfDir = "META-INF/"
	// ManifestName is the entry name of the manifest document.
	ManifestName = "META-INF/manifest.xml"

	manifestNamespace = "urn:xmind:xmap:xmlns:manifest:1.0"
	xmlDeclaration    = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`
)

type fileEntry struct {
	XMLName   xml.Name `xml:"file-entry"`
	FullPath  string   `xml:"full-path,attr"`
	MediaType string   `xml:"media-type,attr"`
}

type manifestDoc struct {
	XMLName xml.Name    `xml:"manifest"`
	XMLNS   string      `xml:"xmlns,attr"`
	Entries []fileEntry `xml:"file-entry"`
}

// RebuildArchive copies every surviving entry from src into a new ZIP
// archive at targetPath and appends a freshly generated manifest. Empty XML
// entries are dropped since the downstream parser chokes on them. META-INF/
// and the manifest itself are regenerated, never copied from the source. On
// any failure the partially written target is removed.
func RebuildArchive(src archive.Source, targetPath string, compressed bool, logger zerolog.Logger) (err error) {
	target, err := archive.CreateZipTarget(targetPath, compressed)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = target.Close()
		}
		if err != nil {
			_ = os.Remove(targetPath)
		}
	}()

	names, err := src.Entries()
	if err != nil {
		return fmt.Errorf("failed to enumerate entries: %w", err)
	}

	doc := manifestDoc{XMLNS: manifestNamespace}
	for _, name := range names {
		if name == MetaInfDir || name == ManifestName {
			continue
		}
		content, err := src.Read(name)
		if err != nil {
			return fmt.Errorf("failed to read entry %s: %w", name, err)
		}
		// Empty XML files make XMind fail to parse the whole document.
		if len(content) == 0 && isXMLName(name) {
			logger.Warn().Str("entry", name).Msg("empty XML entry removed")
			continue
		}
		logger.Info().Str("entry", name).Msg("archiving entry")
		doc.Entries = append(doc.Entries, fileEntry{FullPath: name})
		if err := target.Write(name, content); err != nil {
			return err
		}
	}

	doc.Entries = append(doc.Entries,
		fileEntry{FullPath: MetaInfDir},
		fileEntry{FullPath: ManifestName, MediaType: "text/xml"},
	)
	body, err := xml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err = target.Write(MetaInfDir, nil); err != nil {
		return err
	}
	if err = target.Write(ManifestName, append([]byte(xmlDeclaration), body...)); err != nil {
		return err
	}

	closed = true
	return target.Close()
}

func isXMLName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xml")
}
