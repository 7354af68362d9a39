// Package ingest scans the POD document folder and derives per-file
// identifiers. Documents are transient: the corpus is rescanned on every run.
package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/fields"
)

// Document is one on-disk POD file.
type Document struct {
	Path string
	Name string
	// FileID is the identifier parsed from the filename (longest digit
	// run). Heuristic, not guaranteed unique.
	FileID  string
	ModTime time.Time
}

// ScanFolder lists POD files directly under folder (non-recursive), filtered
// by the given extensions (case-insensitive; nil means the defaults).
// Results are sorted by filename.
func ScanFolder(folder string, extensions []string, logger *slog.Logger) ([]Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	exts := map[string]struct{}{}
	if len(extensions) == 0 {
		exts = constants.AllowedExtensions
	} else {
		for _, e := range extensions {
			if n := constants.NormalizeExt(e); n != "" {
				exts[n] = struct{}{}
			}
		}
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, common.NewAppError("SCAN_ERROR", "read POD folder: "+folder, err)
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := exts[ext]; !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			logger.Warn("stat document", "name", e.Name(), "error", err)
			continue
		}
		docs = append(docs, Document{
			Path:    filepath.Join(folder, e.Name()),
			Name:    e.Name(),
			FileID:  fields.ParseFilenameID(e.Name()),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	logger.Info("scanned POD folder", "folder", folder, "documents", len(docs))
	return docs, nil
}

// ByID indexes documents by file identifier. Later files win on identifier
// collisions, matching the scan order.
func ByID(docs []Document) map[string]Document {
	m := make(map[string]Document, len(docs))
	for _, d := range docs {
		if d.FileID != "" {
			m[d.FileID] = d
		}
	}
	return m
}

// IDs returns the file identifiers of docs.
func IDs(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.FileID)
	}
	return out
}
