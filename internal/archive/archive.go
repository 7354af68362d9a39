// Package archive files processed POD documents into a structured folder
// tree. Destinations are planned per document (by date, customer or
// resolution status); execution copies or moves, and dry-run resolves
// destinations without touching the filesystem.
package archive

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/reconcile"
)

// Mode selects the folder scheme.
type Mode string

const (
	ModeByDate     Mode = "by-date"
	ModeByCustomer Mode = "by-customer"
	ModeByStatus   Mode = "by-status"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeByDate, ModeByCustomer, ModeByStatus:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown archive mode %q (want by-date, by-customer or by-status)", s)
}

const maxCustomerFolderLen = 50

// Options configure one archive run.
type Options struct {
	Mode    Mode
	Copy    bool // copy instead of move
	DryRun  bool
	// Records feeds the by-date and by-customer schemes; keyed lookups use
	// the document's filename identifier.
	Records map[string]manifest.Record
	// Statuses feeds the by-status scheme.
	Statuses map[string]constants.ResolutionStatus
}

// Entry is one archived (or planned) file for the log report.
type Entry struct {
	DeliveryID  string
	Source      string
	Destination string
	Action      string
	ArchivedAt  time.Time
}

// Failure is one file that could not be archived.
type Failure struct {
	DeliveryID string
	Source     string
	Err        error
}

type Archiver struct {
	root   string
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewArchiver(root string, opts Options, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Mode == "" {
		opts.Mode = ModeByDate
	}
	return &Archiver{root: root, opts: opts, logger: logger, now: time.Now}
}

// Destination resolves the archive path for one document without touching
// the filesystem.
func (a *Archiver) Destination(doc ingest.Document) string {
	switch a.opts.Mode {
	case ModeByCustomer:
		return a.byCustomer(doc)
	case ModeByStatus:
		return a.byStatus(doc)
	default:
		return a.byDate(doc)
	}
}

// byDate files under YYYY/MM/DD, preferring the manifest date over the
// file's modification time.
func (a *Archiver) byDate(doc ingest.Document) string {
	date := doc.ModTime
	if rec, ok := a.opts.Records[doc.FileID]; ok {
		if d, ok := reconcile.ParseManifestDate(rec.Date); ok {
			date = d
		}
	}
	return filepath.Join(a.root,
		fmt.Sprintf("%04d", date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		fmt.Sprintf("%02d", date.Day()),
		doc.Name)
}

// byCustomer files under CustomerName/YYYY-MM. The customer folder name is
// stripped to alphanumerics plus space, dash and underscore, and capped.
func (a *Archiver) byCustomer(doc ingest.Document) string {
	customer := "Unknown"
	yearMonth := a.now().Format("2006-01")

	if rec, ok := a.opts.Records[doc.FileID]; ok {
		if name := sanitizeFolderName(rec.Customer); name != "" {
			customer = name
		}
		if d, ok := reconcile.ParseManifestDate(rec.Date); ok {
			yearMonth = d.Format("2006-01")
		}
	}
	return filepath.Join(a.root, customer, yearMonth, doc.Name)
}

// byStatus files under a coarse status bucket plus the current YYYY-MM.
func (a *Archiver) byStatus(doc ingest.Document) string {
	bucket := "Unknown"
	if res, ok := a.opts.Statuses[doc.FileID]; ok {
		switch res {
		case constants.ResolutionClosed, constants.ResolutionReadyToClose:
			bucket = "Completed"
		case constants.ResolutionHasIssues:
			bucket = "Issues"
		case constants.ResolutionPendingPOD:
			bucket = "Pending"
		default:
			if res != "" {
				bucket = string(res)
			}
		}
	}
	return filepath.Join(a.root, bucket, a.now().Format("2006-01"), doc.Name)
}

func sanitizeFolderName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > maxCustomerFolderLen {
		s = s[:maxCustomerFolderLen]
	}
	return s
}

// Run archives every document. Per-file failures are collected, never
// fatal to the batch.
func (a *Archiver) Run(docs []ingest.Document) ([]Entry, []Failure) {
	var entries []Entry
	var failures []Failure

	for _, doc := range docs {
		dest := a.Destination(doc)
		action, err := a.place(doc.Path, dest)
		if err != nil {
			a.logger.Warn("archive failed", "file", doc.Name, "error", err)
			failures = append(failures, Failure{DeliveryID: doc.FileID, Source: doc.Path, Err: err})
			continue
		}
		entries = append(entries, Entry{
			DeliveryID:  doc.FileID,
			Source:      doc.Path,
			Destination: dest,
			Action:      action,
			ArchivedAt:  a.now(),
		})
	}

	a.logger.Info("archive complete",
		"mode", string(a.opts.Mode),
		"processed", len(entries),
		"errors", len(failures),
		"dry_run", a.opts.DryRun,
	)
	return entries, failures
}

func (a *Archiver) place(src, dest string) (string, error) {
	if a.opts.DryRun {
		if a.opts.Copy {
			return "Would copy", nil
		}
		return "Would move", nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if a.opts.Copy {
		if err := copyFile(src, dest); err != nil {
			return "", err
		}
		return "Copied", nil
	}
	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return "Moved", nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// moveFile renames, falling back to copy-then-remove for cross-device
// destinations.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}
