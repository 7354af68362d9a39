// Package pipeline runs the per-document reconciliation flow:
// extract -> parse -> compare. Documents are independent; the batch is
// sequential and a failure on one document never aborts the rest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/extract"
	"github.com/freightdesk/podrec/internal/fields"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/reconcile"
)

// Processor coordinates text extraction and field comparison for a batch of
// documents.
type Processor struct {
	extractor      extract.TextExtractor
	comparator     *reconcile.Comparator
	knownCustomers []string
	// timeout bounds each document's extraction so one stuck document
	// cannot stall the whole batch; zero means no bound.
	timeout time.Duration
	logger  *slog.Logger
}

func NewProcessor(extractor extract.TextExtractor, comparator *reconcile.Comparator, knownCustomers []string, timeout time.Duration, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor:      extractor,
		comparator:     comparator,
		knownCustomers: knownCustomers,
		timeout:        timeout,
		logger:         logger,
	}
}

// DocResult pairs one document with its parsed fields and verdict.
type DocResult struct {
	Doc     ingest.Document
	Record  manifest.Record
	Bag     fields.FieldBag
	Verdict reconcile.Verdict
}

// Stats summarizes a batch.
type Stats struct {
	Analyzed int
	Matched  int
	Partial  int
	NoMatch  int
	Errored  int
}

// ProcessDocument runs the full per-document flow. Extraction failures and
// timeouts become Error verdicts, never errors out of this method.
func (p *Processor) ProcessDocument(ctx context.Context, doc ingest.Document, rec manifest.Record) DocResult {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res, err := p.extractor.Extract(ctx, doc.Path)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("extraction timed out after %s", p.timeout)
		}
		p.logger.Warn("extraction failed", "file", doc.Name, "error", err)
		bag := fields.Parse(fields.ErrSentinelPrefix+": "+reason+"]", nil)
		return DocResult{Doc: doc, Record: rec, Bag: bag, Verdict: reconcile.ErrorVerdict(rec, reason)}
	}

	bag := fields.Parse(res.Text, p.knownCustomers)
	verdict := p.comparator.Compare(bag, rec)
	p.logger.Debug("document compared",
		"file", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"overall", verdict.Overall,
		"score", verdict.Score,
	)
	return DocResult{Doc: doc, Record: rec, Bag: bag, Verdict: verdict}
}

// Run processes every document that has a manifest record (looked up by file
// identifier). Documents without a manifest row are presence "extras" and are
// skipped here. Cancellation stops the batch between documents.
func (p *Processor) Run(ctx context.Context, docs []ingest.Document, byKey map[string]manifest.Record) ([]DocResult, Stats, error) {
	var results []DocResult
	var stats Stats

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}
		rec, ok := byKey[doc.FileID]
		if !ok {
			continue
		}
		r := p.ProcessDocument(ctx, doc, rec)
		results = append(results, r)

		stats.Analyzed++
		switch r.Verdict.Overall {
		case constants.MatchYes:
			stats.Matched++
		case constants.MatchPartial:
			stats.Partial++
		case constants.MatchError:
			stats.Errored++
		default:
			stats.NoMatch++
		}
	}

	p.logger.Info("batch complete",
		"analyzed", stats.Analyzed,
		"matched", stats.Matched,
		"partial", stats.Partial,
		"no_match", stats.NoMatch,
		"errored", stats.Errored,
	)
	return results, stats, nil
}
