package manifest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/freightdesk/podrec/internal/common"
)

// Loader reads manifest spreadsheets using a configurable column mapping.
type Loader struct {
	columns map[string]string
	logger  *slog.Logger
}

// NewLoader builds a Loader for the given canonical-name -> column-header
// mapping. A nil map falls back to common.DefaultColumns.
func NewLoader(columns map[string]string, logger *slog.Logger) *Loader {
	if columns == nil {
		columns = common.DefaultColumns
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{columns: columns, logger: logger}
}

// Load reads the manifest from path. The first sheet's first row is the
// header. Missing identifier columns are a load error; blank or duplicate
// identifiers are data-quality warnings, returned alongside the records and
// logged, never fatal.
func (l *Loader) Load(path string) ([]Record, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, common.NewAppError("MANIFEST_ERROR", "open manifest: "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close manifest file", "path", path, "error", cerr)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, common.NewAppError("MANIFEST_ERROR", "read manifest sheet: "+sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, common.NewAppError("MANIFEST_ERROR", "manifest is empty: "+path, common.ErrInvalidInput)
	}

	idx, err := l.columnIndexes(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var records []Record
	for i, row := range rows[1:] {
		rec := Record{
			InvoiceNumber: cellAt(row, idx[FieldInvoiceNumber]),
			DeliveryID:    cellAt(row, idx[FieldDeliveryID]),
			Date:          cellAt(row, idx[FieldDate]),
			Customer:      cellAt(row, idx[FieldCustomer]),
			Status:        cellAt(row, idx[FieldStatus]),
			Row:           i + 2,
		}
		if rec.InvoiceNumber == "" && rec.DeliveryID == "" && rec.Date == "" && rec.Customer == "" && rec.Status == "" {
			continue // trailing blank row
		}
		records = append(records, rec)
	}

	warnings := validate(records)
	for _, w := range warnings {
		l.logger.Warn("manifest data quality", "warning", w)
	}
	l.logger.Info("manifest loaded", "path", path, "records", len(records), "warnings", len(warnings))
	return records, warnings, nil
}

// columnIndexes resolves the configured column mapping against the header
// row. At least one identifier column must resolve; every record needs a key
// to be reconcilable, and discovering that at load time beats a null surprise
// later.
func (l *Loader) columnIndexes(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(h)] = i
	}

	idx := map[string]int{}
	for canonical, source := range l.columns {
		if i, ok := byName[source]; ok {
			idx[canonical] = i
		} else {
			idx[canonical] = -1
		}
	}

	if idx[FieldInvoiceNumber] < 0 && idx[FieldDeliveryID] < 0 {
		return nil, common.NewAppError("MANIFEST_ERROR",
			fmt.Sprintf("manifest has neither identifier column (%q or %q)",
				l.columns[FieldInvoiceNumber], l.columns[FieldDeliveryID]),
			common.ErrInvalidInput)
	}
	return idx, nil
}

// validate produces data-quality warnings: blank identifiers and duplicate
// identifiers. Duplicates are expected to be rare but are not enforced away.
func validate(records []Record) []string {
	var warnings []string

	blanks := 0
	seen := map[string]int{}
	dups := 0
	for _, r := range records {
		k := r.Key()
		if k == "" {
			blanks++
			continue
		}
		seen[k]++
		if seen[k] == 2 {
			dups++
		}
	}
	if blanks > 0 {
		warnings = append(warnings, fmt.Sprintf("found %d record(s) with no identifier", blanks))
	}
	if dups > 0 {
		warnings = append(warnings, fmt.Sprintf("found %d duplicate identifier(s) in manifest", dups))
	}
	return warnings
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
