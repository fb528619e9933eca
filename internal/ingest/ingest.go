// Package ingest selects and applies a loading strategy per file format,
// turning CSV, JSON, and Parquet files (standalone or inside a ZIP archive)
// into in-memory tables.
//
// Architecture:
//
//	Ingestor      - single capability contract: file path in, table out
//	CSV/JSON/...  - one stateless ingestor per supported format
//	ZipIngestor   - extracts an archive, selects one entry, delegates
//	ForPath       - maps a path's extension to the right ingestor
package ingest

import (
	"context"

	"github.com/nucleus/ingest-core/internal/table"
)

// Supported file extensions. Matching is exact and case-sensitive.
const (
	ExtCSV     = ".csv"
	ExtJSON    = ".json"
	ExtParquet = ".parquet"
	ExtZip     = ".zip"
)

// Ingestor loads the file at path into a table.
type Ingestor interface {
	Ingest(ctx context.Context, path string) (*table.Table, error)
}

// formatIngestors is the single source of truth for tabular formats. Both the
// factory and the archive entry filter key off this map, keeping the two in
// sync. The archive extension is deliberately absent: archives cannot nest.
var formatIngestors = map[string]func() Ingestor{
	ExtCSV:     func() Ingestor { return &CSVIngestor{} },
	ExtJSON:    func() Ingestor { return &JSONIngestor{} },
	ExtParquet: func() Ingestor { return &ParquetIngestor{} },
}

// FormatExtensions returns the tabular extensions in deterministic order.
func FormatExtensions() []string {
	return []string{ExtCSV, ExtJSON, ExtParquet}
}
