package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nucleus/ingest-core/internal/table"
)

// ForPath returns the ingestor matching the path's extension. Ingestors are
// stateless; each call returns a fresh instance.
func ForPath(path string) (Ingestor, error) {
	ext := filepath.Ext(path)
	if ext == ExtZip {
		return &ZipIngestor{}, nil
	}
	if newIngestor, ok := formatIngestors[ext]; ok {
		return newIngestor(), nil
	}
	return nil, wrapError(CodeUnsupportedFormat, fmt.Errorf("no ingestor for extension %q", ext))
}

// Load resolves the ingestor for path and runs it.
func Load(ctx context.Context, path string) (*table.Table, error) {
	return LoadEntry(ctx, path, "")
}

// LoadEntry is Load with an archive entry name for disambiguating ZIP inputs.
// The entry name is rejected for non-archive paths.
func LoadEntry(ctx context.Context, path string, entryName string) (*table.Table, error) {
	ing, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	if zi, ok := ing.(*ZipIngestor); ok {
		return zi.IngestEntry(ctx, path, entryName)
	}
	if entryName != "" {
		return nil, wrapError(CodeInvalidInput, fmt.Errorf("entry name %q given for non-archive %s", entryName, path))
	}
	return ing.Ingest(ctx, path)
}
