package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nucleus/ingest-core/internal/table"
)

// CSVIngestor loads comma-separated files. The first record is the header.
type CSVIngestor struct{}

func (ci *CSVIngestor) Ingest(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(CodeReadFailed, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, wrapError(CodeParseFailed, fmt.Errorf("%s: empty csv file", path))
	}
	if err != nil {
		return nil, wrapError(CodeParseFailed, err)
	}

	tbl := table.New(header...)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapError(CodeParseFailed, err)
		}
		row := make(table.Record, len(header))
		for i, col := range header {
			row[col] = inferValue(rec[i])
		}
		tbl.Append(row)
	}
	return tbl, nil
}

// inferValue parses a CSV cell into int64, float64, bool, or string.
// Integer parsing runs first so "1"/"0" stay numeric rather than boolean.
func inferValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}
