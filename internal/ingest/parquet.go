package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/nucleus/ingest-core/internal/table"
)

// ParquetIngestor loads Parquet files. The schema is inferred from the file
// footer; columns surface in schema order.
type ParquetIngestor struct{}

func (pi *ParquetIngestor) Ingest(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, wrapError(CodeReadFailed, err)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, wrapError(CodeReadFailed, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return nil, wrapError(CodeParseFailed, err)
	}
	defer pr.ReadStop()

	// Leaf column names in schema order. Infos[0] is the synthetic root.
	var columns []string
	for _, info := range pr.SchemaHandler.Infos[1:] {
		columns = append(columns, info.ExName)
	}

	rows, err := pr.ReadByNumber(int(pr.GetNumRows()))
	if err != nil {
		return nil, wrapError(CodeParseFailed, err)
	}

	// The reader materializes rows as generated structs tagged with the
	// original column names; round-trip through JSON to get loose records.
	encoded, err := json.Marshal(rows)
	if err != nil {
		return nil, wrapError(CodeParseFailed, err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, wrapError(CodeParseFailed, err)
	}

	tbl := table.New(columns...)
	for _, rec := range raw {
		row := make(table.Record, len(columns))
		for _, col := range columns {
			row[col] = normalizeJSONValue(rec[col])
		}
		tbl.Append(row)
	}
	return tbl, nil
}
