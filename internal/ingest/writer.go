package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/nucleus/ingest-core/internal/table"
)

// WriteCSV writes the table to path with a header row.
func WriteCSV(tbl *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapError(CodeReadFailed, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return wrapError(CodeReadFailed, err)
	}
	for _, row := range tbl.Rows {
		rec := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			rec[i] = formatCell(row[col])
		}
		if err := w.Write(rec); err != nil {
			return wrapError(CodeReadFailed, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteJSON writes the table as a JSON array of objects.
func WriteJSON(tbl *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapError(CodeReadFailed, err)
	}
	defer f.Close()

	// Rows are emitted column by column so key order matches the table.
	if _, err := f.WriteString("[\n"); err != nil {
		return wrapError(CodeReadFailed, err)
	}
	for i, row := range tbl.Rows {
		if i > 0 {
			if _, err := f.WriteString(",\n"); err != nil {
				return wrapError(CodeReadFailed, err)
			}
		}
		if err := writeJSONRow(f, tbl.Columns, row); err != nil {
			return err
		}
	}
	if _, err := f.WriteString("\n]\n"); err != nil {
		return wrapError(CodeReadFailed, err)
	}
	return nil
}

func writeJSONRow(f *os.File, columns []string, row table.Record) error {
	if _, err := f.WriteString("  {"); err != nil {
		return wrapError(CodeReadFailed, err)
	}
	for i, col := range columns {
		if i > 0 {
			if _, err := f.WriteString(", "); err != nil {
				return wrapError(CodeReadFailed, err)
			}
		}
		key, err := json.Marshal(col)
		if err != nil {
			return wrapError(CodeParseFailed, err)
		}
		val, err := json.Marshal(row[col])
		if err != nil {
			return wrapError(CodeParseFailed, err)
		}
		if _, err := fmt.Fprintf(f, "%s: %s", key, val); err != nil {
			return wrapError(CodeReadFailed, err)
		}
	}
	if _, err := f.WriteString("}"); err != nil {
		return wrapError(CodeReadFailed, err)
	}
	return nil
}

// WriteParquet writes the table as a SNAPPY-compressed Parquet file. Column
// types are inferred from the first non-nil cell per column.
func WriteParquet(tbl *table.Table, path string) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return wrapError(CodeReadFailed, err)
	}

	pw, err := writer.NewJSONWriter(buildParquetSchema(tbl), fw, 1)
	if err != nil {
		_ = fw.Close()
		return wrapError(CodeParseFailed, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range tbl.Rows {
		projected := make(map[string]any, len(tbl.Columns))
		for _, col := range tbl.Columns {
			projected[col] = row[col]
		}
		encoded, err := json.Marshal(projected)
		if err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return wrapError(CodeParseFailed, err)
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return wrapError(CodeParseFailed, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return wrapError(CodeParseFailed, err)
	}
	return fw.Close()
}

func buildParquetSchema(tbl *table.Table) string {
	fields := make([]map[string]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", col, parquetFieldType(tbl, col)),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func parquetFieldType(tbl *table.Table, col string) string {
	for _, row := range tbl.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case bool:
			return "BOOLEAN"
		case int, int32, int64:
			return "INT64"
		case float32, float64:
			return "DOUBLE"
		default:
			return "BYTE_ARRAY, convertedtype=UTF8"
		}
	}
	return "BYTE_ARRAY, convertedtype=UTF8"
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
