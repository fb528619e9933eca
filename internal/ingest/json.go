package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nucleus/ingest-core/internal/table"
)

// JSONIngestor loads a top-level JSON array of objects. Column order follows
// first appearance of each key across the records.
type JSONIngestor struct{}

func (ji *JSONIngestor) Ingest(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(CodeReadFailed, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	tbl := &table.Table{}
	seen := map[string]struct{}{}
	for dec.More() {
		row, keys, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				tbl.Columns = append(tbl.Columns, k)
			}
		}
		tbl.Append(row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return tbl, nil
}

// decodeObject reads one JSON object, preserving key order.
func decodeObject(dec *json.Decoder) (table.Record, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	row := table.Record{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, wrapError(CodeParseFailed, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, wrapError(CodeParseFailed, fmt.Errorf("expected object key, got %v", tok))
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, wrapError(CodeParseFailed, err)
		}
		row[key] = normalizeJSONValue(raw)
		keys = append(keys, key)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return row, keys, nil
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return wrapError(CodeParseFailed, err)
	}
	if d, ok := tok.(json.Delim); !ok || rune(d) != want {
		return wrapError(CodeParseFailed, fmt.Errorf("expected %q, got %v", want, tok))
	}
	return nil
}

// normalizeJSONValue converts json.Number cells to int64 when integral,
// float64 otherwise, matching the CSV ingestor's inference.
func normalizeJSONValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
