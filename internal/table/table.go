// Package table defines the in-memory tabular result produced by every ingestor.
package table

// Record represents a single data record as key-value pairs.
type Record = map[string]any

// Table is a column-ordered, row-ordered in-memory table.
type Table struct {
	Columns []string
	Rows    []Record
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. Keys absent from the record read back as nil.
func (t *Table) Append(rec Record) {
	t.Rows = append(t.Rows, rec)
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns a table holding at most n leading rows. The returned table
// shares row maps with the receiver.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Equal reports whether two tables have the same column order, row order, and
// cell values. Cells are compared per column name, so extra keys outside the
// declared columns are ignored.
func (t *Table) Equal(other *Table) bool {
	if other == nil {
		return false
	}
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, c := range t.Columns {
		if other.Columns[i] != c {
			return false
		}
	}
	for i, row := range t.Rows {
		for _, c := range t.Columns {
			if row[c] != other.Rows[i][c] {
				return false
			}
		}
	}
	return true
}
