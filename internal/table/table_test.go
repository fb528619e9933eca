package table

import "testing"

func build() *Table {
	tbl := New("a", "b")
	tbl.Append(Record{"a": int64(1), "b": "x"})
	tbl.Append(Record{"a": int64(2), "b": "y"})
	return tbl
}

func TestTable_Unit_HeadBounds(t *testing.T) {
	tbl := build()
	if got := tbl.Head(1).NumRows(); got != 1 {
		t.Errorf("Head(1) rows = %d", got)
	}
	if got := tbl.Head(10).NumRows(); got != 2 {
		t.Errorf("Head(10) rows = %d", got)
	}
	if got := tbl.Head(-1).NumRows(); got != 0 {
		t.Errorf("Head(-1) rows = %d", got)
	}
}

func TestTable_Unit_Equal(t *testing.T) {
	a, b := build(), build()
	if !a.Equal(b) {
		t.Error("identical tables should be equal")
	}
	b.Rows[1]["b"] = "z"
	if a.Equal(b) {
		t.Error("differing cell should break equality")
	}
	c := New("b", "a")
	c.Append(Record{"a": int64(1), "b": "x"})
	c.Append(Record{"a": int64(2), "b": "y"})
	if a.Equal(c) {
		t.Error("column order is part of equality")
	}
	if a.Equal(nil) {
		t.Error("nil is never equal")
	}
}

func TestTable_Unit_HasColumn(t *testing.T) {
	tbl := build()
	if !tbl.HasColumn("a") || tbl.HasColumn("missing") {
		t.Errorf("HasColumn misbehaved for %v", tbl.Columns)
	}
}
