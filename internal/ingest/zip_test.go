package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeZip builds an archive at path from entry name to content.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

const csvContent = "name,rooms\nfarmhouse,6\ncottage,3\n"

func TestZipIngestor_Unit_SingleSupportedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{"houses.csv": csvContent})

	tbl, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", tbl.NumRows())
	}
	if !tbl.HasColumn("rooms") {
		t.Errorf("columns = %v, want rooms present", tbl.Columns)
	}
}

func TestZipIngestor_Unit_AmbiguousWithoutEntryName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{
		"a.csv":  csvContent,
		"b.json": `[{"name": "villa"}]`,
	})

	_, err := Load(context.Background(), path)
	if !IsCode(err, CodeAmbiguousEntry) {
		t.Fatalf("Load = %v, want code %s", err, CodeAmbiguousEntry)
	}
	candidates := CandidatesOf(err)
	if len(candidates) != 2 || candidates[0] != "a.csv" || candidates[1] != "b.json" {
		t.Errorf("candidates = %v, want [a.csv b.json]", candidates)
	}
}

func TestZipIngestor_Unit_EntryNameSelectsAmongMany(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{
		"a.csv":  csvContent,
		"b.json": `[{"name": "villa", "rooms": 9}]`,
	})

	tbl, err := LoadEntry(context.Background(), path, "b.json")
	if err != nil {
		t.Fatalf("LoadEntry failed: %v", err)
	}
	if tbl.NumRows() != 1 || tbl.Rows[0]["name"] != "villa" {
		t.Errorf("selected entry content mismatch: %+v", tbl.Rows)
	}
}

func TestZipIngestor_Unit_EntryNameAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{
		"a.csv":  csvContent,
		"b.json": `[{"name": "villa"}]`,
	})

	_, err := LoadEntry(context.Background(), path, "c.parquet")
	if !IsCode(err, CodeEntryNotFound) {
		t.Fatalf("LoadEntry = %v, want code %s", err, CodeEntryNotFound)
	}
	if candidates := CandidatesOf(err); len(candidates) != 2 {
		t.Errorf("candidates = %v, want the two available entries", candidates)
	}
}

func TestZipIngestor_Unit_NoSupportedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{"readme.txt": "nothing tabular here"})

	_, err := Load(context.Background(), path)
	if !IsCode(err, CodeEntryNotFound) {
		t.Errorf("Load = %v, want code %s", err, CodeEntryNotFound)
	}
}

func TestZipIngestor_Unit_EntryExtensionMatchIsCaseSensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{"HOUSES.CSV": csvContent})

	_, err := Load(context.Background(), path)
	if !IsCode(err, CodeEntryNotFound) {
		t.Errorf("uppercase extension should not match: err = %v", err)
	}
}

func TestZipIngestor_Unit_NonZipPathRejectedBeforeExtraction(t *testing.T) {
	zi := &ZipIngestor{}
	_, err := zi.Ingest(context.Background(), "data.rar")
	if !IsCode(err, CodeInvalidInput) {
		t.Errorf("Ingest(data.rar) = %v, want code %s", err, CodeInvalidInput)
	}
}

func TestZipIngestor_Unit_CorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeFile(t, path, "this is not a zip archive")

	_, err := Load(context.Background(), path)
	if !IsCode(err, CodeExtractFailed) {
		t.Errorf("Load = %v, want code %s", err, CodeExtractFailed)
	}
}

func TestZipIngestor_Unit_NestedDirEntriesIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{
		"houses.csv":       csvContent,
		"nested/other.csv": csvContent,
	})

	// Only top-level entries participate in selection.
	tbl, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", tbl.NumRows())
	}
}

func TestZipIngestor_Unit_WorkspaceRemovedOnAllPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.zip")
	writeZip(t, good, map[string]string{"houses.csv": csvContent})
	empty := filepath.Join(dir, "empty.zip")
	writeZip(t, empty, map[string]string{"readme.txt": "x"})

	before := listWorkspaces(t)
	_, _ = Load(context.Background(), good)
	_, _ = Load(context.Background(), empty)
	after := listWorkspaces(t)

	for name := range after {
		if _, ok := before[name]; !ok {
			t.Errorf("workspace %s left behind", name)
		}
	}
}

func listWorkspaces(t *testing.T) map[string]struct{} {
	t.Helper()
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	found := map[string]struct{}{}
	for _, ent := range entries {
		if strings.HasPrefix(ent.Name(), "ingest-") {
			found[ent.Name()] = struct{}{}
		}
	}
	return found
}
