package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nucleus/ingest-core/internal/table"
)

// ZipIngestor extracts a ZIP archive into a per-call workspace, selects
// exactly one supported entry, and delegates to that entry's format ingestor.
//
// The workspace is uniquely named per call and removed on every exit path, so
// concurrent ingestions of the same archive do not interleave.
type ZipIngestor struct{}

// Ingest loads the sole supported entry of the archive at path.
func (zi *ZipIngestor) Ingest(ctx context.Context, path string) (*table.Table, error) {
	return zi.IngestEntry(ctx, path, "")
}

// IngestEntry loads one supported entry of the archive at path. When the
// archive holds a single supported entry, entryName may be empty; otherwise it
// must name the entry to load.
func (zi *ZipIngestor) IngestEntry(ctx context.Context, path string, entryName string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ExtZip) {
		return nil, wrapError(CodeInvalidInput, fmt.Errorf("%s is not a %s archive", path, ExtZip))
	}

	workspace := filepath.Join(os.TempDir(), "ingest-"+uuid.New().String())
	defer os.RemoveAll(workspace)

	if err := extractArchive(path, workspace); err != nil {
		return nil, err
	}

	candidates, err := listSupportedEntries(workspace)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, selectionError(CodeEntryNotFound, nil,
			fmt.Errorf("no supported entry in %s", path))
	}
	if len(candidates) > 1 && entryName == "" {
		return nil, selectionError(CodeAmbiguousEntry, candidates,
			fmt.Errorf("multiple supported entries in %s, name one", path))
	}

	selected := entryName
	if selected == "" {
		selected = candidates[0]
	}
	if !containsEntry(candidates, selected) {
		return nil, selectionError(CodeEntryNotFound, candidates,
			fmt.Errorf("entry %s not found in %s", selected, path))
	}

	newIngestor, ok := formatIngestors[filepath.Ext(selected)]
	if !ok {
		// Unreachable while candidates are filtered by the same map.
		return nil, wrapError(CodeUnsupportedFormat, fmt.Errorf("entry %s", selected))
	}
	return newIngestor().Ingest(ctx, filepath.Join(workspace, selected))
}

// extractArchive unpacks every archive entry under dest, refusing entries
// that would escape it.
func extractArchive(path, dest string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return wrapError(CodeExtractFailed, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return wrapError(CodeExtractFailed, err)
	}
	for _, entry := range zr.File {
		if err := extractEntry(entry, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return wrapError(CodeExtractFailed, fmt.Errorf("entry %s escapes extraction dir", entry.Name))
	}
	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return wrapError(CodeExtractFailed, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return wrapError(CodeExtractFailed, err)
	}

	src, err := entry.Open()
	if err != nil {
		return wrapError(CodeExtractFailed, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return wrapError(CodeExtractFailed, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return wrapError(CodeExtractFailed, err)
	}
	return dst.Close()
}

// listSupportedEntries returns the top-level workspace files whose extension
// is a supported tabular format. Matching is exact and case-sensitive.
func listSupportedEntries(workspace string) ([]string, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, wrapError(CodeExtractFailed, err)
	}
	var supported []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if _, ok := formatIngestors[filepath.Ext(ent.Name())]; ok {
			supported = append(supported, ent.Name())
		}
	}
	sort.Strings(supported)
	return supported, nil
}

func containsEntry(entries []string, name string) bool {
	for _, e := range entries {
		if e == name {
			return true
		}
	}
	return false
}
