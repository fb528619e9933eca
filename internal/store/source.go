package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nucleus/ingest-core/internal/ingest"
	"github.com/nucleus/ingest-core/internal/table"
)

// Source downloads ingestion inputs from an object store.
type Source struct {
	store ObjectStore
	cfg   *Config
}

// NewSource wires a source over the given store. A nil store is resolved from
// the config via Open.
func NewSource(cfg *Config, objStore ObjectStore) (*Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if objStore == nil {
		objStore = Open(cfg)
	}
	exists, err := objStore.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, wrapError(CodeBucketNotFound, false, fmt.Errorf("bucket %s not found", cfg.Bucket))
	}
	return &Source{store: objStore, cfg: cfg}, nil
}

// Fetch downloads the object at key into a uniquely named temp file that keeps
// the object's extension, so the ingest factory can dispatch on it. The caller
// removes the file when done.
func (s *Source) Fetch(ctx context.Context, key string) (string, error) {
	data, err := s.store.GetObject(ctx, s.cfg.Bucket, key)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("fetch-%s%s", uuid.New().String(), filepath.Ext(key))
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", wrapError(CodeWriteFailed, true, err)
	}
	return path, nil
}

// Ingest fetches the object at key and loads it through the format factory.
// entryName disambiguates archive objects holding several tabular entries.
func (s *Source) Ingest(ctx context.Context, key string, entryName string) (*table.Table, error) {
	path, err := s.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)
	return ingest.LoadEntry(ctx, path, entryName)
}
