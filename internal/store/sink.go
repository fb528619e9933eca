package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nucleus/ingest-core/internal/ingest"
	"github.com/nucleus/ingest-core/internal/table"
)

// SinkResult captures a published artifact.
type SinkResult struct {
	Object string
	Rows   int64
	Bytes  int64
}

// Sink publishes ingested tables as Parquet artifacts under a
// hive-partitioned layout: basePrefix/tenant/dataset/dt=.../run=.../part-000000.parquet
type Sink struct {
	store ObjectStore
	cfg   *Config
}

// NewSink wires a sink over the given store, provisioning the bucket when it
// does not exist yet.
func NewSink(cfg *Config, objStore ObjectStore) (*Sink, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if objStore == nil {
		objStore = Open(cfg)
	}
	if err := objStore.EnsureBucket(context.Background(), cfg.Bucket); err != nil {
		return nil, err
	}
	return &Sink{store: objStore, cfg: cfg}, nil
}

// Publish writes the table as a single SNAPPY Parquet part and returns the
// object URL.
func (s *Sink) Publish(ctx context.Context, datasetID string, tbl *table.Table) (*SinkResult, error) {
	if tbl == nil {
		return nil, wrapError(CodeWriteFailed, false, fmt.Errorf("table is required"))
	}
	if datasetID == "" {
		datasetID = "dataset"
	}
	loadDate := time.Now().UTC().Format("2006-01-02")
	runID := uuid.New().String()

	// Encode through a temp file: the parquet writer wants a seekable target.
	tmp := filepath.Join(os.TempDir(), "publish-"+runID+".parquet")
	defer os.Remove(tmp)
	if err := ingest.WriteParquet(tbl, tmp); err != nil {
		return nil, wrapError(CodeWriteFailed, true, err)
	}
	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, wrapError(CodeWriteFailed, true, err)
	}

	key := joinPath(
		s.cfg.BasePrefix,
		s.cfg.TenantID,
		datasetID,
		fmt.Sprintf("dt=%s", loadDate),
		fmt.Sprintf("run=%s", runID),
		"part-000000.parquet",
	)
	if err := s.store.PutObject(ctx, s.cfg.Bucket, key, data); err != nil {
		return nil, err
	}
	return &SinkResult{
		Object: fmt.Sprintf("minio://%s/%s", s.cfg.Bucket, key),
		Rows:   int64(tbl.NumRows()),
		Bytes:  int64(len(data)),
	}, nil
}
