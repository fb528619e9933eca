package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Unit_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.InputPath != DefaultInputPath {
		t.Errorf("InputPath = %s, want %s", cfg.InputPath, DefaultInputPath)
	}
}

func TestLoad_Unit_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.yaml")
	content := `
inputPath: data/houses.zip
entry: houses.csv
store:
  bucket: raw-inputs
  tenantId: acme
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INGEST_ENTRY", "prices.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.InputPath != "data/houses.zip" {
		t.Errorf("InputPath = %s", cfg.InputPath)
	}
	if cfg.Entry != "prices.json" {
		t.Errorf("env override lost: Entry = %s", cfg.Entry)
	}
	if cfg.Store.Bucket != "raw-inputs" || cfg.Store.TenantID != "acme" {
		t.Errorf("store config = %+v", cfg.Store)
	}
	if got := cfg.StoreParams()["bucket"]; got != "raw-inputs" {
		t.Errorf("StoreParams bucket = %v", got)
	}
}

func TestLoad_Unit_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail for a missing config file")
	}
}
