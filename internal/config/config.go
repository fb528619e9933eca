// Package config provides configuration loading for the ingest CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultInputPath is the conventional archive location under the working dir.
const DefaultInputPath = "data/archive.zip"

// Config holds CLI and destination settings, loadable from YAML with
// environment overrides.
type Config struct {
	InputPath string         `yaml:"inputPath"`
	Entry     string         `yaml:"entry"`
	Store     StoreConfig    `yaml:"store"`
	Postgres  PostgresConfig `yaml:"postgres"`
}

// StoreConfig holds object-store settings for source/sink flows.
type StoreConfig struct {
	EndpointURL     string `yaml:"endpointUrl"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	Bucket          string `yaml:"bucket"`
	BasePrefix      string `yaml:"basePrefix"`
	TenantID        string `yaml:"tenantId"`
	LocalRoot       string `yaml:"localRoot"`
}

// PostgresConfig holds the relational sink settings.
type PostgresConfig struct {
	ConnString string `yaml:"connectionString"`
}

// Load reads the YAML file at path (optional) and applies environment
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := &Config{InputPath: DefaultInputPath}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.InputPath == "" {
			cfg.InputPath = DefaultInputPath
		}
	}

	cfg.InputPath = getEnv("INGEST_INPUT_PATH", cfg.InputPath)
	cfg.Entry = getEnv("INGEST_ENTRY", cfg.Entry)
	cfg.Store.EndpointURL = getEnv("INGEST_STORE_ENDPOINT", cfg.Store.EndpointURL)
	cfg.Store.AccessKeyID = getEnv("INGEST_STORE_ACCESS_KEY", cfg.Store.AccessKeyID)
	cfg.Store.SecretAccessKey = getEnv("INGEST_STORE_SECRET_KEY", cfg.Store.SecretAccessKey)
	cfg.Store.Bucket = getEnv("INGEST_STORE_BUCKET", cfg.Store.Bucket)
	cfg.Store.BasePrefix = getEnv("INGEST_STORE_PREFIX", cfg.Store.BasePrefix)
	cfg.Store.TenantID = getEnv("INGEST_STORE_TENANT", cfg.Store.TenantID)
	cfg.Store.LocalRoot = getEnv("INGEST_STORE_LOCAL_ROOT", cfg.Store.LocalRoot)
	cfg.Postgres.ConnString = getEnv("INGEST_DATABASE_URL", cfg.Postgres.ConnString)

	return cfg, nil
}

// StoreParams exposes the store settings as loose parameters for
// store.ParseConfig.
func (c *Config) StoreParams() map[string]any {
	return map[string]any{
		"endpointUrl":     c.Store.EndpointURL,
		"accessKeyId":     c.Store.AccessKeyID,
		"secretAccessKey": c.Store.SecretAccessKey,
		"bucket":          c.Store.Bucket,
		"basePrefix":      c.Store.BasePrefix,
		"tenantId":        c.Store.TenantID,
		"localRoot":       c.Store.LocalRoot,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
