package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/jittakal/sparkifylake/internal/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Application.Name != "sparkify-data-lake" {
		t.Errorf("Application.Name = %q", cfg.Application.Name)
	}
	if cfg.Storage.Format != "parquet" {
		t.Errorf("Storage.Format = %q, want parquet", cfg.Storage.Format)
	}
	if cfg.AWS.Region != "us-west-2" {
		t.Errorf("AWS.Region = %q, want us-west-2", cfg.AWS.Region)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("metrics enabled by default")
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := writeTempFile(t, "application.yaml", `
storage:
  format: avro
  compression: gzip

observability:
  logging:
    level: debug
    format: json
`)

	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Format != "avro" {
		t.Errorf("Storage.Format = %q, want avro", cfg.Storage.Format)
	}
	if cfg.Storage.Compression != "gzip" {
		t.Errorf("Storage.Compression = %q, want gzip", cfg.Storage.Compression)
	}
	if cfg.Observability.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Observability.Logging.Level)
	}
}

func TestLoader_InvalidFormat(t *testing.T) {
	path := writeTempFile(t, "application.yaml", `
storage:
  format: orc
`)

	loader := NewLoader()
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported format")
	}
}

func TestLoadCredentials(t *testing.T) {
	path := writeTempFile(t, "dl.cfg", `[AWS]
AWS_ACCESS_KEY_ID=AKIAEXAMPLE
AWS_SECRET_ACCESS_KEY=secretexample
`)

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.AccessKeyID != "AKIAEXAMPLE" {
		t.Errorf("AccessKeyID = %q", creds.AccessKeyID)
	}
	if creds.SecretAccessKey != "secretexample" {
		t.Errorf("SecretAccessKey = %q", creds.SecretAccessKey)
	}
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.cfg"))
	if err == nil {
		t.Fatal("expected error for missing credentials file")
	}

	var configErr *apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestLoadCredentials_MissingKey(t *testing.T) {
	path := writeTempFile(t, "dl.cfg", `[AWS]
AWS_ACCESS_KEY_ID=AKIAEXAMPLE
`)

	_, err := LoadCredentials(path)
	if err == nil {
		t.Fatal("expected error for missing secret key")
	}
	if !errors.Is(err, apperrors.ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}
