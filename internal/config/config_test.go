package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("language: ar\nmax_rows: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Language != "ar" || c.MaxRows != 10 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Currency != "SAR" || c.SampleRows != 20 || c.ServerAddr != "127.0.0.1:8088" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.ExportDir == "" {
		t.Fatalf("export_dir should be resolved")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("currency: USD\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("STORELENS_CURRENCY", "EUR")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", c.Currency)
	}
}

func TestLoadRejectsBadLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("language: fr\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestSetValidatesAndSaves(t *testing.T) {
	c := &Global{Language: "en", LogFormat: "text", SampleRows: 20, UploadMaxMB: 100}
	if err := c.Set("language", "AR"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if err := c.Set("sample_rows", "0"); err == nil {
		t.Fatalf("expected sample_rows validation error")
	}
	if c.SampleRows != 20 {
		t.Fatalf("failed Set must not modify config")
	}
	if err := c.Set("max_rows", "x"); err == nil {
		t.Fatalf("expected int parse error")
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Language != "ar" {
		t.Fatalf("language = %q after reload", back.Language)
	}
	for _, k := range Keys() {
		if _, err := back.Get(k); err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
	}
}
