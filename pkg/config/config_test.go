package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromString(t *testing.T) {
	cfg, err := LoadFromString(`
config: mentions
instance_type: g5.xlarge
region: eu-west-1
timeout: 7m
volume_size_gb: 64
tags:
  team: ingest
  env: staging
`)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.Config != "mentions" {
		t.Errorf("Config = %q, want mentions", cfg.Config)
	}
	if cfg.InstanceType != "g5.xlarge" {
		t.Errorf("InstanceType = %q, want g5.xlarge", cfg.InstanceType)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", cfg.Region)
	}
	if cfg.Timeout != 7*time.Minute {
		t.Errorf("Timeout = %v, want 7m", cfg.Timeout)
	}
	if cfg.VolumeSizeGB != 64 {
		t.Errorf("VolumeSizeGB = %d, want 64", cfg.VolumeSizeGB)
	}
	if cfg.Tags["team"] != "ingest" || cfg.Tags["env"] != "staging" {
		t.Errorf("Tags = %v", cfg.Tags)
	}
}

func TestLoadFromStringDefaults(t *testing.T) {
	cfg, err := LoadFromString(`config: crf`)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.InstanceType != DefaultInstanceType {
		t.Errorf("InstanceType = %q, want default %q", cfg.InstanceType, DefaultInstanceType)
	}
	if cfg.Region != "" {
		t.Errorf("Region = %q, want empty so the caller can consult the environment", cfg.Region)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (deployer supplies its own default)", cfg.Timeout)
	}
}

func TestLoadFromStringUnknownPreset(t *testing.T) {
	if _, err := LoadFromString(`config: turbo`); err == nil {
		t.Error("LoadFromString() = nil for unknown preset, want error")
	}
}

func TestLoadFromStringNegativeTimeout(t *testing.T) {
	if _, err := LoadFromString(`timeout: -1m`); err == nil {
		t.Error("LoadFromString() = nil for negative timeout, want error")
	}
}

func TestLoadFromStringMalformed(t *testing.T) {
	if _, err := LoadFromString(`config: [not, a, string`); err == nil {
		t.Error("LoadFromString() = nil for malformed YAML, want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skiff.yaml")
	if err := os.WriteFile(path, []byte("config: full\nregion: us-east-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Config != "full" || cfg.Region != "us-east-1" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "skiff.yaml")); err == nil {
		t.Error("Load() = nil for missing file, want error")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "skiff.yaml")
	if err := os.WriteFile(want, []byte("config: crf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestFindPrefersNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "svc")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "skiff.yaml"), []byte("config: crf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(nested, ".skiff.yml")
	if err := os.WriteFile(want, []byte("config: full\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %q, want nearest file %q", got, want)
	}
}

func TestFindNothing(t *testing.T) {
	got, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != "" {
		t.Errorf("Find() = %q, want empty when no deploy file exists", got)
	}
}
