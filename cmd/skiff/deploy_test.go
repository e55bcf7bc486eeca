package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SkiffProject/skiff/pkg/config"
)

func writeDeployFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skiff.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDeployConfigEnvFillsRegionWhenFileSetsNone(t *testing.T) {
	path := writeDeployFile(t, "config: crf\n")
	t.Setenv("SKIFF_REGION", "")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := loadDeployConfig(path)
	if err != nil {
		t.Fatalf("loadDeployConfig() error = %v", err)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1 from AWS_REGION (deploy file sets none)", cfg.Region)
	}
}

func TestLoadDeployConfigFileRegionBeatsEnv(t *testing.T) {
	path := writeDeployFile(t, "config: crf\nregion: us-east-2\n")
	t.Setenv("SKIFF_REGION", "ap-northeast-1")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := loadDeployConfig(path)
	if err != nil {
		t.Fatalf("loadDeployConfig() error = %v", err)
	}
	if cfg.Region != "us-east-2" {
		t.Errorf("Region = %q, want us-east-2 from the deploy file over the environment", cfg.Region)
	}
}

func TestLoadDeployConfigSkiffRegionBeatsAWSRegion(t *testing.T) {
	path := writeDeployFile(t, "config: crf\n")
	t.Setenv("SKIFF_REGION", "ap-northeast-1")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := loadDeployConfig(path)
	if err != nil {
		t.Fatalf("loadDeployConfig() error = %v", err)
	}
	if cfg.Region != "ap-northeast-1" {
		t.Errorf("Region = %q, want SKIFF_REGION to win over AWS_REGION", cfg.Region)
	}
}

func TestLoadDeployConfigDefaultRegion(t *testing.T) {
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldwd) })
	t.Setenv("SKIFF_REGION", "")
	t.Setenv("AWS_REGION", "")

	cfg, err := loadDeployConfig("")
	if err != nil {
		t.Fatalf("loadDeployConfig() error = %v", err)
	}
	if cfg.Region != config.DefaultRegion {
		t.Errorf("Region = %q, want %q with no file and no environment", cfg.Region, config.DefaultRegion)
	}
	if cfg.InstanceType != config.DefaultInstanceType {
		t.Errorf("InstanceType = %q, want %q", cfg.InstanceType, config.DefaultInstanceType)
	}
}
