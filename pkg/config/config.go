// Package config loads the optional skiff.yaml deploy file. Command-line
// flags always override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SkiffProject/skiff/pkg/preset"
)

// Defaults applied when neither the file nor flags set a value.
const (
	DefaultInstanceType = "m6a.4xlarge"
	DefaultRegion       = "us-west-2"
)

// DeployConfig defines a deployment so repeated runs don't need flags.
// Used by `skiff deploy -f skiff.yaml` and by file discovery.
type DeployConfig struct {
	// Config is the service preset name ("crf", "full", "mentions").
	Config string `yaml:"config,omitempty"`

	// InstanceType is the EC2 instance type to launch.
	InstanceType string `yaml:"instance_type,omitempty"`

	// Region is the AWS region to deploy into.
	Region string `yaml:"region,omitempty"`

	// Timeout is the total readiness budget (e.g. "7m", "420s").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Tags are attached to the instance alongside the managed markers.
	Tags map[string]string `yaml:"tags,omitempty"`

	// VolumeSizeGB overrides the root volume size.
	VolumeSizeGB int `yaml:"volume_size_gb,omitempty"`
}

// Load reads a deploy configuration from a YAML file.
func Load(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deploy config: %w", err)
	}
	cfg, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromString parses a deploy configuration from YAML text.
func LoadFromString(data string) (*DeployConfig, error) {
	var cfg DeployConfig
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing deploy config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deploy config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *DeployConfig) Validate() error {
	if c.Config != "" {
		if _, err := preset.Resolve(c.Config); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.VolumeSizeGB < 0 {
		return fmt.Errorf("volume_size_gb cannot be negative")
	}
	for k := range c.Tags {
		if k == "" {
			return fmt.Errorf("tag keys cannot be empty")
		}
	}
	return nil
}

// applyDefaults fills values with no environment fallback. Region is left
// empty on purpose: the CLI resolves it as flag > file > environment >
// DefaultRegion, so defaulting it here would shadow the environment.
func (c *DeployConfig) applyDefaults() {
	if c.InstanceType == "" {
		c.InstanceType = DefaultInstanceType
	}
}

// Find looks for a deploy file starting in dir and walking up toward the
// filesystem root. Checks: skiff.yaml, skiff.yml, .skiff.yaml, .skiff.yml.
// Returns "" when no file exists anywhere up the tree; a missing deploy
// file is not an error.
func Find(dir string) (string, error) {
	names := []string{
		"skiff.yaml",
		"skiff.yml",
		".skiff.yaml",
		".skiff.yml",
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
