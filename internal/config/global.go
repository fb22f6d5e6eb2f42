// Package config handles the devboot global configuration file.
//
// ~/.devboot/config.yaml lets a user override the registry's fixed defaults
// (project id, region, candidate paths) without editing the embedded
// registry. devboot keeps no other private state: everything durable lives in
// the external tools' own config files.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/superclaud/devboot/internal/tool"
)

// GlobalConfig holds settings from ~/.devboot/config.yaml.
type GlobalConfig struct {
	Tools map[string]ToolOverride `yaml:"tools,omitempty"`
	Debug DebugConfig             `yaml:"debug,omitempty"`
}

// ToolOverride customizes one registry tool.
type ToolOverride struct {
	// Paths are extra candidate paths, probed before the registry's own.
	Paths []string `yaml:"paths,omitempty"`
	// Values override or extend the registry's default config values.
	Values map[string]string `yaml:"values,omitempty"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// DefaultGlobalConfig returns the default global configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Debug: DebugConfig{RetentionDays: 14},
	}
}

// LoadGlobal reads ~/.devboot/config.yaml and applies environment overrides.
// A missing or malformed file falls back to defaults.
func LoadGlobal() (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	if data, err := os.ReadFile(filepath.Join(GlobalConfigDir(), "config.yaml")); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	}

	if days := os.Getenv("DEVBOOT_DEBUG_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			cfg.Debug.RetentionDays = n
		}
	}
	// DEVBOOT_PROJECT overrides the cloud project id for one-off runs
	// against a different project.
	if project := os.Getenv("DEVBOOT_PROJECT"); project != "" {
		cfg.setToolValue("google-cloud-sdk", "core/project", project)
	}

	return cfg, nil
}

func (c *GlobalConfig) setToolValue(toolName, key, value string) {
	if c.Tools == nil {
		c.Tools = make(map[string]ToolOverride)
	}
	ov := c.Tools[toolName]
	if ov.Values == nil {
		ov.Values = make(map[string]string)
	}
	ov.Values[key] = value
	c.Tools[toolName] = ov
}

// ValuesFor merges the registry defaults for a tool with the user's
// overrides. Overrides win key by key.
func (c *GlobalConfig) ValuesFor(spec tool.Spec) map[string]string {
	values := spec.ConfigValues()
	if ov, ok := c.Tools[spec.Name]; ok {
		for k, v := range ov.Values {
			values[k] = v
		}
	}
	return values
}

// PathsFor returns the user's extra candidate paths for a tool.
func (c *GlobalConfig) PathsFor(toolName string) []string {
	if ov, ok := c.Tools[toolName]; ok {
		return ov.Paths
	}
	return nil
}

// GlobalConfigDir returns the path to ~/.devboot.
func GlobalConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".devboot")
	}
	return filepath.Join(homeDir, ".devboot")
}

// DebugDir returns the directory for debug log files.
func DebugDir() string {
	return filepath.Join(GlobalConfigDir(), "debug")
}
