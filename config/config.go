package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/camresh/emfs/internal/util"
)

// Bytes per MB
const MB = 1024 * 1024

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultMaxFileSize is the per-file content limit in bytes; 0 disables
	// the limit
	DefaultMaxFileSize = 0

	// DefaultExecTimeout is the executor run timeout in seconds; 0 disables
	// the timeout
	DefaultExecTimeout = 0.0

	// DefaultKeepStaged keeps executor staging directories around after a
	// run when true (debugging aid)
	DefaultKeepStaged = false
)

// Verbosity values accepted from embedders, mapped onto internal log levels.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the memory file system.
type Config struct {
	LogLvl      util.LogLevel // Internal log level derived from the verbosity override (Default info)
	MaxFileSize int           // Per-file content limit in bytes; 0 means unlimited (Default 0)
	ExecTimeout float64       // Executor run timeout in seconds; 0 means no timeout (Default 0)
	ExecDir     string        // Directory executor stages files under; empty means the OS temp dir (Default "")
	KeepStaged  bool          // Whether executor staging directories survive the run (Default false)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions. LogLvl is the embedder-facing verbosity (1 error .. 5 trace).
type ConfigOverride struct {
	LogLvl      *int     `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	MaxFileSize *int     `yaml:"max_file_size,omitempty" json:"max_file_size,omitempty"`
	ExecTimeout *float64 `yaml:"exec_timeout,omitempty" json:"exec_timeout,omitempty"`
	ExecDir     *string  `yaml:"exec_dir,omitempty" json:"exec_dir,omitempty"`
	KeepStaged  *bool    `yaml:"keep_staged,omitempty" json:"keep_staged,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:      util.InfoLevel,
		MaxFileSize: DefaultMaxFileSize,
		ExecTimeout: DefaultExecTimeout,
		ExecDir:     "",
		KeepStaged:  DefaultKeepStaged,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields the defaults unchanged.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = verboseToLevel(*override.LogLvl)
	}
	if override.MaxFileSize != nil {
		c.MaxFileSize = *override.MaxFileSize
	}
	if override.ExecTimeout != nil {
		c.ExecTimeout = *override.ExecTimeout
	}
	if override.ExecDir != nil {
		c.ExecDir = *override.ExecDir
	}
	if override.KeepStaged != nil {
		c.KeepStaged = *override.KeepStaged
	}
}

// verboseToLevel clamps an embedder verbosity (1-5) onto util log levels.
func verboseToLevel(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	lvls := [...]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-ErrorVerbose]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
