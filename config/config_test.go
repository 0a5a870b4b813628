package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camresh/emfs/internal/util"
)

func createDefaultCfg() *Config {
	return &Config{
		LogLvl:      util.InfoLevel,
		MaxFileSize: DefaultMaxFileSize,
		ExecTimeout: DefaultExecTimeout,
		ExecDir:     "",
		KeepStaged:  DefaultKeepStaged,
	}
}

// TestNewConfig_WithNilOverride tests that NewConfig creates a config with all
// default values when no override is provided.
func TestNewConfig_WithNilOverride(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(nil)

	require.NotNil(t, cfg)
	assert.Equal(t, createDefaultCfg(), cfg, "must use default values when no config provided")
}

func TestNewConfig_WithAllOverride(t *testing.T) {
	t.Parallel()

	override := &ConfigOverride{
		LogLvl:      util.Pointer(TraceVerbose),
		MaxFileSize: util.Pointer(16 * MB),
		ExecTimeout: util.Pointer(2.5),
		ExecDir:     util.Pointer("/var/tmp/emfs"),
		KeepStaged:  util.Pointer(true),
	}

	cfg := NewConfig(override)

	expCfg := &Config{
		LogLvl:      util.TraceLevel,
		MaxFileSize: 16 * MB,
		ExecTimeout: 2.5,
		ExecDir:     "/var/tmp/emfs",
		KeepStaged:  true,
	}
	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override all provided fields")
}

func TestConfig_Merge_LogLvlConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		verboseValue  int
		expectedLevel util.LogLevel
	}{
		{"verbose_1_error", 1, util.ErrorLevel},
		{"verbose_2_warn", 2, util.WarnLevel},
		{"verbose_3_info", 3, util.InfoLevel},
		{"verbose_4_debug", 4, util.DebugLevel},
		{"verbose_5_trace", 5, util.TraceLevel},
		{"verbose_0_clamped_to_1", 0, util.ErrorLevel},
		{"verbose_100_clamped_to_5", 100, util.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override := &ConfigOverride{
				LogLvl: &tt.verboseValue,
			}

			cfg := NewConfig(override)

			assert.Equal(t, tt.expectedLevel, cfg.LogLvl,
				"verbose %d should map to util.LogLevel %v", tt.verboseValue, tt.expectedLevel)
		})
	}
}

func TestConfig_Merge_PartialOverride(t *testing.T) {
	t.Parallel()

	override := &ConfigOverride{
		MaxFileSize: util.Pointer(4 * MB),
	}
	cfg := NewConfig(override)

	expCfg := createDefaultCfg()
	expCfg.MaxFileSize = 4 * MB

	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override provided fields and leave rest default")
}

func TestLoadConfigOverrideFile_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("verbose: 4\nmax_file_size: 1024\nkeep_staged: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	override, err := LoadConfigOverrideFile(path)

	require.NoError(t, err)
	require.NotNil(t, override.LogLvl)
	assert.Equal(t, 4, *override.LogLvl)
	require.NotNil(t, override.MaxFileSize)
	assert.Equal(t, 1024, *override.MaxFileSize)
	require.NotNil(t, override.KeepStaged)
	assert.True(t, *override.KeepStaged)
	assert.Nil(t, override.ExecTimeout, "unset fields stay nil")
}

func TestLoadConfigOverrideFile_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"exec_timeout": 1.5, "exec_dir": "/stage"}`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	override, err := LoadConfigOverrideFile(path)

	require.NoError(t, err)
	require.NotNil(t, override.ExecTimeout)
	assert.Equal(t, 1.5, *override.ExecTimeout)
	require.NotNil(t, override.ExecDir)
	assert.Equal(t, "/stage", *override.ExecDir)
}

func TestLoadConfigOverrideFile_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("verbose = 4"), 0o644))

	_, err := LoadConfigOverrideFile(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config file extension")
}

func TestLoadConfigOverrideFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigOverrideFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestNewConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_size: 2048\n"), 0o644))

	cfg, err := NewConfigFromFile(path)

	require.NoError(t, err)
	expCfg := createDefaultCfg()
	expCfg.MaxFileSize = 2048
	assert.Equal(t, expCfg, cfg)
}
