package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snapkit/internal/snapshot"
)

// isolateEnv clears variables that would leak from the host into Load.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, DefaultEnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := NewLoader(WithOptionalConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	mode, err := cfg.UpdateMode()
	require.NoError(t, err)
	assert.Equal(t, snapshot.ModeNew, mode)
}

func TestLoad_File(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, `
update: all
format: yaml
expand: true
serializer:
  indent: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "all", cfg.Update)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Expand)
	assert.Equal(t, 4, cfg.Serializer.Indent)
	assert.True(t, cfg.Serializer.EscapeString, "unset keys keep their defaults")
	assert.Equal(t, "__snapshots__", cfg.Dir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "update: all\n")
	t.Setenv("SNAPKIT_UPDATE", "none")
	t.Setenv("SNAPKIT_SERIALIZER__PRINT_BASIC_PROTOTYPE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Update)
	assert.True(t, cfg.Serializer.PrintBasicPrototype)
}

func TestLoad_CI(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("CIRCLECI", "true")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.True(t, cfg.CI)

	mode, err := cfg.UpdateMode()
	require.NoError(t, err)
	assert.Equal(t, snapshot.ModeNone, mode)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"mode", "update: sometimes\n", "invalid update mode"},
		{"format", "format: toml\n", "unknown serializer format"},
		{"backend", "backend: redis\n", "invalid backend"},
		{"sqlite without db", "backend: sqlite\ndatabase: \"\"\n", "requires a database path"},
		{"extension", "extension: \"\"\n", "extension must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestUpdateMode(t *testing.T) {
	tests := []struct {
		update string
		ci     bool
		want   snapshot.UpdateMode
	}{
		{"", false, snapshot.ModeNew},
		{"", true, snapshot.ModeNone},
		{"all", true, snapshot.ModeAll},
		{"new", true, snapshot.ModeNew},
		{"none", false, snapshot.ModeNone},
	}

	for _, tt := range tests {
		mode, err := Config{Update: tt.update, CI: tt.ci}.UpdateMode()
		require.NoError(t, err)
		assert.Equal(t, tt.want, mode, "update=%q ci=%v", tt.update, tt.ci)
	}
}
