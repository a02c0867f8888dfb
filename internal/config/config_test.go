package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/ninox/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ninox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []uint16{161, 162}, cfg.Inspector.Ports)
	assert.Equal(t, 16, cfg.Inspector.MaxProbeDepth)
	assert.Equal(t, 5*time.Minute, cfg.Inspector.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
inspector:
  ports: [10161, 10162]
  session_ttl: 90s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []uint16{10161, 10162}, cfg.Inspector.Ports)
	assert.Equal(t, 90*time.Second, cfg.Inspector.SessionTTL)
	// Unspecified keys fall back to defaults.
	assert.Equal(t, 16, cfg.Inspector.MaxProbeDepth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty ports", "inspector:\n  ports: []\n"},
		{"zero probe depth", "inspector:\n  max_probe_depth: 0\n"},
		{"negative session ttl", "inspector:\n  session_ttl: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConfigInvalid)
		})
	}
}
