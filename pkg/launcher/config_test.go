package launcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"LitSift/pkg/launcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := launcher.ReadConfig(filepath.Join(t.TempDir(), "launcher.toml"))
	require.NoError(t, err)

	assert.Equal(t, launcher.DefaultConfig(), cfg)
	assert.Equal(t, 5001, cfg.PortRange.Start)
	assert.Equal(t, 5100, cfg.PortRange.End)
	assert.True(t, cfg.OpenBrowser)
	assert.True(t, cfg.Sidecar.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Sidecar.Host)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.toml")

	cfg := launcher.DefaultConfig()
	cfg.PortRange.Start = 6000
	cfg.PortRange.End = 6010
	cfg.OpenBrowser = false
	cfg.EntryArgs = []string{"--debug", "--no-cache"}
	cfg.Sidecar.Enabled = false
	cfg.Sidecar.Host = "http://localhost:9999"
	require.NoError(t, cfg.WriteConfig(path))

	got, err := launcher.ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestReadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.toml")
	require.NoError(t, os.WriteFile(path, []byte("[port_range]\nstart = 6000\nend = 6010\n"), 0644))

	cfg, err := launcher.ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.PortRange.Start)
	assert.Equal(t, 6010, cfg.PortRange.End)
	assert.True(t, cfg.OpenBrowser)
	assert.True(t, cfg.Sidecar.Enabled)
}

func TestReadConfigInvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.toml")
	require.NoError(t, os.WriteFile(path, []byte("[port_range]\nstart = 6010\nend = 6000\n"), 0644))

	_, err := launcher.ReadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port range")
}

func TestReadConfigBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.toml")
	require.NoError(t, os.WriteFile(path, []byte("open_browser = [not toml"), 0644))

	_, err := launcher.ReadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse launch configuration")
}
