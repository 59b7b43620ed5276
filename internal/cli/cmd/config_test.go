package cmd

import (
	"path/filepath"
	"testing"

	env "LitSift/pkg"
	"LitSift/pkg/launcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on"} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "off", "maybe", ""} {
		assert.False(t, parseBool(s), s)
	}
}

func TestSetLaunchValuesWritesConfig(t *testing.T) {
	layout := env.Layout{ConfigFile: filepath.Join(t.TempDir(), "launcher.toml")}

	cfg := launcher.DefaultConfig()
	require.NoError(t, setLaunchValues(cfg, layout, []string{"open_browser=false", "sidecar.host=http://localhost:9999"}))

	got, err := launcher.ReadConfig(layout.ConfigFile)
	require.NoError(t, err)
	assert.False(t, got.OpenBrowser)
	assert.Equal(t, "http://localhost:9999", got.Sidecar.Host)
}

func TestSetLaunchValuesRejectsBadPair(t *testing.T) {
	layout := env.Layout{ConfigFile: filepath.Join(t.TempDir(), "launcher.toml")}

	err := setLaunchValues(launcher.DefaultConfig(), layout, []string{"open_browser"})
	require.Error(t, err)
}

func TestSetLaunchValuesRejectsInvalidRange(t *testing.T) {
	layout := env.Layout{ConfigFile: filepath.Join(t.TempDir(), "launcher.toml")}

	err := setLaunchValues(launcher.DefaultConfig(), layout, []string{"port_range.start=90", "port_range.end=10"})
	require.Error(t, err)
	assert.NoFileExists(t, layout.ConfigFile)
}

func TestSetLaunchValuesRejectsNonNumericPort(t *testing.T) {
	layout := env.Layout{ConfigFile: filepath.Join(t.TempDir(), "launcher.toml")}

	err := setLaunchValues(launcher.DefaultConfig(), layout, []string{"port_range.start=many"})
	require.Error(t, err)
}
