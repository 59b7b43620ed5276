package launchlog_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"LitSift/pkg/launchlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[(INFO|WARNING|ERROR)\] .+$`)

func TestLogLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.log")

	log, err := launchlog.Open(path)
	require.NoError(t, err)
	log.Infof("starting application: %s", "python app.py")
	log.Warnf("model service not installed")
	log.Errorf("application exited with code %d", 3)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
	assert.Contains(t, lines[0], "[INFO] starting application: python app.py")
	assert.Contains(t, lines[1], "[WARNING] model service not installed")
	assert.Contains(t, lines[2], "[ERROR] application exited with code 3")
}

func TestLogAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.log")

	first, err := launchlog.Open(path)
	require.NoError(t, err)
	first.Infof("first run")
	require.NoError(t, first.Close())

	second, err := launchlog.Open(path)
	require.NoError(t, err)
	second.Infof("second run")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "first run")
	assert.Contains(t, content, "second run")
	assert.Less(t, strings.Index(content, "first run"), strings.Index(content, "second run"))
}

func TestNilLogDropsWrites(t *testing.T) {
	var log *launchlog.Log
	log.Infof("dropped")
	log.Warnf("dropped")
	log.Errorf("dropped")
	assert.NoError(t, log.Close())
}

func TestOpenUnwritablePath(t *testing.T) {
	_, err := launchlog.Open(filepath.Join(t.TempDir(), "missing", "launcher.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
}
