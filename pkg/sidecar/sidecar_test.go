package sidecar

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServiceArchive(t *testing.T, path string, names []string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func testManager(t *testing.T, archiveNames []string) *Manager {
	t.Helper()

	tmp := t.TempDir()
	archive := filepath.Join(tmp, "ollama-bundle.zip")
	writeServiceArchive(t, archive, archiveNames)

	dir := filepath.Join(tmp, "ollama")
	return &Manager{
		Dir:     dir,
		Exe:     filepath.Join(dir, "ollama"),
		Archive: archive,
		Models:  filepath.Join(dir, "models"),
		Host:    "http://localhost:11434",
	}
}

func TestInstallFlattensArchiveRoot(t *testing.T) {
	m := testManager(t, []string{
		"ollama-linux-amd64/ollama",
		"ollama-linux-amd64/lib/libggml.so",
	})

	require.False(t, m.Installed())
	require.True(t, m.ArchiveBundled())

	var calls int
	require.NoError(t, m.Install(func(done, total int) {
		calls++
		assert.Equal(t, 2, total)
	}))

	assert.True(t, m.Installed())
	assert.FileExists(t, filepath.Join(m.Dir, "lib", "libggml.so"))
	assert.Equal(t, 2, calls)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(m.Exe)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0111)
	}
}

func TestInstallPayloadAtRoot(t *testing.T) {
	m := testManager(t, []string{"ollama", "LICENSE.txt"})

	require.NoError(t, m.Install(nil))
	assert.True(t, m.Installed())
	assert.FileExists(t, filepath.Join(m.Dir, "LICENSE.txt"))
}

func TestInstallMissingBinary(t *testing.T) {
	m := testManager(t, []string{"docs/readme.txt"})

	err := m.Install(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not contain the service binary")
}

func TestVars(t *testing.T) {
	m := testManager(t, []string{"ollama"})

	assert.Equal(t, map[string]string{
		"OLLAMA_HOST":   "http://localhost:11434",
		"OLLAMA_MODELS": m.Models,
	}, m.Vars())
}

func TestCommonRoot(t *testing.T) {
	files := func(names ...string) []*zip.File {
		out := make([]*zip.File, len(names))
		for i, name := range names {
			out[i] = &zip.File{FileHeader: zip.FileHeader{Name: name}}
		}
		return out
	}

	assert.Equal(t, "bundle/", commonRoot(files("bundle/ollama", "bundle/lib/a.so")))
	assert.Equal(t, "", commonRoot(files("bundle/ollama", "other/lib.so")))
	assert.Equal(t, "", commonRoot(files("ollama", "bundle/lib.so")))
	assert.Equal(t, "", commonRoot(nil))
}

func TestPortFromHost(t *testing.T) {
	m := &Manager{Host: "http://localhost:11434"}
	assert.Equal(t, "11434", m.port())

	m.Host = "http://127.0.0.1:9999"
	assert.Equal(t, "9999", m.port())

	m.Host = "http://localhost"
	assert.Equal(t, "11434", m.port())
}

func TestTagsURL(t *testing.T) {
	m := &Manager{Host: "http://localhost:11434/"}
	assert.Equal(t, "http://localhost:11434/api/tags", m.tagsURL())

	m.Host = "http://localhost:11434"
	assert.Equal(t, "http://localhost:11434/api/tags", m.tagsURL())
}

func TestPrependPath(t *testing.T) {
	environ := prependPath([]string{"HOME=/root", "PATH=/usr/bin"}, "/opt/ollama")
	assert.Contains(t, environ, "PATH=/opt/ollama"+string(os.PathListSeparator)+"/usr/bin")

	environ = prependPath([]string{"HOME=/root"}, "/opt/ollama")
	assert.Contains(t, environ, "PATH=/opt/ollama")
}

func TestIsExecutable(t *testing.T) {
	assert.True(t, isExecutable("ollama"))
	assert.True(t, isExecutable("ollama.exe"))
	assert.False(t, isExecutable("lib/libggml.so"))
	assert.False(t, isExecutable("README.txt"))
}

func TestInstalledModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"qwen3:4b","size":2620000000}]}`)
	}))
	defer srv.Close()

	m := &Manager{Host: srv.URL}
	tags, err := m.InstalledModels(t.TempDir())
	require.NoError(t, err)
	require.Len(t, tags.Models, 1)
	assert.Equal(t, "qwen3:4b", tags.Models[0].Name)
	assert.Equal(t, int64(2620000000), tags.Models[0].Size)
}

func TestVersionProbesBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	exe := filepath.Join(dir, "ollama")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\necho ollama version is 0.5.4\n"), 0755))

	m := &Manager{Exe: exe}
	version, err := m.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ollama version is 0.5.4", version)
}

func TestStartAndStop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	tmp := t.TempDir()
	dir := filepath.Join(tmp, "ollama")
	require.NoError(t, os.MkdirAll(dir, 0755))
	exe := filepath.Join(dir, "ollama")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nsleep 30\n"), 0755))

	m := &Manager{
		Dir:    dir,
		Exe:    exe,
		Models: filepath.Join(dir, "models"),
		Host:   "http://localhost:11434",
	}

	p, err := m.Start()
	require.NoError(t, err)
	assert.DirExists(t, m.Models)
	assert.NoError(t, p.Stop(2*time.Second))
}

func TestStopNilProcess(t *testing.T) {
	var p *Process
	assert.NoError(t, p.Stop(time.Second))
	assert.NoError(t, (&Process{}).Stop(time.Second))
}
