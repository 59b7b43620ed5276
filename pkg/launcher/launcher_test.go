package launcher_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	env "LitSift/pkg"
	"LitSift/pkg/launcher"
	"LitSift/pkg/launchlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPackage lays out a minimal application package and returns its layout.
func newPackage(t *testing.T, withEntry, withRuntime bool) env.Layout {
	t.Helper()

	root := t.TempDir()
	if withEntry {
		require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("print('ok')\n"), 0644))
	}
	if withRuntime {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "python"), 0755))
		exe := filepath.Join(root, "python", "python"+env.ExeSuffix())
		require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	}

	layout, err := env.Resolve(root)
	require.NoError(t, err)
	return layout
}

func openLog(t *testing.T, layout env.Layout) *launchlog.Log {
	t.Helper()

	log, err := launchlog.Open(layout.LogFile)
	require.NoError(t, err)
	return log
}

func readLog(t *testing.T, layout env.Layout) string {
	t.Helper()

	data, err := os.ReadFile(layout.LogFile)
	require.NoError(t, err)
	return string(data)
}

func TestPrepareMissingEntryScript(t *testing.T) {
	layout := newPackage(t, false, true)
	log := openLog(t, layout)

	_, err := launcher.Prepare(layout, launcher.Options{}, log)
	require.NoError(t, log.Close())

	require.Error(t, err)
	assert.ErrorIs(t, err, launcher.ErrEntryScriptMissing)
	assert.Contains(t, err.Error(), layout.EntryScript)

	content := readLog(t, layout)
	assert.Contains(t, content, "[ERROR] entry script not found: "+layout.EntryScript)
	assert.Equal(t, 1, strings.Count(content, "[ERROR]"))
	assert.NotContains(t, content, "starting application")
}

func TestPrepareMissingRuntime(t *testing.T) {
	layout := newPackage(t, true, false)
	log := openLog(t, layout)

	_, err := launcher.Prepare(layout, launcher.Options{}, log)
	require.NoError(t, log.Close())

	require.Error(t, err)
	assert.ErrorIs(t, err, launcher.ErrRuntimeMissing)
	assert.Contains(t, err.Error(), layout.RuntimeExe)

	content := readLog(t, layout)
	assert.Contains(t, content, "[ERROR] runtime not found: "+layout.RuntimeExe)
	assert.Equal(t, 1, strings.Count(content, "[ERROR]"))
	assert.NotContains(t, content, "starting application")
}

func TestPrepareChecksEntryScriptFirst(t *testing.T) {
	layout := newPackage(t, false, false)

	_, err := launcher.Prepare(layout, launcher.Options{}, nil)
	assert.ErrorIs(t, err, launcher.ErrEntryScriptMissing)
}

func TestPrepareBuildsChildEnvironment(t *testing.T) {
	layout := newPackage(t, true, true)

	launch, err := launcher.Prepare(layout, launcher.Options{
		Port:      5005,
		EntryArgs: []string{"--debug"},
		Vars:      map[string]string{"OLLAMA_HOST": "http://localhost:11434"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, layout.RuntimeExe, launch.RuntimeExe)
	assert.Equal(t, layout.EntryScript, launch.EntryScript)
	assert.Equal(t, layout.Root, launch.Dir)
	assert.Equal(t, layout.SitePackages, launch.LibraryPath)
	assert.Equal(t, []string{"--debug"}, launch.Args)
	assert.Contains(t, launch.Env, "PYTHONPATH="+layout.SitePackages)
	assert.Contains(t, launch.Env, "PROJECT_DIR="+layout.Root)
	assert.Contains(t, launch.Env, "FLASK_PORT=5005")
	assert.Contains(t, launch.Env, "OLLAMA_HOST=http://localhost:11434")
}

func TestPrepareReplacesInheritedVariable(t *testing.T) {
	t.Setenv("PYTHONPATH", "/somewhere/else")
	layout := newPackage(t, true, true)

	launch, err := launcher.Prepare(layout, launcher.Options{}, nil)
	require.NoError(t, err)

	count := 0
	for _, entry := range launch.Env {
		if strings.HasPrefix(entry, "PYTHONPATH=") {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, launch.Env, "PYTHONPATH="+layout.SitePackages)
	assert.NotContains(t, launch.Env, "PYTHONPATH=/somewhere/else")
}

func TestPrepareDoesNotTouchLauncherEnvironment(t *testing.T) {
	layout := newPackage(t, true, true)

	_, err := launcher.Prepare(layout, launcher.Options{Port: 5005}, nil)
	require.NoError(t, err)

	assert.Empty(t, os.Getenv("FLASK_PORT"))
	assert.NotEqual(t, layout.SitePackages, os.Getenv("PYTHONPATH"))
}

func TestPrepareZeroPortLeavesVariableUnset(t *testing.T) {
	layout := newPackage(t, true, true)

	launch, err := launcher.Prepare(layout, launcher.Options{}, nil)
	require.NoError(t, err)

	for _, entry := range launch.Env {
		assert.False(t, strings.HasPrefix(entry, "FLASK_PORT="), "unexpected %s", entry)
	}
}

func TestPreparePathPrepend(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	layout := newPackage(t, true, true)

	launch, err := launcher.Prepare(layout, launcher.Options{PathPrepend: "/opt/svc"}, nil)
	require.NoError(t, err)

	assert.Contains(t, launch.Env, "PATH=/opt/svc"+string(os.PathListSeparator)+"/usr/bin")
}

func TestRunHandsPreparedCommandToRunner(t *testing.T) {
	layout := newPackage(t, true, true)

	launch, err := launcher.Prepare(layout, launcher.Options{EntryArgs: []string{"--debug"}}, nil)
	require.NoError(t, err)

	var got *exec.Cmd
	runner := func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	}

	require.NoError(t, launcher.Run(launch, runner, nil))
	require.NotNil(t, got)
	assert.Equal(t, []string{layout.RuntimeExe, layout.EntryScript, "--debug"}, got.Args)
	assert.Equal(t, layout.Root, got.Dir)
	assert.Equal(t, launch.Env, got.Env)
}

func TestRunPropagatesChildExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	log, err := launchlog.Open(filepath.Join(dir, "launcher.log"))
	require.NoError(t, err)
	defer log.Close()

	launch := launcher.Launch{
		RuntimeExe:  "/bin/sh",
		EntryScript: "-c",
		Dir:         dir,
		Args:        []string{"exit 3"},
		Env:         os.Environ(),
	}

	err = launcher.Run(launch, launcher.ConsoleRunner, log)
	require.Error(t, err)

	var childErr *launcher.ChildExitError
	require.ErrorAs(t, err, &childErr)
	assert.Equal(t, 3, childErr.Code)
	assert.Equal(t, 3, childErr.ExitCode())
	assert.Contains(t, err.Error(), "exited with code 3")
}

func TestRunCleanExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	logPath := filepath.Join(dir, "launcher.log")
	log, err := launchlog.Open(logPath)
	require.NoError(t, err)

	launch := launcher.Launch{
		RuntimeExe:  "/bin/sh",
		EntryScript: "-c",
		Dir:         dir,
		Args:        []string{"exit 0"},
		Env:         os.Environ(),
	}

	require.NoError(t, launcher.Run(launch, launcher.ConsoleRunner, log))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] starting application: /bin/sh -c")
	assert.Contains(t, string(data), "[INFO] application exited cleanly")
}

func TestRunReportsStartFailure(t *testing.T) {
	dir := t.TempDir()
	launch := launcher.Launch{
		RuntimeExe:  filepath.Join(dir, "missing"),
		EntryScript: "app.py",
		Dir:         dir,
		Env:         os.Environ(),
	}

	err := launcher.Run(launch, launcher.ConsoleRunner, nil)
	require.Error(t, err)

	var childErr *launcher.ChildExitError
	assert.False(t, errors.As(err, &childErr))
	assert.Contains(t, err.Error(), "start application")
}
