// Package launcher verifies a LitSift package and delegates to the bundled
// application. The sequence is fixed: check the entry script, check the
// bundled runtime, build the child environment, spawn the runtime with the
// entry script and block until it exits. Every step takes the resolved
// layout and the log handle explicitly; the package keeps no state of its
// own.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strconv"
	"strings"

	env "LitSift/pkg"
	"LitSift/pkg/launchlog"
)

// Packaging errors. Both are terminal: a missing entry script or runtime
// bundle cannot be repaired by retrying, only by fixing the package.
var (
	ErrEntryScriptMissing = errors.New("entry script not found")
	ErrRuntimeMissing     = errors.New("runtime not found")
)

// ChildExitError reports that the application process terminated with a
// non-zero code. The code is opaque to the launcher and surfaced verbatim.
type ChildExitError struct {
	Code int
}

func (e *ChildExitError) Error() string {
	return fmt.Sprintf("application exited with code %d", e.Code)
}

// ExitCode returns the child's code so the launcher can terminate with it.
func (e *ChildExitError) ExitCode() int {
	return e.Code
}

// Options adjust a single launch.
type Options struct {
	// Port is handed to the application as FLASK_PORT. Zero means the
	// variable is not set.
	Port int

	// EntryArgs are appended after the entry script on the command line.
	EntryArgs []string

	// Vars are extra variables for the child environment, typically the
	// model service settings.
	Vars map[string]string

	// PathPrepend is a directory placed in front of the child's PATH.
	PathPrepend string
}

// A Launch is a fully prepared application invocation. Both preconditions
// have been verified and the child environment is complete.
type Launch struct {
	RuntimeExe  string
	EntryScript string
	Dir         string
	LibraryPath string
	Args        []string
	Env         []string
}

// Prepare verifies the package preconditions and builds the child
// environment. The entry script is checked first, then the runtime
// executable; each failure is logged once and returned as a wrapped
// sentinel. On success the returned Launch carries everything Run needs.
func Prepare(layout env.Layout, opts Options, log *launchlog.Log) (Launch, error) {
	if !fileExists(layout.EntryScript) {
		log.Errorf("entry script not found: %s", layout.EntryScript)
		return Launch{}, fmt.Errorf("%w at %s", ErrEntryScriptMissing, layout.EntryScript)
	}

	if !fileExists(layout.RuntimeExe) {
		log.Errorf("runtime not found: %s", layout.RuntimeExe)
		return Launch{}, fmt.Errorf("%w at %s", ErrRuntimeMissing, layout.RuntimeExe)
	}

	// The child environment is built from the launcher's own and never
	// written back to it.
	environ := setVar(os.Environ(), "PYTHONPATH", layout.SitePackages)
	environ = setVar(environ, "PROJECT_DIR", layout.Root)
	if opts.Port > 0 {
		environ = setVar(environ, "FLASK_PORT", strconv.Itoa(opts.Port))
	}
	for _, key := range sortedKeys(opts.Vars) {
		environ = setVar(environ, key, opts.Vars[key])
	}
	if opts.PathPrepend != "" {
		environ = prependPath(environ, opts.PathPrepend)
	}

	log.Infof("PYTHONPATH set to %s", layout.SitePackages)

	return Launch{
		RuntimeExe:  layout.RuntimeExe,
		EntryScript: layout.EntryScript,
		Dir:         layout.Root,
		LibraryPath: layout.SitePackages,
		Args:        opts.EntryArgs,
		Env:         environ,
	}, nil
}

// Runner executes the prepared application command. It exists so tests can
// observe the spawn without running a real interpreter.
type Runner func(*exec.Cmd) error

// ConsoleRunner attaches the child to the launcher's own standard streams,
// so the application's console output stays visible.
func ConsoleRunner(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Run spawns the runtime with the entry script and blocks until the child
// terminates. There is no timeout and no signal interception; the launcher
// waits as long as the application runs. A non-zero child exit comes back
// as *ChildExitError carrying the code.
func Run(l Launch, runner Runner, log *launchlog.Log) error {
	log.Infof("starting application: %s %s", l.RuntimeExe, l.EntryScript)

	args := append([]string{l.EntryScript}, l.Args...)
	cmd := exec.Command(l.RuntimeExe, args...)
	cmd.Dir = l.Dir
	cmd.Env = l.Env

	err := runner(cmd)
	if err == nil {
		log.Infof("application exited cleanly")
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		log.Errorf("application exited with code %d", code)
		return &ChildExitError{Code: code}
	}

	log.Errorf("failed to start application: %v", err)
	return fmt.Errorf("start application: %w", err)
}

// setVar sets key in environ, replacing an existing entry or appending.
func setVar(environ []string, key, value string) []string {
	prefix := key + "="
	for i, entry := range environ {
		if envKeyEquals(entry, key) {
			environ[i] = prefix + value
			return environ
		}
	}
	return append(environ, prefix+value)
}

// prependPath puts dir in front of the PATH entry, keeping the rest.
func prependPath(environ []string, dir string) []string {
	for i, entry := range environ {
		if envKeyEquals(entry, "PATH") {
			_, old, _ := strings.Cut(entry, "=")
			environ[i] = "PATH=" + dir + string(os.PathListSeparator) + old
			return environ
		}
	}
	return append(environ, "PATH="+dir)
}

// envKeyEquals matches an environ entry against a variable name. Windows
// environment names are case-insensitive.
func envKeyEquals(entry, key string) bool {
	name, _, ok := strings.Cut(entry, "=")
	if !ok {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(name, key)
	}
	return name == key
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
