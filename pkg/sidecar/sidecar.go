// Package sidecar manages the bundled Ollama service that serves local
// models to the application. The launcher installs it from the archive
// shipped in the package, starts it before the app, and stops it after the
// app exits. A missing sidecar is never fatal; the app degrades to remote
// models.
package sidecar

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"LitSift/internal/network"
	env "LitSift/pkg"
)

// Manager locates and controls the model service inside a project root.
type Manager struct {
	Dir     string // service directory inside the project root
	Exe     string
	Archive string // bundled install archive for this platform
	Models  string // model store handed to the service via OLLAMA_MODELS
	Host    string // address the app reaches the service on
}

// New builds a manager for the resolved layout.
func New(layout env.Layout, host string) *Manager {
	return &Manager{
		Dir:     layout.SidecarDir,
		Exe:     layout.SidecarExe,
		Archive: layout.SidecarArchive,
		Models:  layout.SidecarModels,
		Host:    host,
	}
}

// Installed reports whether the service binary is present.
func (m *Manager) Installed() bool {
	return fileExists(m.Exe)
}

// ArchiveBundled reports whether the install archive ships in the package.
func (m *Manager) ArchiveBundled() bool {
	return fileExists(m.Archive)
}

// Version probes the binary with --version, bounded to five seconds.
func (m *Manager) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, m.Exe, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("probe service version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Install unpacks the bundled archive into the service directory. Archives
// that wrap their payload in a single top-level directory are flattened so
// the binary lands directly in the service directory. progress is called
// once per archive entry.
func (m *Manager) Install(progress func(done, total int)) error {
	reader, err := zip.OpenReader(m.Archive)
	if err != nil {
		return fmt.Errorf("open service archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return fmt.Errorf("create service directory: %w", err)
	}

	root := commonRoot(reader.File)
	for i, file := range reader.File {
		name := strings.TrimPrefix(file.Name, root)
		if name == "" {
			continue
		}

		path := filepath.Join(m.Dir, name)
		if !strings.HasPrefix(path, filepath.Clean(m.Dir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes service directory: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			os.MkdirAll(path, file.Mode())
			if progress != nil {
				progress(i+1, len(reader.File))
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}

		outFile, err := os.Create(path)
		if err != nil {
			return err
		}

		rc, err := file.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}

		if isExecutable(name) {
			os.Chmod(path, 0755)
		}

		if progress != nil {
			progress(i+1, len(reader.File))
		}
	}

	if !m.Installed() {
		return fmt.Errorf("archive did not contain the service binary %s", filepath.Base(m.Exe))
	}
	return nil
}

// Vars returns the environment variables the application needs to reach the
// managed service.
func (m *Manager) Vars() map[string]string {
	return map[string]string{
		"OLLAMA_HOST":   m.Host,
		"OLLAMA_MODELS": m.Models,
	}
}

// Start launches the service detached from the console and returns its
// handle. The model store directory is created if missing.
func (m *Manager) Start() (*Process, error) {
	if err := os.MkdirAll(m.Models, 0755); err != nil {
		return nil, fmt.Errorf("create model store: %w", err)
	}

	cmd := exec.Command(m.Exe, "serve")
	cmd.Dir = m.Dir

	environ := os.Environ()
	for key, value := range m.Vars() {
		environ = append(environ, key+"="+value)
	}
	cmd.Env = prependPath(environ, m.Dir)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return &Process{cmd: cmd}, nil
}

// WaitReady polls the service port every half second until it accepts a
// connection or the timeout passes.
func (m *Manager) WaitReady(timeout time.Duration) bool {
	addr := net.JoinHostPort("127.0.0.1", m.port())
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// KillStale terminates service processes left over from earlier runs, so
// the managed instance owns the port. Errors are ignored; usually there is
// nothing to kill.
func (m *Manager) KillStale() {
	name := filepath.Base(m.Exe)
	if runtime.GOOS == "windows" {
		exec.Command("taskkill", "/F", "/IM", name, "/T").Run()
		// taskkill returns before the process fully releases the port.
		time.Sleep(2 * time.Second)
		return
	}
	exec.Command("pkill", "-f", strings.TrimSuffix(name, env.ExeSuffix())).Run()
}

// InstalledModels fetches the service's tag list. The response is cached
// under cacheDir so the last known inventory stays available while the
// service is down.
func (m *Manager) InstalledModels(cacheDir string) (TagsResponse, error) {
	cache := network.Cache[TagsResponse]{
		Path:        filepath.Join(cacheDir, "sidecar", "tags.json"),
		URL:         m.tagsURL(),
		AlwaysFetch: true,
	}

	var tags TagsResponse
	if err := cache.Get(&tags); err != nil {
		return TagsResponse{}, err
	}
	return tags, nil
}

// TagsResponse is the service's /api/tags payload.
type TagsResponse struct {
	Models []Model `json:"models"`
}

// Model is one installed model as the service reports it.
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Details    struct {
		Family        string `json:"family"`
		ParameterSize string `json:"parameter_size"`
	} `json:"details"`
}

func (m *Manager) tagsURL() string {
	return strings.TrimSuffix(m.Host, "/") + "/api/tags"
}

// port extracts the service port from the host address.
func (m *Manager) port() string {
	if u, err := url.Parse(m.Host); err == nil && u.Port() != "" {
		return u.Port()
	}
	return "11434"
}

// Process is the handle for a service the launcher started.
type Process struct {
	cmd *exec.Cmd
}

// Stop asks the service to exit and escalates to a kill after the grace
// period. Safe to call on a nil handle.
func (p *Process) Stop(grace time.Duration) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- p.cmd.Wait()
	}()

	p.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-done:
		return nil
	case <-time.After(grace):
		if err := p.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("kill service: %w", err)
		}
		<-done
		return nil
	}
}

// commonRoot returns the single top-level directory shared by every archive
// entry, or "" when the payload sits at the archive root.
func commonRoot(files []*zip.File) string {
	root := ""
	for _, file := range files {
		top, _, found := strings.Cut(file.Name, "/")
		if !found {
			return ""
		}
		if root == "" {
			root = top
			continue
		}
		if top != root {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}

// prependPath puts dir in front of the PATH entry, keeping the rest.
func prependPath(environ []string, dir string) []string {
	for i, entry := range environ {
		name, old, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		match := name == "PATH"
		if runtime.GOOS == "windows" {
			match = strings.EqualFold(name, "PATH")
		}
		if match {
			environ[i] = name + "=" + dir + string(os.PathListSeparator) + old
			return environ
		}
	}
	return append(environ, "PATH="+dir)
}

// isExecutable reports whether an archive entry should carry the executable
// bit after extraction.
func isExecutable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == "" || ext == ".exe"
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
