// Package env resolves the on-disk layout of a LitSift package. Everything
// the launcher touches lives under a single project root: the bundled Python
// runtime, the vendored libraries, the entry script, the model service and
// the launcher's own state files.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Fixed names inside the project root. The package ships with these names
// and the launcher never creates or renames them, except for its own state
// files (log, config, history, caches).
const (
	runtimeDirName  = "python"
	libsDirName     = "python_libs"
	sitePackages    = "site-packages"
	entryScriptName = "app.py"
	logFileName     = "launcher.log"
	configFileName  = "launcher.toml"
	historyFileName = ".launch_history.json"
	cachesDirName   = "caches"
	sidecarDirName  = "ollama"
	modelsDirName   = "models"
	templatesName   = "templates"
	uploadsName     = "uploads"
	outputsName     = "outputs"
)

// A Layout holds the resolved locations of everything inside a project root.
// All fields are absolute paths, computed once by Resolve and never mutated
// afterwards; it is passed explicitly to every launcher step.
type Layout struct {
	Root string

	RuntimeDir   string
	RuntimeExe   string
	LibsDir      string
	SitePackages string
	EntryScript  string

	LogFile     string
	ConfigFile  string
	HistoryFile string
	CachesDir   string

	SidecarDir     string
	SidecarExe     string
	SidecarArchive string
	SidecarModels  string

	TemplatesDir string
	UploadsDir   string
	OutputsDir   string
}

// Resolve computes the layout for the given project root. An empty root
// means the current working directory. The root must exist; nothing inside
// it is required to.
func Resolve(root string) (Layout, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Layout{}, fmt.Errorf("determine working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve project root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Layout{}, fmt.Errorf("project root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Layout{}, fmt.Errorf("project root %s is not a directory", abs)
	}

	sidecarDir := filepath.Join(abs, sidecarDirName)
	return Layout{
		Root: abs,

		RuntimeDir:   filepath.Join(abs, runtimeDirName),
		RuntimeExe:   filepath.Join(abs, runtimeDirName, "python"+ExeSuffix()),
		LibsDir:      filepath.Join(abs, libsDirName),
		SitePackages: filepath.Join(abs, libsDirName, sitePackages),
		EntryScript:  filepath.Join(abs, entryScriptName),

		LogFile:     filepath.Join(abs, logFileName),
		ConfigFile:  filepath.Join(abs, configFileName),
		HistoryFile: filepath.Join(abs, historyFileName),
		CachesDir:   filepath.Join(abs, cachesDirName),

		SidecarDir:     sidecarDir,
		SidecarExe:     filepath.Join(sidecarDir, "ollama"+ExeSuffix()),
		SidecarArchive: filepath.Join(sidecarDir, sidecarArchiveName()),
		SidecarModels:  filepath.Join(sidecarDir, modelsDirName),

		TemplatesDir: filepath.Join(abs, templatesName),
		UploadsDir:   filepath.Join(abs, uploadsName),
		OutputsDir:   filepath.Join(abs, outputsName),
	}, nil
}

// ExeSuffix returns the platform's executable file extension.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// sidecarArchiveName is the bundled model service archive for this platform.
func sidecarArchiveName() string {
	return fmt.Sprintf("ollama-%s-%s.zip", runtime.GOOS, runtime.GOARCH)
}
