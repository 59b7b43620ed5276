// Package updater applies application bundle updates from a local archive.
// An update replaces the entry script, its dependency manifest and the
// template assets; user data directories are backed up next to the project
// first. The launcher binary itself is not touched.
package updater

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Files every valid bundle must carry. Archives missing one of these are
// rejected before anything is touched.
var requiredFiles = []string{"app.py", "requirements.txt"}

// Files copied from the bundle into the project root during an update.
var updateFiles = []string{"app.py", "requirements.txt", "README.md"}

// Directories preserved under backup_<timestamp>/ before files change.
var backupDirs = []string{"uploads", "outputs"}

const templatesDir = "templates"

var versionPattern = regexp.MustCompile(`__version__\s*=\s*["']([^"']+)["']`)

// Relation between the bundle version and the installed one.
const (
	RelationUpgrade   = "upgrade"
	RelationDowngrade = "downgrade"
	RelationSame      = "same"
	RelationUnknown   = "unknown"
)

// Updater stages and applies bundle updates for one project root.
type Updater struct {
	ProjectDir      string
	LauncherVersion string
}

// New creates an updater for the given project root.
func New(projectDir, launcherVersion string) *Updater {
	return &Updater{
		ProjectDir:      projectDir,
		LauncherVersion: launcherVersion,
	}
}

// UpdateInfo describes a staged bundle that passed validation.
type UpdateInfo struct {
	ArchivePath      string
	StageDir         string // temporary directory holding the extracted archive
	PayloadRoot      string // directory inside StageDir that carries the bundle files
	Version          string // bundle version, or "" when the bundle does not declare one
	InstalledVersion string
	Relation         string
}

// Check extracts the archive into a temporary directory and validates the
// payload. The caller owns the returned stage directory and must release it
// with Cleanup. progress is called once per archive entry.
func (u *Updater) Check(archivePath string, progress func(done, total int)) (*UpdateInfo, error) {
	if !strings.EqualFold(filepath.Ext(archivePath), ".zip") {
		return nil, fmt.Errorf("update bundle must be a .zip archive, got %s", filepath.Base(archivePath))
	}
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("read update bundle: %w", err)
	}

	stageDir, err := os.MkdirTemp("", "litsift-update-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	if err := extractArchive(archivePath, stageDir, progress); err != nil {
		os.RemoveAll(stageDir)
		return nil, fmt.Errorf("extract update bundle: %w", err)
	}

	payloadRoot, err := findPayloadRoot(stageDir)
	if err != nil {
		os.RemoveAll(stageDir)
		return nil, err
	}

	info := &UpdateInfo{
		ArchivePath:      archivePath,
		StageDir:         stageDir,
		PayloadRoot:      payloadRoot,
		Version:          readBundleVersion(filepath.Join(payloadRoot, "app.py")),
		InstalledVersion: readBundleVersion(filepath.Join(u.ProjectDir, "app.py")),
	}
	info.Relation = relation(info.Version, info.InstalledVersion)
	return info, nil
}

// Apply backs up user data and copies the staged bundle into the project
// root. It returns the backup directory. progress is called after each
// completed step.
func (u *Updater) Apply(info *UpdateInfo, progress func(done, total int)) (string, error) {
	total := len(updateFiles) + 2 // backup and templates count as steps
	done := 0
	step := func() {
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	backupDir, err := u.backupUserData()
	if err != nil {
		return "", fmt.Errorf("back up user data: %w", err)
	}
	step()

	for _, name := range updateFiles {
		src := filepath.Join(info.PayloadRoot, name)
		if !fileExists(src) {
			step()
			continue
		}
		if err := copyFile(src, filepath.Join(u.ProjectDir, name)); err != nil {
			return backupDir, fmt.Errorf("update %s: %w", name, err)
		}
		step()
	}

	srcTemplates := filepath.Join(info.PayloadRoot, templatesDir)
	if dirExists(srcTemplates) {
		dstTemplates := filepath.Join(u.ProjectDir, templatesDir)
		if err := os.RemoveAll(dstTemplates); err != nil {
			return backupDir, fmt.Errorf("remove old templates: %w", err)
		}
		if err := copyTree(srcTemplates, dstTemplates); err != nil {
			return backupDir, fmt.Errorf("install templates: %w", err)
		}
	}
	step()

	return backupDir, nil
}

// Cleanup releases the staging directory created by Check.
func (u *Updater) Cleanup(info *UpdateInfo) {
	if info != nil && info.StageDir != "" {
		os.RemoveAll(info.StageDir)
	}
}

// VersionInfo returns the launcher, bundle and platform versions. The
// bundle entry is empty when the installed entry script declares none.
func (u *Updater) VersionInfo() map[string]string {
	return map[string]string{
		"launcher": u.LauncherVersion,
		"bundle":   readBundleVersion(filepath.Join(u.ProjectDir, "app.py")),
		"platform": fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// backupUserData copies the user data directories into a fresh
// backup_<timestamp> directory under the project root.
func (u *Updater) backupUserData() (string, error) {
	backupDir := filepath.Join(u.ProjectDir, "backup_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", err
	}

	for _, name := range backupDirs {
		src := filepath.Join(u.ProjectDir, name)
		if !dirExists(src) {
			continue
		}
		if err := copyTree(src, filepath.Join(backupDir, name)); err != nil {
			return "", err
		}
	}
	return backupDir, nil
}

// findPayloadRoot locates the directory carrying the bundle files, either
// the extraction root itself or a single directory below it.
func findPayloadRoot(stageDir string) (string, error) {
	if hasRequiredFiles(stageDir) {
		return stageDir, nil
	}

	entries, err := os.ReadDir(stageDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(stageDir, entry.Name())
		if hasRequiredFiles(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("bundle does not contain the application files (%s)", strings.Join(requiredFiles, ", "))
}

func hasRequiredFiles(dir string) bool {
	for _, name := range requiredFiles {
		if !fileExists(filepath.Join(dir, name)) {
			return false
		}
	}
	return true
}

// readBundleVersion extracts the __version__ marker from an entry script.
// Returns "" when the file or the marker is missing.
func readBundleVersion(scriptPath string) string {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return ""
	}
	match := versionPattern.FindSubmatch(data)
	if match == nil {
		return ""
	}
	return string(match[1])
}

// relation classifies the bundle version against the installed one.
func relation(bundleVer, installedVer string) string {
	bundle, err := semver.NewVersion(strings.TrimPrefix(bundleVer, "v"))
	if err != nil {
		return RelationUnknown
	}
	installed, err := semver.NewVersion(strings.TrimPrefix(installedVer, "v"))
	if err != nil {
		return RelationUnknown
	}

	switch bundle.Compare(installed) {
	case 1:
		return RelationUpgrade
	case -1:
		return RelationDowngrade
	default:
		return RelationSame
	}
}

// extractArchive unpacks a ZIP archive into destDir.
func extractArchive(zipPath, destDir string, progress func(done, total int)) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for i, file := range reader.File {
		path := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(path, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes staging directory: %s", file.Name)
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

		if progress != nil {
			progress(i+1, len(reader.File))
		}
	}

	return nil
}

// copyTree copies a directory recursively, preserving file modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
