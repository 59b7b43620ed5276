package launcher

import (
	"context"
	"os"
	"os/exec"
	"strings"

	env "LitSift/pkg"
)

// requiredImports are the vendored packages the application cannot start
// without. The doctor verifies all of them resolve from site-packages.
var requiredImports = []string{"flask", "pandas", "openpyxl", "requests", "werkzeug"}

// RequiredImports returns the packages the probe checks.
func RequiredImports() []string {
	return append([]string(nil), requiredImports...)
}

// ProbeLibraries runs the bundled interpreter against the application's
// imports, with PYTHONPATH pointed at the vendored site-packages. The
// combined output is returned for diagnosis; callers bound the probe with
// the context.
func ProbeLibraries(ctx context.Context, layout env.Layout) ([]byte, error) {
	stmt := "import " + strings.Join(requiredImports, ", ")
	cmd := exec.CommandContext(ctx, layout.RuntimeExe, "-c", stmt)
	cmd.Dir = layout.Root
	cmd.Env = setVar(os.Environ(), "PYTHONPATH", layout.SitePackages)
	return cmd.CombinedOutput()
}
