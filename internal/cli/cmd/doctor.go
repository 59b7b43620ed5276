package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"
	"LitSift/pkg/launchlog"
	"LitSift/pkg/sidecar"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DoctorCmd verifies that the package is complete and ready to launch.
type DoctorCmd struct{}

type doctorCheck struct {
	name     string
	ok       bool
	optional bool
	details  string
	raw      string // full probe output, shown at higher verbosity
}

func (c *DoctorCmd) Run(ctx *kong.Context, layout env.Layout, verbosity int) error {
	sidecarCheck := checkSidecar(layout)
	checks := []doctorCheck{
		checkEntryScript(layout),
		checkRuntime(layout),
		checkLibraries(layout),
		sidecarCheck,
		checkLogFile(layout),
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		output.Translate("doctor.column.check"),
		output.Translate("doctor.column.status"),
		output.Translate("doctor.column.details"),
	})

	failed := 0
	for _, check := range checks {
		status := color.New(color.FgGreen).Sprint(output.Translate("doctor.ok"))
		if !check.ok {
			if check.optional {
				status = color.New(color.FgYellow).Sprint(output.Translate("doctor.optional"))
			} else {
				status = color.New(color.FgRed).Sprint(output.Translate("doctor.failed"))
				failed++
			}
		}
		t.AppendRow(table.Row{check.name, status, check.details})
	}
	t.Render()

	if verbosity > 0 {
		for _, check := range checks {
			if check.raw == "" {
				continue
			}
			output.Debug(output.Translate("doctor.probe_output"), check.name)
			fmt.Println(check.raw)
		}
	}

	if !sidecarCheck.ok {
		output.Tip(output.Translate("tip.install"))
	}

	if failed > 0 {
		return fmt.Errorf(output.Translate("doctor.problems"), failed)
	}

	output.Success(output.Translate("doctor.all_ok"))
	return nil
}

func checkEntryScript(layout env.Layout) doctorCheck {
	check := doctorCheck{
		name:    output.Translate("doctor.check.entry"),
		details: layout.EntryScript,
	}
	if _, err := os.Stat(layout.EntryScript); err == nil {
		check.ok = true
	} else {
		check.details = output.Translate("doctor.missing") + ": " + layout.EntryScript
	}
	return check
}

func checkRuntime(layout env.Layout) doctorCheck {
	check := doctorCheck{
		name:    output.Translate("doctor.check.runtime"),
		details: layout.RuntimeExe,
	}
	if _, err := os.Stat(layout.RuntimeExe); err == nil {
		check.ok = true
	} else {
		check.details = output.Translate("doctor.missing") + ": " + layout.RuntimeExe
	}
	return check
}

func checkLibraries(layout env.Layout) doctorCheck {
	check := doctorCheck{name: output.Translate("doctor.check.libs")}

	if _, err := os.Stat(layout.RuntimeExe); err != nil {
		check.details = output.Translate("doctor.skipped")
		return check
	}

	probeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := launcher.ProbeLibraries(probeCtx, layout)
	if err != nil {
		check.details = lastLine(out)
		if check.details == "" {
			check.details = err.Error()
		}
		check.raw = strings.TrimSpace(string(out))
		return check
	}

	check.ok = true
	check.details = strings.Join(launcher.RequiredImports(), ", ")
	return check
}

func checkSidecar(layout env.Layout) doctorCheck {
	check := doctorCheck{
		name:     output.Translate("doctor.check.sidecar"),
		optional: true,
	}

	mgr := sidecar.New(layout, "")
	if !mgr.Installed() {
		check.details = output.Translate("doctor.missing") + ": " + layout.SidecarExe
		if mgr.ArchiveBundled() {
			check.details = output.Translate("doctor.installable")
		}
		return check
	}

	versionCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := mgr.Version(versionCtx)
	if err != nil {
		check.details = err.Error()
		return check
	}

	check.ok = true
	check.details = version
	return check
}

func checkLogFile(layout env.Layout) doctorCheck {
	check := doctorCheck{
		name:    output.Translate("doctor.check.log"),
		details: layout.LogFile,
	}

	log, err := launchlog.Open(layout.LogFile)
	if err != nil {
		check.details = err.Error()
		return check
	}
	log.Close()

	check.ok = true
	check.details = output.Translate("doctor.writable") + ": " + layout.LogFile
	return check
}

// lastLine returns the final non-empty line of command output.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
