package cmd

import (
	"fmt"
	"strings"

	"LitSift/internal/cli/output"
	"LitSift/internal/meta"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"
	"LitSift/pkg/sidecar"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ModelsCmd lists the curated model catalog and which models the local
// service has installed.
type ModelsCmd struct {
	Search    string `help:"${models_arg_search}"`
	Installed bool   `help:"${models_arg_installed}"`
}

func (c *ModelsCmd) Run(ctx *kong.Context, layout env.Layout) error {
	cfg, err := launcher.ReadConfig(layout.ConfigFile)
	if err != nil {
		return err
	}

	bar := output.CreateIndeterminateBar(output.Translate("models.fetching"))
	mgr := sidecar.New(layout, cfg.Sidecar.Host)
	tags, tagsErr := mgr.InstalledModels(layout.CachesDir)
	bar.Finish()

	if tagsErr != nil {
		output.Warning(output.Translate("models.service_down"))
	}

	installed := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		installed = append(installed, model.Name)
	}

	entries := filterCatalog(meta.Catalog(), c.Search, c.Installed, installed)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(color.Output)
	t.AppendHeader(table.Row{
		output.Translate("models.column.name"),
		output.Translate("models.column.family"),
		output.Translate("models.column.description"),
		output.Translate("models.column.size"),
		output.Translate("models.column.date"),
		output.Translate("models.column.installed"),
	})

	missing := 0
	for _, entry := range entries {
		state := output.Translate("models.installed_no")
		if entry.Installed(installed) {
			state = color.New(color.FgGreen).Sprint(output.Translate("models.installed_yes"))
		} else {
			missing++
		}
		t.AppendRow(table.Row{
			entry.Name,
			entry.Family,
			entry.Description,
			entry.Size,
			entry.Date,
			state,
		})
	}
	t.Render()

	if extras := uncataloguedModels(tags.Models); len(extras) > 0 {
		output.Info(output.Translate("models.extra"), strings.Join(extras, ", "))
	}

	if missing > 0 {
		output.Tip(output.Translate("models.pull_hint"))
	}

	return nil
}

// filterCatalog narrows the catalog by a search term and the installed
// filter.
func filterCatalog(entries []meta.CatalogEntry, search string, installedOnly bool, installed []string) []meta.CatalogEntry {
	var filtered []meta.CatalogEntry
	for _, entry := range entries {
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(entry.Name), needle) &&
				!strings.Contains(strings.ToLower(entry.Family), needle) &&
				!strings.Contains(strings.ToLower(entry.Description), needle) {
				continue
			}
		}
		if installedOnly && !entry.Installed(installed) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// uncataloguedModels lists installed tags the catalog does not know,
// annotated with their on-disk size.
func uncataloguedModels(models []sidecar.Model) []string {
	var extras []string
	for _, model := range models {
		if _, known := meta.Lookup(model.Name); known {
			continue
		}
		extras = append(extras, fmt.Sprintf("%s (%s)", model.Name, formatFileSize(model.Size)))
	}
	return extras
}

// formatFileSize formats file size in human readable format
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
