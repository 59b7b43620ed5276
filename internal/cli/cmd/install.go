package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"
	"LitSift/pkg/sidecar"

	"github.com/alecthomas/kong"
)

// InstallCmd unpacks the bundled model service archive.
type InstallCmd struct {
	Force bool `help:"${install_arg_force}"`
}

func (c *InstallCmd) Run(ctx *kong.Context, layout env.Layout) error {
	cfg, err := launcher.ReadConfig(layout.ConfigFile)
	if err != nil {
		return err
	}

	mgr := sidecar.New(layout, cfg.Sidecar.Host)

	if mgr.Installed() && !c.Force {
		output.Info(output.Translate("install.already"))
		return nil
	}

	if !mgr.ArchiveBundled() {
		return fmt.Errorf(output.Translate("install.archive_missing"), layout.SidecarArchive)
	}

	output.Info(output.Translate("install.installing"), filepath.Base(layout.SidecarArchive))

	bar := output.CreateProgressBar(1, output.Translate("install.bar"))
	err = mgr.Install(func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
	})
	if err != nil {
		fmt.Println()
		return err
	}

	output.Success(output.Translate("install.done"))

	versionCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if version, err := mgr.Version(versionCtx); err == nil {
		output.Info(output.Translate("install.version"), version)
	}

	return nil
}
