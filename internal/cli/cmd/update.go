package cmd

import (
	"fmt"

	"LitSift/internal/cli/output"
	"LitSift/internal/version"
	env "LitSift/pkg"
	"LitSift/pkg/updater"

	"github.com/alecthomas/kong"
)

// UpdateCheckCmd validates a local update bundle without applying it
type UpdateCheckCmd struct {
	Archive string `arg:"" type:"existingfile" help:"${update_arg_archive}"`
}

// UpdateApplyCmd applies a local update bundle
type UpdateApplyCmd struct {
	Archive string `arg:"" type:"existingfile" help:"${update_arg_archive}"`
	Yes     bool   `help:"${update_arg_yes}" short:"y"`
}

// UpdateInfoCmd shows current version information
type UpdateInfoCmd struct{}

// UpdateCmd manages application bundle updates
type UpdateCmd struct {
	Check UpdateCheckCmd `cmd:"" help:"${update_check}"`
	Apply UpdateApplyCmd `cmd:"" help:"${update_apply}"`
	Info  UpdateInfoCmd  `cmd:"" help:"${update_info}"`
}

func (c *UpdateCheckCmd) Run(ctx *kong.Context, layout env.Layout) error {
	u := updater.New(layout.Root, version.Current)

	info, err := stageBundle(u, c.Archive)
	if err != nil {
		return err
	}
	defer u.Cleanup(info)

	printBundleVersions(info)
	output.Success(output.Translate("update.valid"))
	return nil
}

func (c *UpdateApplyCmd) Run(ctx *kong.Context, layout env.Layout) error {
	u := updater.New(layout.Root, version.Current)

	info, err := stageBundle(u, c.Archive)
	if err != nil {
		return err
	}
	defer u.Cleanup(info)

	printBundleVersions(info)

	if !c.Yes && !confirmRelation(info.Relation) {
		output.Info(output.Translate("update.cancelled"))
		return nil
	}

	bar := output.CreateProgressBar(1, output.Translate("update.bar"))
	backupDir, applyErr := u.Apply(info, func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
	})

	if backupDir != "" {
		output.Info(output.Translate("update.backup"), backupDir)
	}
	if applyErr != nil {
		return applyErr
	}

	output.Success(output.Translate("update.done"))
	return nil
}

func (c *UpdateInfoCmd) Run(ctx *kong.Context, layout env.Layout) error {
	info := updater.New(layout.Root, version.Current).VersionInfo()

	bundle := info["bundle"]
	if bundle == "" {
		bundle = output.Translate("update.unknown")
	}

	fmt.Printf("%s: %s\n", output.Translate("update.info.launcher"), info["launcher"])
	fmt.Printf("%s: %s\n", output.Translate("update.info.bundle"), bundle)
	fmt.Printf("%s: %s\n", output.Translate("update.info.platform"), info["platform"])
	return nil
}

// stageBundle unpacks and validates an archive, showing extraction progress.
func stageBundle(u *updater.Updater, archive string) (*updater.UpdateInfo, error) {
	bar := output.CreateProgressBar(1, output.Translate("update.staging"))
	info, err := u.Check(archive, func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
	})
	if err != nil {
		fmt.Println()
		return nil, err
	}
	return info, nil
}

// printBundleVersions reports the staged bundle version against the
// installed one.
func printBundleVersions(info *updater.UpdateInfo) {
	bundle := info.Version
	if bundle == "" {
		bundle = output.Translate("update.unknown")
	}
	installed := info.InstalledVersion
	if installed == "" {
		installed = output.Translate("update.unknown")
	}

	output.Info(output.Translate("update.bundle_version"), bundle)
	output.Info(output.Translate("update.installed_version"), installed)
}

// confirmRelation asks for the confirmation matching how the bundle
// relates to the installed version.
func confirmRelation(relation string) bool {
	switch relation {
	case updater.RelationDowngrade:
		return output.Confirm(output.Translate("update.confirm.downgrade"))
	case updater.RelationSame:
		return output.Confirm(output.Translate("update.confirm.same"))
	case updater.RelationUnknown:
		return output.Confirm(output.Translate("update.confirm.unknown"))
	default:
		return output.Confirm(output.Translate("update.confirm.upgrade"))
	}
}
