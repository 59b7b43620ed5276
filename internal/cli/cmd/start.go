package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"
	"LitSift/pkg/launchlog"
	"LitSift/pkg/sidecar"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/pkg/browser"
)

// StartCmd launches the application with the bundled runtime.
type StartCmd struct {
	Port      int  `help:"${start_arg_port}" short:"p" placeholder:"PORT"`
	NoBrowser bool `help:"${start_arg_nobrowser}"`
	NoSidecar bool `help:"${start_arg_nosidecar}"`
	Prepare   bool `help:"${start_arg_prepare}"`

	Args []string `arg:"" optional:"" help:"${start_arg_args}" passthrough:""`
}

func (c *StartCmd) Run(ctx *kong.Context, layout env.Layout, verbosity int) error {
	cfg, err := launcher.ReadConfig(layout.ConfigFile)
	if err != nil {
		return err
	}

	log, err := launchlog.Open(layout.LogFile)
	if err != nil {
		output.Warning(output.Translate("start.log_failed"), err)
	} else {
		defer log.Close()
	}

	if verbosity > 0 {
		output.Info(output.Translate("start.preparing"), layout.Root)
	}

	port := c.Port
	if port == 0 {
		port, err = launcher.FindFreePort(cfg.PortRange.Start, cfg.PortRange.End)
		if err != nil {
			log.Errorf("no free port: %v", err)
			return seeLog(err, layout)
		}
	}

	opts := launcher.Options{
		Port:      port,
		EntryArgs: append(cfg.EntryArgs, c.Args...),
	}

	var service *sidecar.Process
	if cfg.Sidecar.Enabled && !c.NoSidecar {
		mgr := sidecar.New(layout, cfg.Sidecar.Host)
		opts.Vars = mgr.Vars()

		if !mgr.Installed() {
			output.Warning(output.Translate("start.sidecar_missing"))
			output.Tip(output.Translate("tip.install"))
			log.Warnf("model service not installed, continuing without it")
		} else {
			opts.PathPrepend = mgr.Dir

			output.Info(output.Translate("start.sidecar_starting"))
			log.Infof("starting model service")
			mgr.KillStale()

			service, err = mgr.Start()
			if err != nil {
				output.Warning("%v", err)
				log.Warnf("model service failed to start: %v", err)
			} else {
				defer func() {
					output.Info(output.Translate("start.stopping_sidecar"))
					log.Infof("stopping model service")
					service.Stop(5 * time.Second)
				}()

				if mgr.WaitReady(10 * time.Second) {
					output.Success(output.Translate("start.sidecar_ready"))
					log.Infof("model service is ready")
					reportInstalledModels(mgr, layout, log)
				} else {
					output.Warning(output.Translate("start.sidecar_not_ready"))
					log.Warnf("model service did not become ready in time")
				}
			}
		}
	}

	launch, err := launcher.Prepare(layout, opts, log)
	if err != nil {
		return seeLog(err, layout)
	}

	if c.Prepare {
		output.Success(output.Translate("start.prepared"))
		return nil
	}

	if verbosity > 1 {
		output.Debug(output.Translate("start.launch.cmd"), launch.RuntimeExe, launch.EntryScript)
		output.Debug(output.Translate("start.launch.pythonpath"), launch.LibraryPath)
	}

	output.Info(output.Translate("start.port"), port)

	if cfg.OpenBrowser && !c.NoBrowser {
		go openBrowserWhenReady(port)
	}

	output.Info(output.Translate("start.starting"))

	started := time.Now()
	runErr := launcher.Run(launch, launcher.ConsoleRunner, log)

	record := LaunchRecord{
		ID:      uuid.New().String(),
		Time:    started.Unix(),
		Port:    port,
		Seconds: int(time.Since(started).Seconds()),
	}
	if runErr != nil {
		var childErr *launcher.ChildExitError
		if errors.As(runErr, &childErr) {
			record.ExitCode = childErr.Code
		} else {
			record.ExitCode = -1
		}
	}
	if err := addLaunchRecord(layout, record); err != nil {
		output.Warning(output.Translate("start.history_failed"), err)
	}

	if runErr != nil {
		return seeLog(runErr, layout)
	}

	output.Success(output.Translate("start.done"))
	return nil
}

// reportInstalledModels lists the models the running service offers.
func reportInstalledModels(mgr *sidecar.Manager, layout env.Layout, log *launchlog.Log) {
	tags, err := mgr.InstalledModels(layout.CachesDir)
	if err != nil {
		return
	}
	if len(tags.Models) == 0 {
		output.Info(output.Translate("start.sidecar_no_models"))
		return
	}

	names := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		names = append(names, model.Name)
	}
	output.Info(output.Translate("start.sidecar_models"), strings.Join(names, ", "))
	log.Infof("installed local models: %s", strings.Join(names, ", "))
}

// openBrowserWhenReady polls the application port and opens the browser
// once it answers. Gives up quietly after 30 seconds.
func openBrowserWhenReady(port int) {
	if !launcher.WaitForPort(port, 30, time.Second) {
		return
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", port)
	output.Info(output.Translate("start.browser"), url)
	if err := browser.OpenURL(url); err != nil {
		output.Warning(output.Translate("start.browser_failed"), err)
	}
}

// seeLog points the user at the log file alongside the original error.
func seeLog(err error, layout env.Layout) error {
	return fmt.Errorf("%w (%s %s)", err, output.Translate("start.see_log"), layout.LogFile)
}
