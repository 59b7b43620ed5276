package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"

	"github.com/alecthomas/kong"
)

// ConfigCmd manages the launcher configuration file.
type ConfigCmd struct {
	Args []string `arg:"" optional:"" help:"${config_arg_args}"`
}

func (c *ConfigCmd) Run(ctx *kong.Context, layout env.Layout) error {
	cfg, err := launcher.ReadConfig(layout.ConfigFile)
	if err != nil {
		return err
	}

	if len(c.Args) == 0 {
		return listLaunchConfig(cfg, layout)
	}

	switch action := c.Args[0]; action {
	case "list":
		return listLaunchConfig(cfg, layout)
	case "reset":
		return resetLaunchConfig(layout)
	case "get":
		if len(c.Args) < 2 {
			return errors.New(output.Translate("config.usage_get"))
		}
		return getLaunchValues(cfg, c.Args[1:])
	case "set":
		if len(c.Args) < 2 {
			return errors.New(output.Translate("config.usage_set"))
		}
		return setLaunchValues(cfg, layout, c.Args[1:])
	default:
		return fmt.Errorf(output.Translate("config.unknown_action"), action)
	}
}

// listLaunchConfig shows all configuration values.
func listLaunchConfig(cfg launcher.LaunchConfig, layout env.Layout) error {
	output.Header(output.Translate("config.title"))
	fmt.Println()

	fmt.Printf("port_range.start: %d\n", cfg.PortRange.Start)
	fmt.Printf("port_range.end:   %d\n", cfg.PortRange.End)
	fmt.Printf("open_browser:     %t\n", cfg.OpenBrowser)
	fmt.Printf("entry_args:       %s\n", strings.Join(cfg.EntryArgs, " "))
	fmt.Printf("sidecar.enabled:  %t\n", cfg.Sidecar.Enabled)
	fmt.Printf("sidecar.host:     %s\n", cfg.Sidecar.Host)

	fmt.Println()
	output.Status(fmt.Sprintf("%s: %s", output.Translate("config.file"), layout.ConfigFile))
	return nil
}

// getLaunchValues prints the requested configuration values.
func getLaunchValues(cfg launcher.LaunchConfig, keys []string) error {
	for _, key := range keys {
		var value interface{}
		switch key {
		case "port_range.start":
			value = cfg.PortRange.Start
		case "port_range.end":
			value = cfg.PortRange.End
		case "open_browser":
			value = cfg.OpenBrowser
		case "entry_args":
			value = strings.Join(cfg.EntryArgs, " ")
		case "sidecar.enabled":
			value = cfg.Sidecar.Enabled
		case "sidecar.host":
			value = cfg.Sidecar.Host
		default:
			output.Error(output.Translate("config.unknown_key"), key)
			continue
		}
		fmt.Printf("%s = %v\n", key, value)
	}
	return nil
}

// setLaunchValues updates configuration values from key=value pairs.
func setLaunchValues(cfg launcher.LaunchConfig, layout env.Layout, pairs []string) error {
	updated := false

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf(output.Translate("config.bad_pair"), pair)
		}
		key, value := parts[0], parts[1]

		switch key {
		case "port_range.start":
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf(output.Translate("config.invalid"), key, value)
			}
			cfg.PortRange.Start = port
			updated = true
		case "port_range.end":
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf(output.Translate("config.invalid"), key, value)
			}
			cfg.PortRange.End = port
			updated = true
		case "open_browser":
			cfg.OpenBrowser = parseBool(value)
			updated = true
		case "entry_args":
			cfg.EntryArgs = strings.Fields(value)
			updated = true
		case "sidecar.enabled":
			cfg.Sidecar.Enabled = parseBool(value)
			updated = true
		case "sidecar.host":
			cfg.Sidecar.Host = value
			updated = true
		default:
			output.Warning(output.Translate("config.unknown_key"), key)
		}
	}

	if !updated {
		output.Info(output.Translate("config.unchanged"))
		return nil
	}

	if cfg.PortRange.Start > cfg.PortRange.End || cfg.PortRange.Start <= 0 {
		return fmt.Errorf(output.Translate("config.invalid"), "port_range",
			fmt.Sprintf("%d-%d", cfg.PortRange.Start, cfg.PortRange.End))
	}

	if err := cfg.WriteConfig(layout.ConfigFile); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	output.Success(output.Translate("config.saved"), layout.ConfigFile)
	return nil
}

// resetLaunchConfig removes the configuration file so defaults apply.
func resetLaunchConfig(layout env.Layout) error {
	if err := os.Remove(layout.ConfigFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset configuration: %w", err)
	}
	output.Success(output.Translate("config.reset"))
	return nil
}

// parseBool parses a string to boolean
func parseBool(s string) bool {
	switch s {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return false
	}
}
