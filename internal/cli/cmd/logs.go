package cmd

import (
	"fmt"
	"os"
	"strings"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"

	"github.com/alecthomas/kong"
)

// LogsCmd prints the tail of the launcher log.
type LogsCmd struct {
	Tail int `help:"${logs_arg_tail}" default:"50"`
}

func (c *LogsCmd) Run(ctx *kong.Context, layout env.Layout) error {
	data, err := os.ReadFile(layout.LogFile)
	if err != nil {
		if os.IsNotExist(err) {
			output.Info(output.Translate("logs.missing"), layout.LogFile)
			return nil
		}
		return fmt.Errorf("read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		output.Info(output.Translate("logs.empty"))
		return nil
	}

	if c.Tail > 0 && len(lines) > c.Tail {
		lines = lines[len(lines)-c.Tail:]
	}

	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
