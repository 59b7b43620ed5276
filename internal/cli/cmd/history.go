package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"LitSift/internal/cli/output"
	env "LitSift/pkg"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// LaunchRecord is one completed launch.
type LaunchRecord struct {
	ID       string `json:"id"`
	Time     int64  `json:"time"`
	Port     int    `json:"port"`
	ExitCode int    `json:"exit_code"`
	Seconds  int    `json:"seconds"`
}

// loadLaunchRecords reads the launch history, newest first. A corrupt or
// missing file counts as empty history.
func loadLaunchRecords(layout env.Layout) []LaunchRecord {
	file, err := os.Open(layout.HistoryFile)
	if err != nil {
		return nil
	}
	defer file.Close()

	var records []LaunchRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Time > records[j].Time
	})

	return records
}

// saveLaunchRecords writes the launch history to disk.
func saveLaunchRecords(layout env.Layout, records []LaunchRecord) error {
	if err := os.MkdirAll(filepath.Dir(layout.HistoryFile), 0755); err != nil {
		return err
	}

	file, err := os.Create(layout.HistoryFile)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(records)
}

// addLaunchRecord prepends a record and keeps only the last 20 launches.
func addLaunchRecord(layout env.Layout, record LaunchRecord) error {
	records := loadLaunchRecords(layout)
	records = append([]LaunchRecord{record}, records...)
	if len(records) > 20 {
		records = records[:20]
	}
	return saveLaunchRecords(layout, records)
}

// HistoryCmd shows the recent launches.
type HistoryCmd struct {
	Clear bool `help:"${history_arg_clear}"`
}

func (c *HistoryCmd) Run(ctx *kong.Context, layout env.Layout) error {
	if c.Clear {
		if err := os.Remove(layout.HistoryFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear launch history: %w", err)
		}
		output.Success(output.Translate("history.cleared"))
		return nil
	}

	records := loadLaunchRecords(layout)
	if len(records) == 0 {
		output.Info(output.Translate("history.empty"))
		return nil
	}

	output.Header(output.Translate("history.title"))

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		output.Translate("history.column.time"),
		output.Translate("history.column.port"),
		output.Translate("history.column.exit"),
		output.Translate("history.column.duration"),
	})

	for _, record := range records {
		exit := color.New(color.FgGreen).Sprint(record.ExitCode)
		if record.ExitCode != 0 {
			exit = color.New(color.FgRed).Sprint(record.ExitCode)
		}
		t.AppendRow(table.Row{
			time.Unix(record.Time, 0).Format("2006-01-02 15:04:05"),
			record.Port,
			exit,
			(time.Duration(record.Seconds) * time.Second).String(),
		})
	}

	t.Render()
	return nil
}
