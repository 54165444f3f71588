package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/report"
)

var (
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export progress as Markdown or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(reportFormat)
		if format != "markdown" && format != "json" {
			return fmt.Errorf("unknown format %q: use markdown or json", reportFormat)
		}

		store, backend, err := openProgress()
		if err != nil {
			return err
		}
		defer backend.Close()

		rec, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}
		now := time.Now()
		c := GetConfig()
		r := report.Build(progress.Evaluate(rec, now), now, GetProfile().Name, report.Settings{
			StudyMinutes: c.StudyMinutes,
			BreakMinutes: c.BreakMinutes,
			FocusMinutes: c.FocusMinutes,
		}, store.Path())

		renderer := report.ForFormat(format)
		data, err := renderer.Render(r)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		if reportOutput == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(reportOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logging.Logger.Info("report written", "path", reportOutput, "format", format)
		cmd.Printf("Report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "markdown", "output format: markdown or json")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
