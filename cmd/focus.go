package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/pomodoro"
)

var focusCmd = &cobra.Command{
	Use:   "focus [minutes]",
	Short: "Start the timer straight into a deep focus lockdown",
	Long: `Start the timer straight into a deep focus lockdown.

Deep focus holds the alternate screen, rings the bell when the terminal loses
focus, and cannot be cancelled. It ends when the countdown reaches zero.
Minutes defaults to focus_minutes from the config (50).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 || n > pomodoro.MaxMinutes {
				return fmt.Errorf("minutes must be a positive whole number up to %d, got %q", pomodoro.MaxMinutes, args[0])
			}
			cfg.FocusMinutes = n
		}
		return runTimer(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(focusCmd)
}
