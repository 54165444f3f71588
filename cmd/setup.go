package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/profile"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set your name and bell preference for the timer",
	// Runs before any profile exists, so the root pre-run is skipped.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd.OutOrStdout(), false)
	},
}

// runSetup shows the profile form, prefilled from the saved profile when
// there is one, and saves the answers. Backing out of an edit keeps the old
// profile; backing out of the first run is an error so the timer does not
// start half-configured.
func runSetup(w io.Writer, firstRun bool) error {
	var existing *profile.Profile
	if p, err := profile.Load(); err == nil {
		existing = p
	}

	if firstRun {
		fmt.Fprintln(w, "\n  focusforge keeps your streak and XP between sessions.")
		fmt.Fprintln(w, "  Two quick questions before the first timer.")
	}

	prof, err := profile.RunSetup(existing)
	switch {
	case errors.Is(err, profile.ErrSetupAborted) && !firstRun:
		fmt.Fprintln(w, "  Nothing changed.")
		return nil
	case err != nil:
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	bell := "off"
	if prof.Bell {
		bell = "on"
	}
	fmt.Fprintf(w, "  Saved. Bell cues are %s.\n", bell)
	if firstRun {
		fmt.Fprintln(w, "  Space starts the timer, d starts deep focus, ? lists every key.")
	}
	fmt.Fprintln(w)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
