package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/logging"
)

var resetYes bool

var errResetNeedsConfirmation = errors.New("refusing to reset progress without confirmation: pass --yes")

var resetProgressCmd = &cobra.Command{
	Use:   "reset-progress",
	Short: "Erase the stored streak, XP and last completed date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			if !term.IsTerminal(os.Stdin.Fd()) {
				return errResetNeedsConfirmation
			}
			confirmed := false
			err := huh.NewConfirm().
				Title("Erase your streak and XP?").
				Description("This cannot be undone.").
				Affirmative("Erase").
				Negative("Keep").
				Value(&confirmed).
				Run()
			if err != nil {
				return fmt.Errorf("reset cancelled: %w", err)
			}
			if !confirmed {
				cmd.Println("Progress kept.")
				return nil
			}
		}

		store, backend, err := openProgress()
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing progress: %w", err)
		}
		logging.Logger.Info("progress cleared", "path", store.Path())
		cmd.Println("Progress cleared.")
		return nil
	},
}

func init() {
	resetProgressCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetProgressCmd)
}
