package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/config"
	"github.com/fakeyudi/focusforge/internal/kv"
	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/profile"
	"github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/tui"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var (
	debugFlag    bool
	debugFile    string
	studyMinutes int
	breakMinutes int
)

var errNoTerminal = errors.New("the timer needs an interactive terminal")

// stdoutIsTerminal is swapped out by tests.
var stdoutIsTerminal = func() bool { return term.IsTerminal(os.Stdout.Fd()) }

var rootCmd = &cobra.Command{
	Use:          "focusforge",
	Short:        "A pomodoro timer with daily streaks, XP and a deep focus lockdown",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			if err := runSetup(cmd.OutOrStdout(), true); err != nil {
				return err
			}
		}

		activeProfile = profile.Defaults()
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Flags beat both config files.
		if studyMinutes > 0 {
			cfg.StudyMinutes = studyMinutes
		}
		if breakMinutes > 0 {
			cfg.BreakMinutes = breakMinutes
		}

		logFile, err := logging.Initialize(debugFlag, debugFile, cfg.MaxLogFiles)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		if logFile != "" {
			cmd.PrintErrf("debug log: %s\n", logFile)
		}
		logging.Logger.Debug("config loaded", "command", cmd.Name(), "store", cfg.Store,
			"study_minutes", cfg.StudyMinutes, "break_minutes", cfg.BreakMinutes)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, false)
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile, or the defaults when none was
// saved.
func GetProfile() *profile.Profile {
	if activeProfile == nil {
		return profile.Defaults()
	}
	return activeProfile
}

// openProgress opens the configured backend. Callers close the returned
// kv.Store.
func openProgress() (*progress.Store, kv.Store, error) {
	backend, err := kv.Open(GetConfig().Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening progress store: %w", err)
	}
	return progress.NewStore(backend), backend, nil
}

// runTimer loads and evaluates the record, then hands the terminal to the TUI.
func runTimer(cmd *cobra.Command, autoFocus bool) error {
	if !stdoutIsTerminal() {
		return errNoTerminal
	}

	store, backend, err := openProgress()
	if err != nil {
		return err
	}
	defer backend.Close()

	rec, err := store.Open(time.Now())
	if err != nil {
		return fmt.Errorf("loading progress: %w", err)
	}

	prof := GetProfile()
	c := GetConfig()
	final, err := tui.Run(tui.Options{
		Name:         prof.Name,
		Record:       rec,
		Saver:        store,
		StudyMinutes: c.StudyMinutes,
		BreakMinutes: c.BreakMinutes,
		FocusMinutes: c.FocusMinutes,
		AutoFocus:    autoFocus,
		Quotes:       c.Quotes,
		Bell:         prof.Bell,
		BellOut:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logging.Logger.Info("timer closed", "streak", final.StreakCount, "xp", final.ExperiencePoints)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a JSON debug log (also FOCUSFORGE_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&debugFile, "debug-file", "", "debug log path (default: a new file in the state directory)")
	rootCmd.Flags().IntVar(&studyMinutes, "study", 0, "study phase length in minutes")
	rootCmd.Flags().IntVar(&breakMinutes, "break", 0, "break phase length in minutes")
}
