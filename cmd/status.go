package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/progress"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current streak, XP and level",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, backend, err := openProgress()
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := printStatus(cmd.OutOrStdout(), store, time.Now()); err != nil {
			return err
		}
		if !statusWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchStatus(ctx, cmd.OutOrStdout(), store, nil)
	},
}

// printStatus writes the record as a running timer would see it today. The
// stored record is not modified.
func printStatus(w io.Writer, store *progress.Store, now time.Time) error {
	rec, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading progress: %w", err)
	}
	rec = progress.Evaluate(rec, now)

	last := rec.LastCompletedDate
	if last == "" {
		last = "never"
	}
	today := "not yet"
	if rec.CreditedOn(now) {
		today = "done"
	}
	fmt.Fprintf(w, "Streak: %d\n", rec.StreakCount)
	fmt.Fprintf(w, "XP: %d | Level: %d\n", rec.ExperiencePoints, rec.Level())
	fmt.Fprintf(w, "Last completed: %s\n", last)
	fmt.Fprintf(w, "Today's session: %s\n", today)
	return nil
}

// watchStatus reprints the status whenever the store file changes, until ctx
// is done. ready, when non-nil, is closed once the watch is in place.
func watchStatus(ctx context.Context, w io.Writer, store *progress.Store, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Writes land via rename, so watch the directory rather than the file.
	path := store.Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if ready != nil {
		close(ready)
	}
	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warn("status watch error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// SQLite also touches its -journal/-wal siblings.
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			fmt.Fprintln(w, "---")
			if err := printStatus(w, store, time.Now()); err != nil {
				logging.Logger.Warn("status reload failed", "error", err)
			}
		}
	}
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "keep running and reprint when progress changes")
	rootCmd.AddCommand(statusCmd)
}
