// Package profile manages the user's persistent focusforge profile.
// The profile is stored at ~/.config/focusforge/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	Name string `json:"name"`
	Bell bool   `json:"bell"` // ring the terminal bell for sound cues
}

// Defaults is the profile used when none was saved.
func Defaults() *Profile {
	return &Profile{Bell: true}
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// ConfigDir returns the focusforge config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "focusforge"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found — run 'focusforge setup' to configure: %w", err)
	}
	prof := Defaults()
	if err := json.Unmarshal(data, prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// ErrSetupAborted is returned when the user cancels the setup form.
var ErrSetupAborted = errors.New("setup aborted")

// RunSetup shows the setup form. If existing is non-nil, its values are the
// form defaults (edit mode).
func RunSetup(existing *Profile) (*Profile, error) {
	prof := Defaults()
	if existing != nil {
		*prof = *existing
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("focusforge — setup").
				Description("Re-run 'focusforge setup' anytime to change these."),
			huh.NewInput().
				Title("Your name").
				Description("Shown in the timer header and reports.").
				Value(&prof.Name),
			huh.NewConfirm().
				Title("Ring the terminal bell for session and warning cues?").
				Affirmative("Yes").
				Negative("No").
				Value(&prof.Bell),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrSetupAborted
		}
		return nil, err
	}
	return prof, nil
}
