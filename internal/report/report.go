// Package report renders a snapshot of the user's progress for export.
package report

import (
	"time"

	"github.com/fakeyudi/focusforge/internal/progress"
)

// Report is the complete, renderable progress snapshot.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Author      string    `json:"author,omitempty"`
	Progress    Progress  `json:"progress"`
	Settings    Settings  `json:"settings"`
	StorePath   string    `json:"store_path"`
}

// Progress mirrors progress.Record with derived fields.
type Progress struct {
	Streak            int    `json:"streak"`
	XP                int    `json:"xp"`
	Level             int    `json:"level"`
	XPToNextLevel     int    `json:"xp_to_next_level"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
	CreditedToday     bool   `json:"credited_today"`
}

// Settings are the timer lengths in effect, in minutes.
type Settings struct {
	StudyMinutes int `json:"study_minutes"`
	BreakMinutes int `json:"break_minutes"`
	FocusMinutes int `json:"focus_minutes"`
}

// Build assembles a Report for rec as of now.
func Build(rec progress.Record, now time.Time, author string, settings Settings, storePath string) *Report {
	return &Report{
		GeneratedAt: now,
		Author:      author,
		Progress: Progress{
			Streak:            rec.StreakCount,
			XP:                rec.ExperiencePoints,
			Level:             rec.Level(),
			XPToNextLevel:     (rec.Level()+1)*100 - rec.ExperiencePoints,
			LastCompletedDate: rec.LastCompletedDate,
			CreditedToday:     rec.CreditedOn(now),
		},
		Settings:  settings,
		StorePath: storePath,
	}
}
