package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
	// Ext is the file extension for the output, including the dot.
	Ext() string
}

// ForFormat returns the renderer for "json" or, for anything else, Markdown.
func ForFormat(format string) Renderer {
	if format == "json" {
		return &JSONRenderer{}
	}
	return &MarkdownRenderer{}
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (j *JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func (j *JSONRenderer) Ext() string { return ".json" }

// MarkdownRenderer renders a Report as human-readable Markdown.
type MarkdownRenderer struct{}

func (m *MarkdownRenderer) Ext() string { return ".md" }

func (m *MarkdownRenderer) Render(r *Report) ([]byte, error) {
	var sb strings.Builder

	title := "FocusForge progress"
	if r.Author != "" {
		title += " — " + r.Author
	}
	fmt.Fprintf(&sb, "# %s — %s\n\n", title, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	// ## Progress
	p := r.Progress
	sb.WriteString("## Progress\n\n")
	fmt.Fprintf(&sb, "- Streak: %d\n", p.Streak)
	fmt.Fprintf(&sb, "- XP: %d\n", p.XP)
	fmt.Fprintf(&sb, "- Level: %d (%d XP to level %d)\n", p.Level, p.XPToNextLevel, p.Level+1)
	if p.LastCompletedDate == "" {
		sb.WriteString("- Last completed: _never_\n")
	} else {
		fmt.Fprintf(&sb, "- Last completed: %s\n", p.LastCompletedDate)
	}
	if p.CreditedToday {
		sb.WriteString("- Today: credited\n")
	} else {
		sb.WriteString("- Today: not yet credited\n")
	}
	sb.WriteString("\n")

	// ## Settings
	sb.WriteString("## Settings\n\n")
	sb.WriteString("| Phase | Minutes |\n")
	sb.WriteString("|-------|---------|\n")
	fmt.Fprintf(&sb, "| Study | %d |\n", r.Settings.StudyMinutes)
	fmt.Fprintf(&sb, "| Break | %d |\n", r.Settings.BreakMinutes)
	fmt.Fprintf(&sb, "| Deep focus | %d |\n", r.Settings.FocusMinutes)
	sb.WriteString("\n")

	// ## Storage
	sb.WriteString("## Storage\n\n")
	fmt.Fprintf(&sb, "`%s`\n", r.StorePath)

	return []byte(sb.String()), nil
}
