// Package styles holds the lipgloss styles used by human-readable CLI output
package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
)

// Palette
const (
	AccentColor  = "#7D56F4"
	TitleColor   = "#FAFAFA"
	SubtleColor  = "#6C6C6C"
	NormalColor  = "#D0D0D0"
	DoneColor    = "#04B575"
	PendingColor = "#F2B33D"
	ErrorColor   = "#FF5F87"
)

// CardWidth is the outer width of RenderCard output
const CardWidth = 80

var (
	// Card styles
	CardStyle lipgloss.Style

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Due:", "Created:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Description"

	// Status styles
	DoneStyle    lipgloss.Style
	PendingStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

func init() {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(AccentColor)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(TitleColor))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(SubtleColor))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(AccentColor))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(NormalColor))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(AccentColor)).
		Bold(true).
		MarginTop(1)

	DoneStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(DoneColor))

	PendingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(PendingColor))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ErrorColor))
}

// RenderStatus renders a task's completion flag as a short badge
func RenderStatus(done bool) string {
	if done {
		return DoneStyle.Render("✓ done")
	}
	return PendingStyle.Render("○ pending")
}

// RenderField renders "Label: value"
func RenderField(label, value string) string {
	return fmt.Sprintf("%s %s", LabelStyle.Render(label+":"), ValueStyle.Render(value))
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
