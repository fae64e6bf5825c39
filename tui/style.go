package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/edencore/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleObjective = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("234"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	// Mood-keyed narrative styles.
	styleNeutral = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleMystic = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141"))

	styleArchitect = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	styleBanner = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("88")).
			Bold(true).
			Padding(0, 1)

	styleVictoryBanner = lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("120")).
				Bold(true).
				Padding(0, 1)
)

// moodStyle returns the narrative style for a mood.
func moodStyle(mood types.Mood) lipgloss.Style {
	switch mood {
	case types.MoodDanger:
		return styleDanger
	case types.MoodMystic:
		return styleMystic
	default:
		return styleNeutral
	}
}

// renderNarrative styles one narrative line. Architect interjections
// (lines starting with "//") get their own voice regardless of mood.
func renderNarrative(line string, mood types.Mood) string {
	if strings.HasPrefix(strings.TrimSpace(line), "//") {
		return styleArchitect.Render(line)
	}
	return moodStyle(mood).Render(line)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
