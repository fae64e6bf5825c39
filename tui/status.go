package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/edencore/engine/state"
	"github.com/nathoo/edencore/types"
)

// barWidth is the character width of a vitals bar.
const barWidth = 10

// renderStatusBar produces a full-width inverted status line with the
// current location, act, vitals bars, and trace meter.
func (m Model) renderStatusBar() string {
	g := m.engine.Game

	left := fmt.Sprintf(" %s [%d,%d] | Act %d",
		g.Location.Name, g.Location.X, g.Location.Y, g.Progress.CurrentAct)

	right := fmt.Sprintf("HP %s %d | EN %s %d | TRACE %d%%  ",
		renderBar(g.HP, state.MaxHP),
		g.HP,
		renderBar(g.Mana, state.MaxMana),
		g.Mana,
		g.Progress.TraceLevel)
	if g.ActiveEnemy != nil {
		right = fmt.Sprintf("⚔ %s %d/%d | %s",
			g.ActiveEnemy.Name, g.ActiveEnemy.HP, g.ActiveEnemy.MaxHP, right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderObjectiveBar shows the current objective, or the end state.
func (m Model) renderObjectiveBar() string {
	g := m.engine.Game

	var text string
	switch g.Status {
	case types.StatusDead:
		return styleBanner.Width(m.width).Render(" CONNECTION TERMINATED — you have been recycled. /restart to jack back in.")
	case types.StatusVictory:
		return styleVictoryBanner.Width(m.width).Render(" LOGOUT COMPLETE — you are free.")
	default:
		text = " OBJECTIVE: " + objective(g)
	}
	return styleObjective.Width(m.width).Render(text)
}

// objective derives the current goal from story progress.
func objective(g *state.Game) string {
	p := g.Progress
	switch p.CurrentAct {
	case 1:
		if p.HasFirewallKey {
			return "Breach the Firewall Gate into Neon City."
		}
		return "Search the Recycle Bin for a Firewall Key."
	case 2:
		if p.HasAdminKeycard {
			return "Reach The Source with the Admin Keycard."
		}
		return "Find an Admin Keycard somewhere in Neon City."
	default:
		return "Reach Terminal Zero [0,0] and execute logout."
	}
}

// renderBar draws a fixed-width meter like ███████░░░.
func renderBar(value, max int) string {
	filled := 0
	if max > 0 {
		filled = value * barWidth / max
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
