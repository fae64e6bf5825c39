package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/edencore/engine"
	"github.com/nathoo/edencore/engine/save"
	"github.com/nathoo/edencore/session"
	"github.com/nathoo/edencore/types"
)

// rawLine stores an unstyled output line with its mood, so the narrative
// can be re-wrapped and re-styled when the terminal is resized.
type rawLine struct {
	text     string
	mood     types.Mood
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the EdenCore TUI.
type Model struct {
	engine *engine.Engine
	saves  *session.Store // nil disables /save and friends

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string // echoed player input (empty for intro)
	lines    []rawLine
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, saves *session.Store) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		saves:   saves,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, saves *session.Store) error {
	m := New(eng, saves)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that shows the intro.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		pack := m.engine.Pack
		lines := []rawLine{
			{text: fmt.Sprintf("%s v%s by %s", pack.Title, pack.Version, pack.Author), isSystem: true},
			{},
		}
		lines = append(lines, narrativeLines(pack.Intro, pack.IntroMood)...)
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 3 // status bar + objective bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: systemLines("Nothing to repeat."), isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: systemLines(output...), isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	result, err := m.engine.Step(context.Background(), input)
	if errors.Is(err, engine.ErrSessionOver) {
		m = m.appendOutput(gameOutputMsg{
			input: input,
			lines: systemLines("The session is over. /restart to jack back in, /quit to leave."),
		})
		return m, nil
	}
	if err != nil {
		m = m.appendOutput(gameOutputMsg{input: input, lines: systemLines(fmt.Sprintf("Error: %v", err))})
		return m, nil
	}

	var lines []rawLine
	for i, block := range result.Output {
		if i > 0 {
			lines = append(lines, rawLine{})
		}
		lines = append(lines, narrativeLines(block, blockMood(result.Outcome, i))...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

// blockMood picks a mood for each output block. The first block is the
// main narrative; follow-ups are lore recoveries or alarms.
func blockMood(out types.Outcome, index int) types.Mood {
	if index == 0 {
		return out.Mood
	}
	return types.MoodDanger
}

// narrativeLines splits a narrative block into raw lines with a mood.
func narrativeLines(block string, mood types.Mood) []rawLine {
	if strings.HasPrefix(block, "RECOVERED FILE") {
		mood = types.MoodMystic
	}
	var lines []rawLine
	for _, line := range strings.Split(block, "\n") {
		lines = append(lines, rawLine{text: line, mood: mood})
	}
	return lines
}

func systemLines(texts ...string) []rawLine {
	lines := make([]rawLine, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, rawLine{text: t, isSystem: true})
	}
	return lines
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	m.rawLines = append(m.rawLines, msg.lines...)

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderNarrative(wrapped, rl.mood))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status + objective + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" +
		m.renderStatusBar() + "\n" +
		m.renderObjectiveBar() + "\n" +
		m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/saves":
		return m.cmdSaves(), false

	case "/delete":
		return m.cmdDelete(arg), false

	case "/restart":
		return m.cmdRestart(), false

	case "/use":
		return m.cmdUse(strings.TrimSpace(strings.TrimPrefix(input, "/use"))), false

	case "/stats":
		return m.cmdStats(), false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if m.saves == nil {
		return []string{"Saving is disabled."}
	}
	if name == "" {
		name = "quicksave"
	}

	raw, err := save.Encode(save.Capture(m.engine.Game, m.engine.RNG))
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := m.saves.Put(name, raw); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if m.saves == nil {
		return []string{"Saving is disabled."}
	}
	if name == "" {
		name = "quicksave"
	}

	raw, err := m.saves.Get(name)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	data, err := save.Decode(raw)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.engine.Game, m.engine.RNG = save.Restore(data)
	return []string{fmt.Sprintf("Game loaded from %s.", name)}
}

func (m *Model) cmdSaves() []string {
	if m.saves == nil {
		return []string{"Saving is disabled."}
	}
	slots, err := m.saves.List()
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saved games."}
	}
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, fmt.Sprintf("%s — %s", slot.Name, slot.SavedAt.Format(time.DateTime)))
	}
	return out
}

func (m *Model) cmdDelete(name string) []string {
	if m.saves == nil {
		return []string{"Saving is disabled."}
	}
	if name == "" {
		return []string{"Usage: /delete <name>"}
	}
	if err := m.saves.Delete(name); err != nil {
		return []string{fmt.Sprintf("Delete failed: %v", err)}
	}
	return []string{fmt.Sprintf("Deleted %s.", name)}
}

func (m *Model) cmdRestart() []string {
	fresh := engine.New(m.engine.Pack, time.Now().UnixNano())
	fresh.Narrator = m.engine.Narrator
	fresh.Sound = m.engine.Sound
	fresh.Log = m.engine.Log
	m.engine = fresh
	m.lastCmd = ""
	return []string{"Session restarted.", "", m.engine.Pack.Intro}
}

func (m *Model) cmdUse(ref string) []string {
	if ref == "" {
		return []string{"Usage: /use <item>"}
	}
	eff, err := m.engine.Game.UseItem(ref)
	if err != nil {
		return []string{fmt.Sprintf("Can't use that: %v", err)}
	}
	parts := []string{fmt.Sprintf("Used %s.", eff.Item.Name)}
	if eff.HPDelta != 0 {
		parts = append(parts, fmt.Sprintf("Stability %+d.", eff.HPDelta))
	}
	if eff.ManaDelta != 0 {
		parts = append(parts, fmt.Sprintf("Energy %+d.", eff.ManaDelta))
	}
	if eff.TraceDelta != 0 {
		parts = append(parts, fmt.Sprintf("Trace %+d.", eff.TraceDelta))
	}
	if eff.ArmedExploit {
		parts = append(parts, "The next hack cannot fail.")
	}
	return []string{strings.Join(parts, " ")}
}

func (m *Model) cmdStats() []string {
	g := m.engine.Game
	p := g.Progress
	out := []string{
		fmt.Sprintf("Location: %s [%d,%d] — Act %d", g.Location.Name, g.Location.X, g.Location.Y, p.CurrentAct),
		fmt.Sprintf("Stability: %d/100  Energy: %d/100  Trace: %d%%", g.HP, g.Mana, p.TraceLevel),
		fmt.Sprintf("Explored: %d tiles  Hacks: %d ok / %d failed  Kills: %d",
			p.TilesExplored, p.HacksCompleted, p.HacksFailed, p.EnemiesDefeated),
	}
	if g.ActiveEnemy != nil {
		out = append(out, fmt.Sprintf("Engaged: %s (%d/%d)", g.ActiveEnemy.Name, g.ActiveEnemy.HP, g.ActiveEnemy.MaxHP))
	}
	if len(g.Inventory) == 0 {
		return append(out, "Inventory: empty")
	}
	names := make([]string, 0, len(g.Inventory))
	for _, item := range g.Inventory {
		names = append(names, item.Name)
	}
	return append(out, "Inventory: "+strings.Join(names, ", "))
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]   — Save game (default: quicksave)",
		"  /load [name]   — Load game (default: quicksave)",
		"  /saves         — List saved games",
		"  /delete <name> — Delete a saved game",
		"  /restart       — Start a fresh session",
		"  /use <item>    — Use an inventory item",
		"  /stats         — Show vitals, progress, and inventory",
		"  /quit          — Exit game",
		"  /help          — Show this help",
		"",
		"Game commands:",
		"  go/walk <dir>   — Move (or just type north/south/east/west)",
		"  hack <thing>    — Break through security",
		"  attack <thing>  — Fight whatever is in front of you",
		"  cast <spell>    — Burn energy for a data surge",
		"  search          — Dig through the current tile",
		"  rest            — Recover (once per tile)",
		"  execute logout  — Leave Eden (Terminal Zero only)",
		"  again (g)       — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
