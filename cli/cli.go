// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the EdenCore engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nathoo/edencore/engine"
	"github.com/nathoo/edencore/engine/save"
	"github.com/nathoo/edencore/session"
	"github.com/nathoo/edencore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Saves     *session.Store // nil disables /save and friends
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, saves *session.Store) *CLI {
	return &CLI{
		Engine: eng,
		Saves:  saves,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop: intro, then prompt → input → dispatch →
// output until EOF or /quit.
func (c *CLI) Run(ctx context.Context) {
	c.printLine(c.Engine.Pack.Intro)
	c.printLine("")
	c.printStatus()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result, err := c.Engine.Step(ctx, input)
		if errors.Is(err, engine.ErrSessionOver) {
			c.printSystem("The session is over. /restart to jack back in, /quit to leave.")
			continue
		}
		if err != nil {
			c.printSystem(fmt.Sprintf("Error: %v", err))
			continue
		}
		c.printResult(result)
		c.printStatus()
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/saves":
		c.cmdSaves()

	case "/delete":
		c.cmdDelete(arg)

	case "/restart":
		c.cmdRestart()

	case "/use":
		c.cmdUse(strings.TrimSpace(strings.TrimPrefix(input, "/use")))

	case "/stats":
		c.cmdStats()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if c.Saves == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = "quicksave"
	}

	raw, err := save.Encode(save.Capture(c.Engine.Game, c.Engine.RNG))
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := c.Saves.Put(name, raw); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if c.Saves == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = "quicksave"
	}

	raw, err := c.Saves.Get(name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	data, err := save.Decode(raw)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine.Game, c.Engine.RNG = save.Restore(data)
	c.printSystem(fmt.Sprintf("Game loaded from %s.", name))
	c.printStatus()
}

func (c *CLI) cmdSaves() {
	if c.Saves == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	slots, err := c.Saves.List()
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saved games.")
		return
	}
	for _, slot := range slots {
		c.printSystem(fmt.Sprintf("%s — %s", slot.Name, slot.SavedAt.Format(time.DateTime)))
	}
}

func (c *CLI) cmdDelete(name string) {
	if c.Saves == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		c.printSystem("Usage: /delete <name>")
		return
	}
	if err := c.Saves.Delete(name); err != nil {
		c.printSystem(fmt.Sprintf("Delete failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Deleted %s.", name))
}

func (c *CLI) cmdRestart() {
	fresh := engine.New(c.Engine.Pack, time.Now().UnixNano())
	fresh.Narrator = c.Engine.Narrator
	fresh.Sound = c.Engine.Sound
	fresh.Log = c.Engine.Log
	c.Engine = fresh
	c.lastCmd = ""

	c.printSystem("Session restarted.")
	c.printLine("")
	c.printLine(c.Engine.Pack.Intro)
	c.printLine("")
	c.printStatus()
}

func (c *CLI) cmdUse(ref string) {
	if ref == "" {
		c.printSystem("Usage: /use <item>")
		return
	}
	eff, err := c.Engine.Game.UseItem(ref)
	if err != nil {
		c.printSystem(fmt.Sprintf("Can't use that: %v", err))
		return
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
	c.printSystem(strings.Join(parts, " "))
	c.printStatus()
}

func (c *CLI) cmdStats() {
	g := c.Engine.Game
	p := g.Progress
	c.printSystem(fmt.Sprintf("Location: %s [%d,%d] — Act %d", g.Location.Name, g.Location.X, g.Location.Y, p.CurrentAct))
	c.printSystem(fmt.Sprintf("Stability: %d/100  Energy: %d/100  Trace: %d%%", g.HP, g.Mana, p.TraceLevel))
	c.printSystem(fmt.Sprintf("Explored: %d tiles  Hacks: %d ok / %d failed  Kills: %d", p.TilesExplored, p.HacksCompleted, p.HacksFailed, p.EnemiesDefeated))
	if g.ActiveEnemy != nil {
		c.printSystem(fmt.Sprintf("Engaged: %s (%d/%d)", g.ActiveEnemy.Name, g.ActiveEnemy.HP, g.ActiveEnemy.MaxHP))
	}
	if len(g.Inventory) == 0 {
		c.printSystem("Inventory: empty")
		return
	}
	names := make([]string, 0, len(g.Inventory))
	for _, item := range g.Inventory {
		names = append(names, item.Name)
	}
	c.printSystem("Inventory: " + strings.Join(names, ", "))
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for i, line := range result.Output {
		if i > 0 {
			c.printLine("")
		}
		c.printLine(line)
	}
}

func (c *CLI) printStatus() {
	g := c.Engine.Game
	switch g.Status {
	case types.StatusDead:
		c.printSystem("CONNECTION TERMINATED — you have been recycled.")
	case types.StatusVictory:
		c.printSystem("LOGOUT COMPLETE — you are free.")
	default:
		c.printSystem(fmt.Sprintf("%s [%d,%d]  HP %d  EN %d  TRACE %d%%",
			g.Location.Name, g.Location.X, g.Location.Y, g.HP, g.Mana, g.Progress.TraceLevel))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
