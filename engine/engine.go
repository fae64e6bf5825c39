// Package engine orchestrates one command step: parse, gate, resolve
// (remote narrator or local tables), apply to state, and run the
// post-conditions that end a session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/engine/parser"
	"github.com/nathoo/edencore/engine/resolve"
	"github.com/nathoo/edencore/engine/rng"
	"github.com/nathoo/edencore/engine/state"
	"github.com/nathoo/edencore/narrator"
	"github.com/nathoo/edencore/sound"
	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

// ErrSessionOver is returned when a command arrives after death or
// victory.
var ErrSessionOver = errors.New("session is over")

// historyWindow is how many narrator lines accompany a remote request.
const historyWindow = 3

// historyLineCap truncates long narration before it travels.
const historyLineCap = 200

// keyEventWindow is how many key events accompany a remote request.
const keyEventWindow = 5

// enemyNames is the per-act default combatant, index by act.
var enemyNames = [4]string{"", "Spam Bot", "Hunter Protocol", "Elite Sentinel"}

// Engine drives a single session.
type Engine struct {
	Pack *content.Pack
	Game *state.Game
	RNG  *rng.RNG

	// Narrator is optional; nil means local resolution only.
	Narrator narrator.Client
	// Sound is optional.
	Sound sound.Player
	// Log is optional; fallbacks and remote failures are noted here.
	Log *log.Logger
}

// New creates an engine with a fresh session.
func New(pack *content.Pack, seed int64) *Engine {
	return &Engine{
		Pack: pack,
		Game: state.New(pack),
		RNG:  rng.New(seed),
	}
}

// Step runs one player command through the full pipeline and returns the
// narrative output in display order.
func (e *Engine) Step(ctx context.Context, input string) (types.Result, error) {
	g := e.Game
	if g.Status != types.StatusPlaying {
		return types.Result{}, ErrSessionOver
	}

	g.AddMessage(types.RolePlayer, input, "")
	cmd := parser.Parse(input)

	out, gated := e.gate(cmd)
	if !gated {
		out = e.dispatch(ctx, cmd, input)
	}

	result := e.apply(cmd, out, gated)
	sound.Notify(e.Sound, e.cue(result.Outcome))
	return result, nil
}

// gate handles the checks that must run locally before any resolution:
// the per-tile rest cooldown, the mana floor for active commands, and
// the act gate for moves with an explicit direction. A blocked command
// never reaches the narrator.
func (e *Engine) gate(cmd types.Command) (types.Outcome, bool) {
	g := e.Game
	switch cmd.Intent {
	case types.IntentMove:
		delta, ok := parser.Directions[cmd.Direction]
		if !ok {
			break
		}
		nx := world.Clamp(g.Location.X+delta.DX, world.MinX, world.MaxX)
		ny := world.Clamp(g.Location.Y+delta.DY, world.MinY, world.MaxY)
		if pool, blocked := resolve.GateCheck(g.Location.X, g.Location.Y, nx, ny, g.QuestFlags()); blocked {
			return types.Outcome{
				Narrative: e.RNG.Pick(e.Pack.Pool(pool, 0)),
				Mood:      types.MoodDanger,
				Intent:    cmd.Intent,
				Source:    types.SourceLocal,
			}, true
		}
	case types.IntentRest:
		if !g.CanRestHere() {
			return types.Outcome{
				Narrative: e.RNG.Pick(e.Pack.Pool(content.PoolRestCooldown, 0)),
				Mood:      types.MoodNeutral,
				Intent:    cmd.Intent,
				Source:    types.SourceLocal,
			}, true
		}
	case types.IntentHack, types.IntentAttack, types.IntentMagic:
		if g.Mana <= 0 {
			return types.Outcome{
				Narrative: e.RNG.Pick(e.Pack.Pool(content.PoolEnergyDepleted, 0)),
				Mood:      types.MoodDanger,
				Intent:    cmd.Intent,
				Source:    types.SourceLocal,
			}, true
		}
	}
	return types.Outcome{}, false
}

// dispatch resolves the command remotely when a narrator is configured,
// falling back to the local tables on any failure. An armed exploit
// short-circuits the hack roll entirely.
func (e *Engine) dispatch(ctx context.Context, cmd types.Command, input string) types.Outcome {
	g := e.Game

	if cmd.Intent == types.IntentHack && g.ExploitArmed {
		g.ExploitArmed = false
		return resolve.ForcedHack(e.RNG, e.Pack, g.Location, g.QuestFlags())
	}

	if e.Narrator != nil {
		out, err := e.Narrator.Generate(ctx, e.buildRequest(input))
		if err == nil {
			return out
		}
		if e.Log != nil {
			e.Log.Printf("narrator unavailable, resolving locally: %v", err)
		}
	}
	return resolve.Resolve(e.RNG, e.Pack, cmd, g.Location, g.QuestFlags())
}

// buildRequest assembles the remote narration request from session state.
func (e *Engine) buildRequest(input string) narrator.Request {
	g := e.Game

	history := g.RecentNarration(historyWindow)
	for i, line := range history {
		if len(line) > historyLineCap {
			history[i] = line[:historyLineCap]
		}
	}

	events := g.Progress.KeyEvents
	if len(events) > keyEventWindow {
		events = events[len(events)-keyEventWindow:]
	}
	descriptions := make([]string, 0, len(events))
	for _, ev := range events {
		descriptions = append(descriptions, ev.Description)
	}

	return narrator.Request{
		Command:       input,
		LocationName:  g.Location.Name,
		LocationX:     g.Location.X,
		LocationY:     g.Location.Y,
		HP:            g.HP,
		Mana:          g.Mana,
		RecentHistory: history,
		StoryProgress: narrator.ProgressSummary{
			CurrentAct:      g.Progress.CurrentAct,
			HasFirewallKey:  g.Progress.HasFirewallKey,
			HasAdminKeycard: g.Progress.HasAdminKeycard,
			EnemiesDefeated: g.Progress.EnemiesDefeated,
			HacksCompleted:  g.Progress.HacksCompleted,
			TilesExplored:   g.Progress.TilesExplored,
			TraceLevel:      g.Progress.TraceLevel,
			KeyEvents:       descriptions,
		},
	}
}

// apply commits an outcome to the session and runs post-conditions. The
// returned result carries every line produced, in display order. Gated
// outcomes (cooldown, empty mana) skip the intent-specific effects.
func (e *Engine) apply(cmd types.Command, out types.Outcome, gated bool) types.Result {
	g := e.Game
	var extra []string
	died := false

	if !gated {
		switch out.Intent {
		case types.IntentMove:
			out = e.applyMove(cmd, out)
		case types.IntentRest:
			g.MarkRestTile()
		case types.IntentHack:
			if out.HPDelta < 0 {
				g.Progress.HacksFailed++
				g.AddTrace(resolve.TraceHackFail)
			} else {
				g.Progress.HacksCompleted++
				g.AddTrace(resolve.TraceHackSuccess)
			}
		case types.IntentAttack:
			g.AddTrace(resolve.TraceAttack)
			extra = append(extra, e.applyCombat(true)...)
		case types.IntentMagic:
			g.AddTrace(resolve.TraceMagic)
			extra = append(extra, e.applyCombat(false)...)
		}
	}

	g.ApplyMana(out.ManaDelta)
	if g.ApplyHP(out.HPDelta) {
		died = true
	}

	if out.NewItem != nil {
		out.NewItem = e.grantItem(*out.NewItem)
	}

	if out.Intent == types.IntentSearch {
		extra = append(extra, e.applyLore()...)
	}

	g.AddMessage(types.RoleNarrator, out.Narrative, out.Mood)
	output := append([]string{out.Narrative}, extra...)

	// Post-conditions. Order matters: a trace spike can kill, and death
	// beats victory.
	if g.Status == types.StatusPlaying && g.Progress.TraceLevel >= state.TraceMax {
		line, spikeKilled := e.traceSpike()
		output = append(output, line)
		died = died || spikeKilled
	}

	if died {
		line := e.RNG.Pick(e.Pack.Pool(content.PoolDeath, 0))
		g.AddMessage(types.RoleNarrator, line, types.MoodDanger)
		output = append(output, line)
	} else if out.Victory && world.IsTerminal(g.Location.X, g.Location.Y) {
		g.SetStatus(types.StatusVictory)
	}

	return types.Result{Outcome: out, Output: output}
}

// applyMove commits a movement outcome. Remote responses never carry
// coordinates, so the destination is computed here and every move,
// whatever its source, is re-gated before it lands.
func (e *Engine) applyMove(cmd types.Command, out types.Outcome) types.Outcome {
	g := e.Game

	if out.NewLocation == nil {
		if out.Source == types.SourceLocal {
			// Local resolution already narrated the blocked gate.
			return out
		}
		dir := cmd.Direction
		if _, ok := parser.Directions[dir]; !ok {
			dir = e.RNG.Pick([]string{"north", "south", "east", "west"})
		}
		delta := parser.Directions[dir]
		out.NewLocation = &types.Location{
			X: world.Clamp(g.Location.X+delta.DX, world.MinX, world.MaxX),
			Y: world.Clamp(g.Location.Y+delta.DY, world.MinY, world.MaxY),
		}
		out.NewLocation.Name = e.Pack.LocationName(out.NewLocation.X, out.NewLocation.Y)
	}

	loc := *out.NewLocation
	if pool, blocked := resolve.GateCheck(g.Location.X, g.Location.Y, loc.X, loc.Y, g.QuestFlags()); blocked {
		line := e.RNG.Pick(e.Pack.Pool(pool, 0))
		if out.Source == types.SourceRemote {
			// Keep the remote narration but the player stays put.
			out.Narrative += "\n\n" + line
		} else {
			out.Narrative = line
		}
		out.Mood = types.MoodDanger
		out.NewLocation = nil
		out.NewItem = nil
		out.HPDelta = 0
		out.ManaDelta = 0
		out.Ambush = false
		return out
	}

	prevAct := g.Progress.CurrentAct
	first := g.SetLocation(loc)
	if first {
		g.AddTrace(resolve.TraceMoveFirst)
	} else {
		g.AddTrace(resolve.TraceMoveRevisit)
	}

	// Remote moves have not rolled for an ambush yet. Local moves
	// already did, whether or not it fired.
	if out.Source == types.SourceRemote && !out.Ambush {
		act := g.Progress.CurrentAct
		if e.RNG.Chance(resolve.AmbushChance[act]) {
			dmg := e.RNG.Range(resolve.AmbushDmgLo[act], resolve.AmbushDmgHi[act])
			out.Narrative += "\n\n" + e.RNG.Pick(e.Pack.AmbushPool(act))
			out.HPDelta -= dmg
			out.Mood = types.MoodDanger
			out.Ambush = true
		}
	}

	e.recordActTransition(prevAct, g.Progress.CurrentAct)
	return out
}

// recordActTransition marks one-time act completion events.
func (e *Engine) recordActTransition(from, to int) {
	g := e.Game
	switch {
	case from == 1 && to == 2 && !g.Progress.Act1Complete:
		g.Progress.Act1Complete = true
		g.AddStoryEvent("breached the Firewall Gate into Neon City")
	case from == 2 && to == 3 && !g.Progress.Act2Complete:
		g.Progress.Act2Complete = true
		g.AddStoryEvent("entered The Source with the Admin Keycard")
	}
}

// applyCombat damages the active enemy, seeding one first on a direct
// attack. Magic only strikes an enemy that is already engaged.
func (e *Engine) applyCombat(seed bool) []string {
	g := e.Game
	if g.ActiveEnemy == nil {
		if !seed {
			return nil
		}
		g.SetActiveEnemy(e.spawnEnemy())
	}

	name := g.ActiveEnemy.Name
	if g.DamageEnemy(e.RNG.Range(resolve.PlayerDmgLo, resolve.PlayerDmgHi)) {
		g.AddStoryEvent(fmt.Sprintf("destroyed %s", name))
		line := fmt.Sprintf("// SYSTEM: %s terminated.", name)
		g.AddMessage(types.RoleNarrator, line, types.MoodDanger)
		return []string{line}
	}
	return nil
}

// spawnEnemy creates the default combatant for the current act.
func (e *Engine) spawnEnemy() *types.Enemy {
	act := e.Game.Progress.CurrentAct
	hp := resolve.HunterBaseHP + resolve.HunterHPPerAct*act
	return &types.Enemy{
		Name:   enemyNames[act],
		HP:     hp,
		MaxHP:  hp,
		Damage: resolve.HunterBaseDmg + resolve.HunterDmgPerAct*act,
		Act:    act,
	}
}

// grantItem adds a found item unless it is a quest key already held.
func (e *Engine) grantItem(tmpl types.Item) *types.Item {
	g := e.Game
	quest := false
	for _, id := range []string{content.QuestFirewallKey, content.QuestAdminKeycard} {
		q, ok := e.Pack.Quest(id)
		if !ok || q.Item.Name != tmpl.Name {
			continue
		}
		quest = true
		if g.HasItemNamed(tmpl.Name) {
			return nil
		}
	}

	item := g.AddItem(tmpl)
	if quest {
		g.AddStoryEvent(fmt.Sprintf("found the %s", item.Name))
	}
	return &item
}

// applyLore surfaces the current tile's hidden lore on a search, once.
func (e *Engine) applyLore() []string {
	g := e.Game
	entry, ok := e.Pack.LoreForTile(g.TileKey())
	if !ok || !g.DiscoverLore(entry.ID) {
		return nil
	}
	g.AddStoryEvent(fmt.Sprintf("recovered %s", entry.Title))
	line := fmt.Sprintf("RECOVERED FILE: %s\n\n%s", entry.Title, entry.Content)
	g.AddMessage(types.RoleNarrator, line, types.MoodMystic)
	return []string{line}
}

// traceSpike fires when the trace meter maxes out: a hunter locks on,
// the player takes a hit, and the meter drops to its floor.
func (e *Engine) traceSpike() (string, bool) {
	g := e.Game
	g.SetActiveEnemy(e.spawnEnemy())
	g.ResetTraceAfterSpike()
	g.AddStoryEvent("trace complete: a hunter locked on")

	line := e.RNG.Pick(e.Pack.Pool(content.PoolHunter, 0))
	g.AddMessage(types.RoleNarrator, line, types.MoodDanger)
	return line, g.ApplyHP(-resolve.TraceSpikeHPCost)
}

// cue picks the sound effect for a finished step.
func (e *Engine) cue(out types.Outcome) sound.Effect {
	switch e.Game.Status {
	case types.StatusDead:
		return sound.EffectDeath
	case types.StatusVictory:
		return sound.EffectVictory
	}
	return sound.ActionEffect(out.Intent)
}
