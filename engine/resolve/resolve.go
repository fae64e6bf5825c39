// Package resolve turns a classified command into a local outcome using
// seeded randomness and the content pack's narrative pools. It is the
// offline path: everything the remote narrator does, resolved from tuning
// tables instead of a model.
package resolve

import (
	"fmt"

	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/engine/parser"
	"github.com/nathoo/edencore/engine/rng"
	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

// cardinals is the fallback direction pool for undirected movement.
var cardinals = []string{"north", "south", "east", "west"}

// Resolve produces the outcome for a command at a location. It never
// mutates state: deltas, items, and destinations are reported in the
// outcome and applied by the caller.
func Resolve(r *rng.RNG, pack *content.Pack, cmd types.Command, loc types.Location, flags types.QuestFlags) types.Outcome {
	switch cmd.Intent {
	case types.IntentMove:
		return resolveMove(r, pack, cmd, loc, flags)
	case types.IntentAttack:
		return resolveAttack(r, pack, loc)
	case types.IntentHack:
		return resolveHack(r, pack, loc, flags)
	case types.IntentMagic:
		return resolveMagic(r, pack)
	case types.IntentRest:
		return resolveRest(r, pack, loc)
	case types.IntentSearch:
		return resolveSearch(r, pack, loc, flags)
	case types.IntentLogout:
		return resolveLogout(r, pack, loc)
	default:
		return types.Outcome{
			Narrative: r.Pick(pack.Pool(content.PoolUnknown, 0)),
			Mood:      types.MoodNeutral,
			Intent:    types.IntentUnknown,
			Source:    types.SourceLocal,
		}
	}
}

// GateCheck reports whether moving between two tiles is blocked by an act
// gate, and if so, which pool narrates the refusal. Progression runs
// outward-in: act 1 to act 2 needs the firewall key, act 2 to act 3 needs
// the admin keycard.
func GateCheck(fromX, fromY, toX, toY int, flags types.QuestFlags) (string, bool) {
	from, to := world.Act(fromX, fromY), world.Act(toX, toY)
	switch {
	case from == 1 && to == 3:
		return content.PoolGateSkip, true
	case from == 1 && to == 2 && !flags.FirewallKey:
		return content.PoolGateFirewall, true
	case from == 2 && to == 3 && !flags.AdminKeycard:
		return content.PoolGateSource, true
	}
	return "", false
}

func resolveMove(r *rng.RNG, pack *content.Pack, cmd types.Command, loc types.Location, flags types.QuestFlags) types.Outcome {
	dir := cmd.Direction
	if _, ok := parser.Directions[dir]; !ok {
		dir = r.Pick(cardinals)
	}
	delta := parser.Directions[dir]
	nx := world.Clamp(loc.X+delta.DX, world.MinX, world.MaxX)
	ny := world.Clamp(loc.Y+delta.DY, world.MinY, world.MaxY)

	if pool, blocked := GateCheck(loc.X, loc.Y, nx, ny, flags); blocked {
		return types.Outcome{
			Narrative: r.Pick(pack.Pool(pool, 0)),
			Mood:      types.MoodDanger,
			Intent:    types.IntentMove,
			Source:    types.SourceLocal,
		}
	}

	act := world.Act(nx, ny)
	out := types.Outcome{
		Narrative:   r.Pick(pack.Pool(content.PoolMove, act)),
		Mood:        types.MoodNeutral,
		ManaDelta:   -MoveManaCost,
		NewLocation: &types.Location{X: nx, Y: ny, Name: pack.LocationName(nx, ny)},
		Intent:      types.IntentMove,
		Source:      types.SourceLocal,
	}

	if r.Chance(AmbushChance[act]) {
		dmg := r.Range(AmbushDmgLo[act], AmbushDmgHi[act])
		out.Narrative += "\n\n" + r.Pick(pack.AmbushPool(act))
		out.HPDelta = -dmg
		out.Mood = types.MoodDanger
		out.Ambush = true
	}
	return out
}

func resolveAttack(r *rng.RNG, pack *content.Pack, loc types.Location) types.Outcome {
	act := world.Act(loc.X, loc.Y)
	return types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolAttack, act)),
		Mood:      types.MoodDanger,
		HPDelta:   -r.Range(RetaliationLo[act], RetaliationHi[act]),
		Intent:    types.IntentAttack,
		Source:    types.SourceLocal,
	}
}

func resolveHack(r *rng.RNG, pack *content.Pack, loc types.Location, flags types.QuestFlags) types.Outcome {
	act := world.Act(loc.X, loc.Y)
	if !r.Chance(HackSuccessChance[act]) {
		return types.Outcome{
			Narrative: r.Pick(pack.Pool(content.PoolHackFail, 0)),
			Mood:      types.MoodDanger,
			HPDelta:   -HackFailHPCost[act],
			ManaDelta: -HackFailManaCost,
			Intent:    types.IntentHack,
			Source:    types.SourceLocal,
		}
	}
	return hackSuccess(r, pack, act, flags)
}

// ForcedHack resolves a hack that bypasses the success roll, as when a
// zero-day exploit is armed.
func ForcedHack(r *rng.RNG, pack *content.Pack, loc types.Location, flags types.QuestFlags) types.Outcome {
	return hackSuccess(r, pack, world.Act(loc.X, loc.Y), flags)
}

func hackSuccess(r *rng.RNG, pack *content.Pack, act int, flags types.QuestFlags) types.Outcome {
	out := types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolHackSuccess, 0)),
		Mood:      types.MoodMystic,
		ManaDelta: -r.Range(HackSuccessManaLo, HackSuccessManaHi),
		Intent:    types.IntentHack,
		Source:    types.SourceLocal,
	}
	if item := rollQuestItem(r, pack, act, flags, HackQuestChanceAct1, HackQuestChanceAct2); item != nil {
		out.NewItem = item
		out.Narrative += "\n\n" + itemFoundLine(r, pack, item.Name)
	}
	return out
}

func resolveMagic(r *rng.RNG, pack *content.Pack) types.Outcome {
	return types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolMagic, 0)),
		Mood:      types.MoodMystic,
		ManaDelta: -r.Range(MagicManaLo, MagicManaHi),
		Intent:    types.IntentMagic,
		Source:    types.SourceLocal,
	}
}

func resolveRest(r *rng.RNG, pack *content.Pack, loc types.Location) types.Outcome {
	act := world.Act(loc.X, loc.Y)
	manaGain := r.Range(RestManaLo[act], RestManaHi[act])

	// An interruption converts the HP gain into a loss; the mana
	// recovered before the attack is kept.
	if act >= 2 && r.Chance(RestInterruptChance) {
		return types.Outcome{
			Narrative: r.Pick(pack.AmbushPool(act)),
			Mood:      types.MoodDanger,
			HPDelta:   -r.Range(RestInterruptDmgLo, RestInterruptDmgHi),
			ManaDelta: manaGain,
			Intent:    types.IntentRest,
			Source:    types.SourceLocal,
		}
	}
	return types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolRest, act)),
		Mood:      types.MoodNeutral,
		HPDelta:   r.Range(RestHPLo[act], RestHPHi[act]),
		ManaDelta: manaGain,
		Intent:    types.IntentRest,
		Source:    types.SourceLocal,
	}
}

func resolveSearch(r *rng.RNG, pack *content.Pack, loc types.Location, flags types.QuestFlags) types.Outcome {
	act := world.Act(loc.X, loc.Y)
	if !r.Chance(SearchFindChance[act]) {
		return types.Outcome{
			Narrative: r.Pick(pack.Pool(content.PoolSearchEmpty, 0)),
			Mood:      types.MoodNeutral,
			Intent:    types.IntentSearch,
			Source:    types.SourceLocal,
		}
	}

	item := rollQuestItem(r, pack, act, flags, SearchQuestChanceAct1, SearchQuestChanceAct2)
	if item == nil {
		item = pickItem(r, pack.ItemPools[act])
	}

	out := types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolSearch, act)),
		Mood:      types.MoodMystic,
		NewItem:   item,
		Intent:    types.IntentSearch,
		Source:    types.SourceLocal,
	}
	if item != nil {
		out.Narrative += "\n\n" + itemFoundLine(r, pack, item.Name)
	}

	if r.Chance(SearchTrapChance[act]) {
		out.Narrative += "\n\n" + r.Pick(pack.Pool(content.PoolTrapFound, 0))
		out.HPDelta = -r.Range(SearchTrapDmgLo, SearchTrapDmgHi)
		out.Mood = types.MoodDanger
	}
	return out
}

func resolveLogout(r *rng.RNG, pack *content.Pack, loc types.Location) types.Outcome {
	if world.IsTerminal(loc.X, loc.Y) {
		return types.Outcome{
			Narrative: r.Pick(pack.Pool(content.PoolLogoutVictory, 0)),
			Mood:      types.MoodMystic,
			Victory:   true,
			Intent:    types.IntentLogout,
			Source:    types.SourceLocal,
		}
	}
	return types.Outcome{
		Narrative: r.Pick(pack.Pool(content.PoolLogoutReject, 0)),
		Mood:      types.MoodNeutral,
		Intent:    types.IntentLogout,
		Source:    types.SourceLocal,
	}
}

// rollQuestItem rolls for the act's undiscovered quest item. Acts 1 and 2
// each hide one; act 3 has none.
func rollQuestItem(r *rng.RNG, pack *content.Pack, act int, flags types.QuestFlags, chance1, chance2 float64) *types.Item {
	var id string
	var chance float64
	switch {
	case act == 1 && !flags.FirewallKey:
		id, chance = content.QuestFirewallKey, chance1
	case act == 2 && !flags.AdminKeycard:
		id, chance = content.QuestAdminKeycard, chance2
	default:
		return nil
	}
	if !r.Chance(chance) {
		return nil
	}
	q, ok := pack.Quest(id)
	if !ok {
		return nil
	}
	item := q.Item
	return &item
}

func pickItem(r *rng.RNG, pool []types.Item) *types.Item {
	if len(pool) == 0 {
		return nil
	}
	item := pool[r.Intn(len(pool))]
	return &item
}

func itemFoundLine(r *rng.RNG, pack *content.Pack, name string) string {
	return fmt.Sprintf(r.Pick(pack.Pool(content.PoolItemFound, 0)), name)
}
