package content

import (
	"fmt"
	"strings"

	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

var requiredActPools = []string{PoolMove, PoolAttack, PoolRest, PoolSearch}

var requiredGlobalPools = []string{
	PoolHackSuccess, PoolHackFail, PoolMagic, PoolSearchEmpty,
	PoolUnknown, PoolLogoutReject, PoolLogoutVictory,
	PoolDeath, PoolHunter, PoolItemFound, PoolTrapFound,
	PoolGateFirewall, PoolGateSource, PoolGateSkip,
	PoolEnergyDepleted, PoolRestCooldown,
}

// validate enforces pack completeness so the engine never draws from an
// empty pool at runtime.
func validate(p *Pack) error {
	var errs []string
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if p.Title == "" {
		report("Game.title is required")
	}
	if p.TerminalName == "" {
		report("Game.terminal is required")
	}
	if p.Intro == "" {
		report("Game.intro is required")
	}
	if !types.ValidMood(p.IntroMood) {
		report("Game.intro_mood %q is not a valid mood", p.IntroMood)
	}
	if !world.InBounds(p.StartX, p.StartY) {
		report("Game.start (%d,%d) is outside the world", p.StartX, p.StartY)
	}
	if len(p.StarterItems) == 0 {
		report("Starter{} must declare at least one item")
	}

	for act := 1; act <= 3; act++ {
		if len(p.Locations[act]) == 0 {
			report("Locations(%d) is missing or empty", act)
		}
		for _, name := range requiredActPools {
			if len(p.Pool(name, act)) == 0 {
				report("Pool(%q, %d) is missing or empty", name, act)
			}
		}
		if len(p.ItemPools[act]) == 0 {
			report("Items(%d) is missing or empty", act)
		}
	}
	// Ambushes exist only where moves can be interrupted.
	for act := 2; act <= 3; act++ {
		if len(p.AmbushPool(act)) == 0 {
			report("Ambush(%d) is missing or empty", act)
		}
	}

	for _, name := range requiredGlobalPools {
		if len(p.Pool(name, 0)) == 0 {
			report("Pool(%q) is missing or empty", name)
		}
	}

	for _, id := range []string{QuestFirewallKey, QuestAdminKeycard} {
		q, ok := p.QuestItems[id]
		if !ok {
			report("QuestItem(%q) is not defined", id)
			continue
		}
		if q.Item.Name == "" || q.Item.Icon == "" {
			report("QuestItem(%q) needs a name and icon", id)
		}
	}

	for _, entry := range p.Lore {
		if entry.Title == "" || entry.Content == "" {
			report("Lore(%q) needs a title and content", entry.ID)
		}
		if entry.Act < 1 || entry.Act > 3 {
			report("Lore(%q) act %d out of range", entry.ID, entry.Act)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid content pack:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
