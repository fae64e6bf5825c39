// Package sound maps engine events to effect cues. Playback is
// best-effort: a broken player must never take the game down.
package sound

import "github.com/nathoo/edencore/types"

// Effect is a named sound cue.
type Effect string

const (
	EffectMove    Effect = "move"
	EffectCombat  Effect = "combat"
	EffectHack    Effect = "hack"
	EffectRest    Effect = "rest"
	EffectSearch  Effect = "search"
	EffectError   Effect = "error"
	EffectVictory Effect = "victory"
	EffectDeath   Effect = "death"
)

// Player emits a sound cue. Implementations must not block.
type Player interface {
	Play(effect Effect)
}

// ActionEffect maps an intent to its cue. Magic shares the hack cue.
func ActionEffect(intent types.IntentKind) Effect {
	switch intent {
	case types.IntentMove:
		return EffectMove
	case types.IntentAttack:
		return EffectCombat
	case types.IntentHack, types.IntentMagic:
		return EffectHack
	case types.IntentRest:
		return EffectRest
	case types.IntentSearch, types.IntentLogout:
		return EffectSearch
	default:
		return EffectError
	}
}

// Notify plays a cue on a player, swallowing a nil player and any panic
// from a misbehaving implementation.
func Notify(p Player, effect Effect) {
	if p == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	p.Play(effect)
}
