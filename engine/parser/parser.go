// Package parser classifies command strings into action intents.
// Intentionally dumb: no NLP, just ordered keyword matching. The match
// order is load-bearing: hack vocabulary is checked before attack because
// commands like "hack and slash the firewall" must resolve to hack.
package parser

import (
	"strings"

	"github.com/nathoo/edencore/types"
)

// Delta is a movement offset on the grid.
type Delta struct {
	DX int
	DY int
}

// directionOrder fixes iteration order so classification is deterministic.
var directionOrder = []string{
	"north", "south", "east", "west", "up", "down", "left", "right",
}

// Directions maps a direction keyword to its grid delta. Up/down alias
// north/south, left/right alias west/east.
var Directions = map[string]Delta{
	"north": {0, -1},
	"south": {0, 1},
	"east":  {1, 0},
	"west":  {-1, 0},
	"up":    {0, -1},
	"down":  {0, 1},
	"left":  {-1, 0},
	"right": {1, 0},
}

var moveVerbs = wordSet("go", "walk", "move", "travel", "head", "run")

var hackWords = wordSet(
	"hack", "rewrite", "code", "sudo", "exploit", "inject",
	"override", "crack", "decrypt", "bypass",
)

var attackWords = wordSet(
	"attack", "fight", "strike", "slash", "hit", "kill",
	"slay", "stab", "swing", "delete", "terminate",
)

var magicWords = wordSet(
	"cast", "spell", "magic", "fireball", "heal", "enchant",
	"invoke", "conjure", "channel", "compile",
)

var restWords = wordSet(
	"rest", "sleep", "camp", "meditate", "sit", "relax",
	"recover", "reboot", "repair", "recharge",
)

var searchWords = wordSet(
	"search", "look", "examine", "inspect", "investigate", "explore",
	"find", "loot", "open", "grab", "take", "pick", "scan", "query",
)

// Parse classifies a raw command string. Matching is case-insensitive and
// tolerates punctuation. First match wins, in this order: logout, hack,
// direction+movement-verb (or a bare direction), attack, magic, rest,
// search, a direction anywhere, unknown.
func Parse(input string) types.Command {
	lower := strings.ToLower(strings.TrimSpace(input))
	words := tokenize(lower)

	if isLogout(lower, words) {
		return types.Command{Intent: types.IntentLogout}
	}

	if containsAny(words, hackWords) {
		return types.Command{Intent: types.IntentHack}
	}

	hasMoveVerb := containsAny(words, moveVerbs)
	for _, dir := range directionOrder {
		if !words[dir] {
			continue
		}
		if hasMoveVerb || singleWord(words, dir) {
			return types.Command{Intent: types.IntentMove, Direction: dir}
		}
	}

	if containsAny(words, attackWords) {
		return types.Command{Intent: types.IntentAttack}
	}
	if containsAny(words, magicWords) {
		return types.Command{Intent: types.IntentMagic}
	}
	if containsAny(words, restWords) {
		return types.Command{Intent: types.IntentRest}
	}
	if containsAny(words, searchWords) {
		return types.Command{Intent: types.IntentSearch}
	}

	// A direction anywhere still reads as movement.
	for _, dir := range directionOrder {
		if words[dir] {
			return types.Command{Intent: types.IntentMove, Direction: dir}
		}
	}

	return types.Command{Intent: types.IntentUnknown}
}

// isLogout matches the logout phrase: "logout" as a word, "log out", or the
// full "execute logout" incantation.
func isLogout(lower string, words map[string]bool) bool {
	if words["logout"] {
		return true
	}
	if words["log"] && words["out"] {
		return true
	}
	return strings.Contains(lower, "execute logout")
}

// tokenize splits the input into a set of lowercase words, stripping
// punctuation so "go north!" and "go, north" both classify.
func tokenize(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// singleWord reports whether the word set contains only the given word.
func singleWord(words map[string]bool, w string) bool {
	return len(words) == 1 && words[w]
}

func containsAny(words, vocab map[string]bool) bool {
	for w := range vocab {
		if words[w] {
			return true
		}
	}
	return false
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
