// Package types defines the shared data structures for the EdenCore engine.
// This package contains only type definitions, no logic beyond trivial
// accessors.
package types

// Mood colors a narrative line and the front-end presentation.
type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodDanger  Mood = "danger"
	MoodMystic  Mood = "mystic"
)

// ValidMood reports whether m is one of the known moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodNeutral, MoodDanger, MoodMystic:
		return true
	}
	return false
}

// IntentKind is the classified action behind a player command.
type IntentKind string

const (
	IntentMove    IntentKind = "move"
	IntentAttack  IntentKind = "attack"
	IntentHack    IntentKind = "hack"
	IntentMagic   IntentKind = "magic"
	IntentRest    IntentKind = "rest"
	IntentSearch  IntentKind = "search"
	IntentLogout  IntentKind = "logout"
	IntentUnknown IntentKind = "unknown"
)

// ValidIntent reports whether k is one of the known intents.
func ValidIntent(k IntentKind) bool {
	switch k {
	case IntentMove, IntentAttack, IntentHack, IntentMagic,
		IntentRest, IntentSearch, IntentLogout, IntentUnknown:
		return true
	}
	return false
}

// Command is the parsed representation of a player command.
type Command struct {
	Intent    IntentKind
	Direction string // set only for move, may be empty ("wander")
}

// Location is a position on the world grid.
type Location struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Name string `json:"name"`
}

// Item is an inventory entry. Icon is the category tag that drives
// usability: a closed set of icons are consumable, the rest are inert
// quest items.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

// Enemy is the single active combatant, if any.
type Enemy struct {
	Name   string `json:"name"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Damage int    `json:"damage"`
	Act    int    `json:"act"`
}

// Role identifies who produced a history entry.
type Role string

const (
	RoleNarrator Role = "narrator"
	RolePlayer   Role = "player"
)

// HistoryEntry is one line of the session transcript.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Mood    Mood   `json:"mood,omitempty"`
}

// StoryEvent is one entry of the capped key-event ring buffer.
type StoryEvent struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Act         int    `json:"act"`
	Timestamp   int64  `json:"timestamp"`
}

// StoryProgress is the durable campaign state.
type StoryProgress struct {
	CurrentAct      int          `json:"current_act"`
	HasFirewallKey  bool         `json:"has_firewall_key"`
	HasAdminKeycard bool         `json:"has_admin_keycard"`
	Act1Complete    bool         `json:"act1_complete"`
	Act2Complete    bool         `json:"act2_complete"`
	EnemiesDefeated int          `json:"enemies_defeated"`
	HacksCompleted  int          `json:"hacks_completed"`
	HacksFailed     int          `json:"hacks_failed"`
	TilesExplored   int          `json:"tiles_explored"`
	ItemsUsed       int          `json:"items_used"`
	TraceLevel      int          `json:"trace_level"`
	KeyEvents       []StoryEvent `json:"key_events"`
	DiscoveredLore  []string     `json:"discovered_lore"`
}

// QuestFlags is the subset of story progress the resolution engine needs
// to avoid offering quest items the player already holds.
type QuestFlags struct {
	FirewallKey  bool
	AdminKeycard bool
}

// Status is the session lifecycle state. Transitions are one-way:
// playing → dead or playing → victory, never back.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusDead    Status = "dead"
	StatusVictory Status = "victory"
)

// Source records which narrator produced an Outcome.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Outcome is the structured result of resolving one command, before it is
// applied to the state store. Both the local engine and the validated
// remote narrator response reduce to this shape.
type Outcome struct {
	Narrative   string
	Mood        Mood
	HPDelta     int
	ManaDelta   int
	NewItem     *Item     // nil when nothing was found/granted
	NewLocation *Location // nil unless the resolver moved the player
	Victory     bool
	Ambush      bool // an ambush/interrupt is already baked into the deltas
	Intent      IntentKind
	Source      Source
}

// Result is the output of a single engine step, for front ends.
type Result struct {
	Outcome Outcome
	Output  []string // narrative plus any follow-up lines, in order
}

// LoreEntry is a discoverable world-building fragment tied to a tile.
type LoreEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Act     int    `json:"act"`
	TileKey string `json:"tile_key,omitempty"`
}
