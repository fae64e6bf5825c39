package resolve

// Gameplay tuning. Per-act values are indexed by act number (1–3);
// index 0 is unused.

// Movement.
const (
	MoveManaCost = 5
)

var (
	AmbushChance = [4]float64{0, 0, 0.30, 0.40}
	AmbushDmgLo  = [4]int{0, 0, 5, 8}
	AmbushDmgHi  = [4]int{0, 0, 12, 17}
)

// Combat. Retaliation is the damage the player takes back per swing.
var (
	RetaliationLo = [4]int{0, 2, 5, 8}
	RetaliationHi = [4]int{0, 6, 12, 19}
)

// Hacking.
var (
	HackSuccessChance = [4]float64{0, 0.50, 0.35, 0.25}
	HackFailHPCost    = [4]int{0, 8, 12, 15}
)

const (
	HackSuccessManaLo = 10
	HackSuccessManaHi = 19
	HackFailManaCost  = 5

	// Chance that a successful hack surfaces the act's quest item.
	HackQuestChanceAct1 = 0.35
	HackQuestChanceAct2 = 0.25
)

// Magic.
const (
	MagicManaLo = 15
	MagicManaHi = 26
)

// Resting. Deeper acts recover less.
var (
	RestHPLo   = [4]int{0, 4, 3, 1}
	RestHPHi   = [4]int{0, 8, 7, 3}
	RestManaLo = [4]int{0, 5, 2, 1}
	RestManaHi = [4]int{0, 12, 6, 3}
)

const (
	RestInterruptChance = 0.5
	RestInterruptDmgLo  = 3
	RestInterruptDmgHi  = 7
)

// Player damage dealt to the active enemy per attack or spell.
const (
	PlayerDmgLo = 6
	PlayerDmgHi = 14
)

// Trace meter movement per action. Moving cools the trail; loud actions
// heat it.
const (
	TraceHackFail    = 15
	TraceHackSuccess = 5
	TraceAttack      = 10
	TraceMagic       = 8
	TraceMoveFirst   = -5
	TraceMoveRevisit = -2
)

// Hunter spawns, used both for trace spikes and enemy seeding. Stats
// scale with act depth.
const (
	HunterBaseHP     = 20
	HunterHPPerAct   = 10
	HunterBaseDmg    = 4
	HunterDmgPerAct  = 3
	TraceSpikeHPCost = 15
)

// Searching.
var (
	SearchFindChance = [4]float64{0, 0.70, 0.50, 0.35}
	SearchTrapChance = [4]float64{0, 0.05, 0.20, 0.35}
)

const (
	SearchQuestChanceAct1 = 0.35
	SearchQuestChanceAct2 = 0.25

	SearchTrapDmgLo = 3
	SearchTrapDmgHi = 8
)
