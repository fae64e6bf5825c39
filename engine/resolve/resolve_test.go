package resolve

import (
	"strings"
	"testing"

	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/engine/rng"
	"github.com/nathoo/edencore/types"
)

func testPack(t *testing.T) *content.Pack {
	t.Helper()
	pack, err := content.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return pack
}

func TestResolveDeterministic(t *testing.T) {
	pack := testPack(t)
	cmd := types.Command{Intent: types.IntentSearch}
	loc := types.Location{X: 4, Y: 4, Name: "Recycle Bin"}

	a := Resolve(rng.New(42), pack, cmd, loc, types.QuestFlags{})
	b := Resolve(rng.New(42), pack, cmd, loc, types.QuestFlags{})
	if a.Narrative != b.Narrative || a.HPDelta != b.HPDelta || a.ManaDelta != b.ManaDelta {
		t.Error("same seed produced different outcomes")
	}
}

func TestResolveMove(t *testing.T) {
	pack := testPack(t)
	loc := types.Location{X: 4, Y: 4, Name: "Recycle Bin"}
	cmd := types.Command{Intent: types.IntentMove, Direction: "north"}

	out := Resolve(rng.New(1), pack, cmd, loc, types.QuestFlags{})
	if out.NewLocation == nil {
		t.Fatal("move produced no destination")
	}
	if out.NewLocation.X != 4 || out.NewLocation.Y != 3 {
		t.Errorf("north from (4,4) = (%d,%d), want (4,3)", out.NewLocation.X, out.NewLocation.Y)
	}
	if out.NewLocation.Name == "" {
		t.Error("destination has no name")
	}
	if out.ManaDelta != -MoveManaCost {
		t.Errorf("move mana delta = %d, want %d", out.ManaDelta, -MoveManaCost)
	}
	if out.Ambush {
		t.Error("ambush fired in act 1")
	}
	if out.Intent != types.IntentMove || out.Source != types.SourceLocal {
		t.Errorf("intent/source = %s/%s", out.Intent, out.Source)
	}
}

func TestResolveMoveClampsAtEdge(t *testing.T) {
	pack := testPack(t)
	loc := types.Location{X: 5, Y: 5}
	cmd := types.Command{Intent: types.IntentMove, Direction: "south"}

	out := Resolve(rng.New(1), pack, cmd, loc, types.QuestFlags{})
	if out.NewLocation == nil {
		t.Fatal("move produced no destination")
	}
	if out.NewLocation.X != 5 || out.NewLocation.Y != 5 {
		t.Errorf("south from (5,5) = (%d,%d), want (5,5)", out.NewLocation.X, out.NewLocation.Y)
	}
}

func TestResolveMoveUndirected(t *testing.T) {
	pack := testPack(t)
	loc := types.Location{X: 4, Y: 4}
	cmd := types.Command{Intent: types.IntentMove}

	out := Resolve(rng.New(7), pack, cmd, loc, types.QuestFlags{})
	if out.NewLocation == nil {
		t.Fatal("undirected move produced no destination")
	}
	dx, dy := out.NewLocation.X-4, out.NewLocation.Y-4
	if abs(dx)+abs(dy) != 1 {
		t.Errorf("undirected move stepped (%d,%d), want a single cardinal step", dx, dy)
	}
}

func TestGateCheck(t *testing.T) {
	cases := []struct {
		name         string
		fromX, fromY int
		toX, toY     int
		flags        types.QuestFlags
		wantPool     string
		wantBlocked  bool
	}{
		{"act1 internal", 4, 4, 4, 3, types.QuestFlags{}, "", false},
		{"act1 to act2 without key", 4, 1, 4, 0, types.QuestFlags{}, content.PoolGateFirewall, true},
		{"act1 to act2 with key", 4, 1, 4, 0, types.QuestFlags{FirewallKey: true}, "", false},
		{"act2 to act3 without keycard", 2, 0, 1, 0, types.QuestFlags{FirewallKey: true}, content.PoolGateSource, true},
		{"act2 to act3 with keycard", 2, 0, 1, 0, types.QuestFlags{AdminKeycard: true}, "", false},
		{"act1 skip to act3 with both keys", 5, 0, 1, 0, types.QuestFlags{FirewallKey: true, AdminKeycard: true}, content.PoolGateSkip, true},
		{"act2 back to act1", 4, 0, 4, 1, types.QuestFlags{}, "", false},
		{"act3 to terminal", 1, 0, 0, 0, types.QuestFlags{}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pool, blocked := GateCheck(tc.fromX, tc.fromY, tc.toX, tc.toY, tc.flags)
			if blocked != tc.wantBlocked || pool != tc.wantPool {
				t.Errorf("GateCheck = (%q, %v), want (%q, %v)", pool, blocked, tc.wantPool, tc.wantBlocked)
			}
		})
	}
}

func TestResolveMoveBlockedByGate(t *testing.T) {
	pack := testPack(t)
	loc := types.Location{X: 4, Y: 1}
	cmd := types.Command{Intent: types.IntentMove, Direction: "north"}

	out := Resolve(rng.New(1), pack, cmd, loc, types.QuestFlags{})
	if out.NewLocation != nil {
		t.Error("blocked move still produced a destination")
	}
	if out.ManaDelta != 0 {
		t.Errorf("blocked move cost mana: %d", out.ManaDelta)
	}
	if out.Mood != types.MoodDanger {
		t.Errorf("blocked move mood = %s", out.Mood)
	}
}

func TestResolveAttack(t *testing.T) {
	pack := testPack(t)
	r := rng.New(3)
	loc := types.Location{X: 4, Y: 4}

	for i := 0; i < 200; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentAttack}, loc, types.QuestFlags{})
		dmg := -out.HPDelta
		if dmg < RetaliationLo[1] || dmg > RetaliationHi[1] {
			t.Fatalf("act 1 retaliation %d outside [%d,%d]", dmg, RetaliationLo[1], RetaliationHi[1])
		}
		if out.Mood != types.MoodDanger {
			t.Fatalf("attack mood = %s", out.Mood)
		}
	}
}

func TestResolveHackRates(t *testing.T) {
	pack := testPack(t)
	r := rng.New(11)
	loc := types.Location{X: 4, Y: 4}
	flags := types.QuestFlags{FirewallKey: true} // suppress quest rolls

	const trials = 3000
	successes := 0
	for i := 0; i < trials; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentHack}, loc, flags)
		if out.Mood == types.MoodMystic {
			successes++
			if out.ManaDelta > -HackSuccessManaLo || out.ManaDelta < -HackSuccessManaHi {
				t.Fatalf("success mana delta %d outside range", out.ManaDelta)
			}
		} else {
			if out.HPDelta != -HackFailHPCost[1] {
				t.Fatalf("fail hp delta = %d, want %d", out.HPDelta, -HackFailHPCost[1])
			}
			if out.ManaDelta != -HackFailManaCost {
				t.Fatalf("fail mana delta = %d", out.ManaDelta)
			}
		}
	}
	rate := float64(successes) / trials
	if rate < 0.45 || rate > 0.55 {
		t.Errorf("act 1 hack success rate = %.3f, want ~%.2f", rate, HackSuccessChance[1])
	}
}

func TestResolveHackQuestItem(t *testing.T) {
	pack := testPack(t)
	r := rng.New(21)
	loc := types.Location{X: 4, Y: 4}

	found := false
	for i := 0; i < 500; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentHack}, loc, types.QuestFlags{})
		if out.NewItem != nil {
			found = true
			if out.NewItem.Name != "Firewall Key" {
				t.Fatalf("act 1 hack surfaced %q, want Firewall Key", out.NewItem.Name)
			}
			if !strings.Contains(out.Narrative, "Firewall Key") {
				t.Error("narrative does not mention the found item")
			}
		}
	}
	if !found {
		t.Error("firewall key never surfaced in 500 hacks")
	}

	// Holding the key suppresses further quest drops.
	for i := 0; i < 500; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentHack}, loc, types.QuestFlags{FirewallKey: true})
		if out.NewItem != nil {
			t.Fatal("quest item dropped while already held")
		}
	}
}

func TestForcedHack(t *testing.T) {
	pack := testPack(t)
	r := rng.New(5)
	loc := types.Location{X: 4, Y: 4}

	for i := 0; i < 50; i++ {
		out := ForcedHack(r, pack, loc, types.QuestFlags{FirewallKey: true})
		if out.Mood != types.MoodMystic {
			t.Fatal("forced hack did not succeed")
		}
		if out.HPDelta != 0 {
			t.Fatalf("forced hack damaged the player: %d", out.HPDelta)
		}
	}
}

func TestResolveMagic(t *testing.T) {
	pack := testPack(t)
	r := rng.New(9)
	for i := 0; i < 100; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentMagic}, types.Location{X: 4, Y: 4}, types.QuestFlags{})
		if out.ManaDelta > -MagicManaLo || out.ManaDelta < -MagicManaHi {
			t.Fatalf("magic mana delta %d outside [-%d,-%d]", out.ManaDelta, MagicManaHi, MagicManaLo)
		}
	}
}

func TestResolveRestAct1(t *testing.T) {
	pack := testPack(t)
	r := rng.New(13)
	for i := 0; i < 200; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentRest}, types.Location{X: 4, Y: 4}, types.QuestFlags{})
		if out.HPDelta < RestHPLo[1] || out.HPDelta > RestHPHi[1] {
			t.Fatalf("act 1 rest hp %d outside [%d,%d]", out.HPDelta, RestHPLo[1], RestHPHi[1])
		}
		if out.ManaDelta < RestManaLo[1] || out.ManaDelta > RestManaHi[1] {
			t.Fatalf("act 1 rest mana %d outside range", out.ManaDelta)
		}
	}
}

func TestResolveRestInterrupt(t *testing.T) {
	pack := testPack(t)
	r := rng.New(17)
	loc := types.Location{X: 2, Y: 0} // act 2

	interrupted := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentRest}, loc, types.QuestFlags{})
		if out.Mood == types.MoodDanger {
			interrupted++
			dmg := -out.HPDelta
			if dmg < RestInterruptDmgLo || dmg > RestInterruptDmgHi {
				t.Fatalf("interrupt damage %d outside range", dmg)
			}
			if out.ManaDelta < RestManaLo[2] || out.ManaDelta > RestManaHi[2] {
				t.Fatalf("interrupt dropped the mana gain: %d outside [%d,%d]",
					out.ManaDelta, RestManaLo[2], RestManaHi[2])
			}
		}
	}
	rate := float64(interrupted) / trials
	if rate < 0.45 || rate > 0.55 {
		t.Errorf("act 2 rest interrupt rate = %.3f, want ~%.2f", rate, RestInterruptChance)
	}
}

func TestResolveSearch(t *testing.T) {
	pack := testPack(t)
	r := rng.New(19)
	loc := types.Location{X: 4, Y: 4}
	flags := types.QuestFlags{FirewallKey: true}

	finds := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		out := Resolve(r, pack, types.Command{Intent: types.IntentSearch}, loc, flags)
		if out.NewItem != nil {
			finds++
			if out.NewItem.Name == "" {
				t.Fatal("found item has no name")
			}
		}
		if out.HPDelta > 0 {
			t.Fatal("search healed the player")
		}
	}
	rate := float64(finds) / trials
	if rate < 0.64 || rate > 0.76 {
		t.Errorf("act 1 search find rate = %.3f, want ~%.2f", rate, SearchFindChance[1])
	}
}

func TestResolveLogout(t *testing.T) {
	pack := testPack(t)

	out := Resolve(rng.New(1), pack, types.Command{Intent: types.IntentLogout}, types.Location{X: 0, Y: 0}, types.QuestFlags{})
	if !out.Victory {
		t.Error("logout at the terminal did not win")
	}

	out = Resolve(rng.New(1), pack, types.Command{Intent: types.IntentLogout}, types.Location{X: 4, Y: 4}, types.QuestFlags{})
	if out.Victory {
		t.Error("logout away from the terminal won")
	}
	if out.HPDelta != 0 || out.ManaDelta != 0 {
		t.Error("rejected logout changed stats")
	}
}

func TestResolveUnknown(t *testing.T) {
	pack := testPack(t)
	out := Resolve(rng.New(1), pack, types.Command{Intent: types.IntentUnknown}, types.Location{X: 4, Y: 4}, types.QuestFlags{})
	if out.Narrative == "" {
		t.Error("unknown command produced no narrative")
	}
	if out.HPDelta != 0 || out.ManaDelta != 0 || out.NewItem != nil || out.NewLocation != nil {
		t.Error("unknown command had side effects")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
