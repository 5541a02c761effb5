package registry

import (
	"testing"

	"bedrush/internal/inventory"
	"bedrush/internal/match"
	"bedrush/internal/world"
)

func newArena(t *testing.T, name string) *match.Arena {
	t.Helper()
	opts := match.ArenaOptions{
		Name:              name,
		MaxPlayersPerTeam: 2,
		Teams: []match.TeamOptions{
			{Color: match.TeamRed, BedHead: match.BlockPos{X: 10, Y: 65}, BedFeet: match.BlockPos{X: 11, Y: 65}},
			{Color: match.TeamBlue, BedHead: match.BlockPos{X: -10, Y: 65}, BedFeet: match.BlockPos{X: -11, Y: 65}},
		},
	}
	w := world.New(world.NewRegion(match.BlockPos{X: -50, Y: 0, Z: -50}, match.BlockPos{X: 50, Y: 100, Z: 50}))
	a, err := match.NewArena(opts, match.Deps{World: w, Roster: inventory.NewRoster()})
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	return a
}

// TestAddGetAll verifies name lookup and the stable listing order.
func TestAddGetAll(t *testing.T) {
	r := New()
	beta := newArena(t, "beta")
	alpha := newArena(t, "alpha")
	r.Add(beta)
	r.Add(alpha)

	got, ok := r.Get("alpha")
	if !ok || got != alpha {
		t.Errorf("Get(alpha) = %v,%v", got, ok)
	}
	if _, ok := r.Get("gamma"); ok {
		t.Error("Get found an arena that was never added")
	}

	all := r.All()
	if len(all) != 2 || all[0] != alpha || all[1] != beta {
		t.Errorf("All returned %d arenas out of name order", len(all))
	}
}

// TestAddReplacesSameName verifies a re-add swaps the arena in place.
func TestAddReplacesSameName(t *testing.T) {
	r := New()
	first := newArena(t, "ruins")
	second := newArena(t, "ruins")
	r.Add(first)
	r.Add(second)

	got, _ := r.Get("ruins")
	if got != second {
		t.Error("re-add kept the old arena")
	}
	if len(r.All()) != 1 {
		t.Error("re-add duplicated the listing")
	}
}

// TestAssignIsExclusive verifies one player binds to at most one arena
// until released.
func TestAssignIsExclusive(t *testing.T) {
	r := New()
	a := newArena(t, "a")
	b := newArena(t, "b")

	if !r.Assign("p1", a) {
		t.Fatal("first assign refused")
	}
	if r.Assign("p1", b) {
		t.Error("assign to a second arena succeeded")
	}
	if r.Assign("p1", a) {
		t.Error("re-assign to the same arena succeeded")
	}

	got, ok := r.ArenaOf("p1")
	if !ok || got != a {
		t.Errorf("ArenaOf = %v,%v, want the first arena", got, ok)
	}

	r.Release("p1")
	if _, ok := r.ArenaOf("p1"); ok {
		t.Error("binding survived release")
	}
	if !r.Assign("p1", b) {
		t.Error("assign after release refused")
	}
}

// TestReleaseUnknownPlayer verifies releasing a never-bound player is a
// no-op.
func TestReleaseUnknownPlayer(t *testing.T) {
	r := New()
	r.Release("ghost")
	if _, ok := r.ArenaOf("ghost"); ok {
		t.Error("release invented a binding")
	}
}
