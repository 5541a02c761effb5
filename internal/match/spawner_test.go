package match

import (
	"math"
	"testing"
)

// TestSpawnerIntervalFloor verifies the effective interval never drops
// below one tick no matter how the modifiers stack.
func TestSpawnerIntervalFloor(t *testing.T) {
	s := NewSpawner(ResourceIron, Vec3{}, TeamRed)
	s.SetTeamSize(100)
	s.SetTeamUpgradeModifier(10)
	s.SetGlobalModifier(10)
	if got := s.EffectiveInterval(); got != 1 {
		t.Errorf("EffectiveInterval = %d, want floor of 1", got)
	}
}

// TestSpawnerTeamSizeScaling verifies the cube-root scaling: more players
// speed the spawner up, but far slower than linearly.
func TestSpawnerTeamSizeScaling(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{1, 15},
		{2, int(math.Floor(15 / math.Cbrt(2)))},
		{8, 7}, // cbrt(8)=2, 15/2 floored
	}
	for _, tt := range tests {
		s := NewSpawner(ResourceIron, Vec3{}, TeamRed)
		s.SetTeamSize(tt.players)
		if got := s.EffectiveInterval(); got != tt.want {
			t.Errorf("interval with %d players = %d, want %d", tt.players, got, tt.want)
		}
	}
}

// TestSharedSpawnerIgnoresTeamModifiers verifies map-center spawners only
// follow the arena-wide modifier.
func TestSharedSpawnerIgnoresTeamModifiers(t *testing.T) {
	s := NewSpawner(ResourceDiamond, Vec3{}, TeamNone)
	base := s.EffectiveInterval()

	s.SetTeamSize(8)
	s.SetTeamUpgradeModifier(1.5)
	if got := s.EffectiveInterval(); got != base {
		t.Errorf("shared spawner moved to %d after team modifiers, want %d", got, base)
	}

	s.SetGlobalModifier(2)
	if got := s.EffectiveInterval(); got != base/2 {
		t.Errorf("shared spawner with global 2x = %d, want %d", got, base/2)
	}
}

// TestSpawnerDropCap verifies a spawner stops emitting while its ground
// drops sit at the cap and resumes after a pickup.
func TestSpawnerDropCap(t *testing.T) {
	s := NewSpawner(ResourceEmerald, Vec3{}, TeamNone) // cap 2
	drops := NewDropTracker()
	presenter := newRecordingPresenter()

	var tick int64
	interval := int64(s.EffectiveInterval())
	for i := int64(0); i < interval*10; i++ {
		tick++
		s.Advance(tick, drops, presenter)
	}
	if got := drops.Len(); got != 2 {
		t.Fatalf("drops on the ground = %d, want cap of 2", got)
	}

	// Collect one; the next full cycle emits exactly one more.
	first := presenter.drops[0]
	if _, ok := drops.Collect(first.ID); !ok {
		t.Fatal("collect failed")
	}
	for i := int64(0); i < interval; i++ {
		tick++
		s.Advance(tick, drops, presenter)
	}
	if got := drops.Len(); got != 2 {
		t.Errorf("drops after pickup and one cycle = %d, want 2", got)
	}
}

// TestSpawnerReset verifies purchased modifiers clear but the resource
// identity stays.
func TestSpawnerReset(t *testing.T) {
	s := NewSpawner(ResourceIron, Vec3{}, TeamRed)
	s.SetTeamSize(8)
	s.SetTeamUpgradeModifier(1.5)
	s.Reset()
	if got := s.EffectiveInterval(); got != ResourceIron.Info().BaseInterval {
		t.Errorf("interval after reset = %d, want base %d", got, ResourceIron.Info().BaseInterval)
	}
}

// TestDropTrackerCountsAndCache verifies the per-spawner ground counts stay
// honest across spawn, collect and return inside one tick.
func TestDropTrackerCountsAndCache(t *testing.T) {
	drops := NewDropTracker()
	s := NewSpawner(ResourceIron, Vec3{}, TeamRed)

	// Warm the cache on tick 7, then mutate.
	if got := drops.CountBySpawner(s.ID, 7); got != 0 {
		t.Fatalf("initial count = %d", got)
	}
	d1 := drops.Spawn(s)
	drops.Spawn(s)
	if got := drops.CountBySpawner(s.ID, 7); got != 2 {
		t.Errorf("count after two same-tick spawns = %d, want 2", got)
	}

	drops.Collect(d1.ID)
	if got := drops.CountBySpawner(s.ID, 7); got != 1 {
		t.Errorf("count after collect = %d, want 1", got)
	}

	drops.Return(d1)
	if got := drops.CountBySpawner(s.ID, 7); got != 2 {
		t.Errorf("count after return = %d, want 2", got)
	}

	// A new tick rebuilds the cache from scratch and agrees.
	if got := drops.CountBySpawner(s.ID, 8); got != 2 {
		t.Errorf("rebuilt count = %d, want 2", got)
	}

	drops.Clear()
	if drops.Len() != 0 {
		t.Error("Clear left drops behind")
	}
}

// TestDropTrackerUnknownCollect verifies collecting a non-tracked entity
// reports a miss.
func TestDropTrackerUnknownCollect(t *testing.T) {
	drops := NewDropTracker()
	if _, ok := drops.Collect("nope"); ok {
		t.Error("collected an unknown drop")
	}
}
