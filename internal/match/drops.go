package match

import "github.com/google/uuid"

// Drop is one uncollected resource item on the ground.
type Drop struct {
	ID        string       `json:"id"`
	Resource  ResourceKind `json:"resource"`
	SpawnerID string       `json:"spawnerId"`
	Pos       Vec3         `json:"pos"`
}

// DropTracker indexes the arena's ground items back to the spawner that
// emitted them, so each spawner's drop cap can be enforced. Per-spawner
// counts are scanned lazily at most once per tick; every spawner that fires
// on the same tick shares the cached scan.
type DropTracker struct {
	drops map[string]*Drop

	cacheTick int64
	counts    map[string]int
}

// NewDropTracker returns an empty tracker.
func NewDropTracker() *DropTracker {
	return &DropTracker{
		drops:     make(map[string]*Drop),
		cacheTick: -1,
		counts:    make(map[string]int),
	}
}

// Spawn registers a fresh drop for the spawner and returns it.
func (d *DropTracker) Spawn(s *Spawner) *Drop {
	drop := &Drop{
		ID:        uuid.NewString(),
		Resource:  s.Resource,
		SpawnerID: s.ID,
		Pos:       s.Pos,
	}
	d.drops[drop.ID] = drop
	// Keep a warm cache honest so two spawns on one tick both count.
	if d.cacheTick >= 0 {
		d.counts[drop.SpawnerID]++
	}
	return drop
}

// Collect removes a drop by entity ID, returning it. ok is false when the
// ID is unknown (already picked up, or not a tracked resource).
func (d *DropTracker) Collect(dropID string) (*Drop, bool) {
	drop, ok := d.drops[dropID]
	if !ok {
		return nil, false
	}
	delete(d.drops, dropID)
	if d.cacheTick >= 0 && d.counts[drop.SpawnerID] > 0 {
		d.counts[drop.SpawnerID]--
	}
	return drop, true
}

// Return puts a collected drop back on the ground, used when the
// collector's inventory turned out to be full.
func (d *DropTracker) Return(drop *Drop) {
	d.drops[drop.ID] = drop
	if d.cacheTick >= 0 {
		d.counts[drop.SpawnerID]++
	}
}

// CountBySpawner returns how many uncollected drops the spawner owns,
// rebuilding the count cache when nowTick moved past the cached one.
func (d *DropTracker) CountBySpawner(spawnerID string, nowTick int64) int {
	if d.cacheTick != nowTick {
		d.cacheTick = nowTick
		for k := range d.counts {
			delete(d.counts, k)
		}
		for _, drop := range d.drops {
			d.counts[drop.SpawnerID]++
		}
	}
	return d.counts[spawnerID]
}

// Len is the total number of uncollected drops.
func (d *DropTracker) Len() int {
	return len(d.drops)
}

// Clear wipes every drop, used on arena reset.
func (d *DropTracker) Clear() {
	d.drops = make(map[string]*Drop)
	d.cacheTick = -1
	d.counts = make(map[string]int)
}
