// Package world implements the arena's geometry collaborator: region
// bounds, protection masks and the player-placed block ledger that lets a
// finished match restore the map.
package world

import (
	"log"
	"sync"

	"bedrush/internal/match"
)

// Region is an axis-aligned box of blocks.
type Region struct {
	Min match.BlockPos
	Max match.BlockPos
}

// NewRegion normalizes the two corners into min/max order.
func NewRegion(a, b match.BlockPos) Region {
	r := Region{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	if r.Min.Z > r.Max.Z {
		r.Min.Z, r.Max.Z = r.Max.Z, r.Min.Z
	}
	return r
}

// Contains reports whether a world position falls inside the box.
func (r Region) Contains(pos match.Vec3) bool {
	return pos.X >= float64(r.Min.X) && pos.X < float64(r.Max.X)+1 &&
		pos.Y >= float64(r.Min.Y) && pos.Y < float64(r.Max.Y)+1 &&
		pos.Z >= float64(r.Min.Z) && pos.Z < float64(r.Max.Z)+1
}

// RestoreFunc is called for every block the world puts back: player-placed
// blocks are cleared, replaced blocks get their snapshot back.
type RestoreFunc func(pos match.BlockPos, hadPriorBlock bool)

// World tracks one arena's mutable geometry. Safe for concurrent use; the
// arena calls in under its own lock but the API may query protection masks
// independently.
type World struct {
	mu     sync.Mutex
	region Region

	placed map[match.BlockPos]bool
	// replacedSnapshots remembers placements that displaced an existing
	// block, so restore can resurrect it host-side.
	replacedSnapshots map[match.BlockPos]bool

	protection map[match.BlockPos]match.ProtectionReason

	chunksPinned bool
	onRestore    RestoreFunc
	onPinChange  func(pinned bool)
}

// New creates a world for the given region.
func New(region Region) *World {
	return &World{
		region:            region,
		placed:            make(map[match.BlockPos]bool),
		replacedSnapshots: make(map[match.BlockPos]bool),
		protection:        make(map[match.BlockPos]match.ProtectionReason),
	}
}

// SetRestoreFunc wires the host callback that physically reverts blocks.
func (w *World) SetRestoreFunc(fn RestoreFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRestore = fn
}

// SetPinFunc wires the host callback that force-loads the arena's chunks.
func (w *World) SetPinFunc(fn func(pinned bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPinChange = fn
}

// InsideRegion implements match.World.
func (w *World) InsideRegion(pos match.Vec3) bool {
	return w.region.Contains(pos)
}

// ProtectedAt implements match.World.
func (w *World) ProtectedAt(pos match.BlockPos) (match.ProtectionReason, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	reason, ok := w.protection[pos]
	return reason, ok
}

// ProtectRadius implements match.World: stamps reason on the cube of
// blocks within radius of center. Earlier stamps win, so the first reason
// a block got is the one reported.
func (w *World) ProtectRadius(center match.BlockPos, radius int, reason match.ProtectionReason) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			for z := center.Z - radius; z <= center.Z+radius; z++ {
				pos := match.BlockPos{X: x, Y: y, Z: z}
				if _, exists := w.protection[pos]; !exists {
					w.protection[pos] = reason
				}
			}
		}
	}
}

// PlayerPlaced implements match.World.
func (w *World) PlayerPlaced(pos match.BlockPos) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placed[pos]
}

// RecordPlaced implements match.World.
func (w *World) RecordPlaced(pos match.BlockPos, replaced bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.placed[pos] = true
	if replaced {
		w.replacedSnapshots[pos] = true
	}
}

// ForgetPlaced implements match.World.
func (w *World) ForgetPlaced(pos match.BlockPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.placed, pos)
	delete(w.replacedSnapshots, pos)
}

// PinChunks implements match.World.
func (w *World) PinChunks() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chunksPinned {
		return
	}
	w.chunksPinned = true
	if w.onPinChange != nil {
		w.onPinChange(true)
	}
}

// Restore implements match.World: every recorded placement is handed to
// the restore callback, the ledgers cleared and pinned chunks released.
func (w *World) Restore() {
	w.mu.Lock()
	defer w.mu.Unlock()

	count := len(w.placed)
	if w.onRestore != nil {
		for pos := range w.placed {
			w.onRestore(pos, w.replacedSnapshots[pos])
		}
	}
	w.placed = make(map[match.BlockPos]bool)
	w.replacedSnapshots = make(map[match.BlockPos]bool)

	if w.chunksPinned {
		w.chunksPinned = false
		if w.onPinChange != nil {
			w.onPinChange(false)
		}
	}
	if count > 0 {
		log.Printf("🧹 world restored, %d placed blocks reverted", count)
	}
}

// PlacedCount is the number of player-placed blocks currently standing.
func (w *World) PlacedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.placed)
}
