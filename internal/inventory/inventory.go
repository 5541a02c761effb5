// Package inventory is the host-side embodiment of players: slot
// inventories, worn armor, held swords, positions. It implements the
// match.Roster and match.Inventory contracts the arena shops and traps
// are written against.
package inventory

import (
	"sync"

	"bedrush/internal/match"
)

// SlotCount is the size of one player inventory.
const SlotCount = 36

// MaxStack is the largest amount one slot holds.
const MaxStack = 64

type slot struct {
	id     string
	amount int
}

// Inventory is one player's slot inventory plus equipment state.
type Inventory struct {
	mu    sync.Mutex
	slots [SlotCount]slot

	armorTier       match.UpgradeKind
	hasArmor        bool
	protectionLevel int
	sharpnessLevel  int

	effects []match.Effect
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

func (inv *Inventory) count(id string) int {
	total := 0
	for _, s := range inv.slots {
		if s.id == id {
			total += s.amount
		}
	}
	return total
}

// HasAtLeast implements match.Inventory.
func (inv *Inventory) HasAtLeast(p match.Price) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.count(p.Resource.String()) >= p.Amount
}

// Remove implements match.Inventory: debits p, draining slots front to
// back.
func (inv *Inventory) Remove(p match.Price) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	remaining := p.Amount
	id := p.Resource.String()
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.id != id {
			continue
		}
		take := s.amount
		if take > remaining {
			take = remaining
		}
		s.amount -= take
		remaining -= take
		if s.amount == 0 {
			s.id = ""
		}
	}
}

func (inv *Inventory) roomFor(item match.ItemStack) bool {
	room := 0
	for _, s := range inv.slots {
		if s.id == item.ID {
			room += MaxStack - s.amount
		} else if s.id == "" {
			room += MaxStack
		}
		if room >= item.Amount {
			return true
		}
	}
	return room >= item.Amount
}

// Fits implements match.Inventory.
func (inv *Inventory) Fits(item match.ItemStack) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.roomFor(item)
}

// Add implements match.Inventory: stacks onto matching slots first, then
// fills empty ones. Returns false (leaving everything untouched) when the
// stack does not fit.
func (inv *Inventory) Add(item match.ItemStack) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if !inv.roomFor(item) {
		return false
	}

	remaining := item.Amount
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.id != item.ID || s.amount >= MaxStack {
			continue
		}
		put := MaxStack - s.amount
		if put > remaining {
			put = remaining
		}
		s.amount += put
		remaining -= put
	}
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.id != "" {
			continue
		}
		put := MaxStack
		if put > remaining {
			put = remaining
		}
		s.id = item.ID
		s.amount = put
		remaining -= put
	}
	return true
}

// Count returns how many of an item ID the inventory holds.
func (inv *Inventory) Count(id string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.count(id)
}

// SetArmor implements match.Inventory.
func (inv *Inventory) SetArmor(tier match.UpgradeKind) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.armorTier = tier
	inv.hasArmor = true
}

// Armor reports the worn tier, ok false when only the base kit is worn.
func (inv *Inventory) Armor() (match.UpgradeKind, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.armorTier, inv.hasArmor
}

// SetProtection implements match.Inventory.
func (inv *Inventory) SetProtection(level int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.protectionLevel = level
}

// Protection returns the armor enchant level.
func (inv *Inventory) Protection() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.protectionLevel
}

// SetSharpness implements match.Inventory.
func (inv *Inventory) SetSharpness(level int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.sharpnessLevel = level
}

// Sharpness returns the sword enchant level.
func (inv *Inventory) Sharpness() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.sharpnessLevel
}

// ApplyEffects implements match.Inventory. Effects accumulate; the host
// consumes and renders them.
func (inv *Inventory) ApplyEffects(effects []match.Effect) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.effects = append(inv.effects, effects...)
}

// DrainEffects hands the queued effects to the host and clears the queue.
func (inv *Inventory) DrainEffects() []match.Effect {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := inv.effects
	inv.effects = nil
	return out
}

// Clear implements match.Inventory.
func (inv *Inventory) Clear() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.slots = [SlotCount]slot{}
	inv.hasArmor = false
	inv.armorTier = 0
	inv.protectionLevel = 0
	inv.sharpnessLevel = 0
	inv.effects = nil
}

// Roster implements match.Roster over a set of player inventories and
// positions.
type Roster struct {
	mu          sync.Mutex
	inventories map[string]*Inventory
	positions   map[string]match.Vec3
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{
		inventories: make(map[string]*Inventory),
		positions:   make(map[string]match.Vec3),
	}
}

// Inventory implements match.Roster, creating state lazily on first use.
func (r *Roster) Inventory(playerID string) match.Inventory {
	return r.inventoryOf(playerID)
}

func (r *Roster) inventoryOf(playerID string) *Inventory {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.inventories[playerID]
	if !ok {
		inv = NewInventory()
		r.inventories[playerID] = inv
	}
	return inv
}

// Raw returns the concrete inventory for host-side access.
func (r *Roster) Raw(playerID string) *Inventory {
	return r.inventoryOf(playerID)
}

// Position implements match.Roster.
func (r *Roster) Position(playerID string) match.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.positions[playerID]
}

// SetPosition records a host-reported player movement.
func (r *Roster) SetPosition(playerID string, pos match.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[playerID] = pos
}

// Teleport implements match.Roster. The engine is authoritative here, so
// the position updates immediately.
func (r *Roster) Teleport(playerID string, pos match.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[playerID] = pos
}

// Forget drops a departed player's state.
func (r *Roster) Forget(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inventories, playerID)
	delete(r.positions, playerID)
}
