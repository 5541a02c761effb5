package match

// Team is the shared state of one arena team: bed, spawners, upgrades,
// armed traps, chests and the specialization chosen after the boss fight.
// All mutation happens under the owning arena's lock.
type Team struct {
	Color TeamColor `json:"color"`

	Spawn   Vec3     `json:"spawn"`
	BedHead BlockPos `json:"bedHead"`
	BedFeet BlockPos `json:"bedFeet"`

	bedDestroyed bool

	// upgrades holds team-scoped purchases shared by every member.
	upgrades Ledger

	// trapQueue is FIFO: the oldest armed trap springs first.
	trapQueue []TrapKind

	// Spawners assigned to this team's base.
	Spawners []*Spawner `json:"-"`

	// Team chest positions, plus the set that still needs its contents
	// refreshed after an upgrade purchase (applied lazily on open).
	Chests        []BlockPos `json:"-"`
	staleChests   map[BlockPos]bool

	Specialization SpecializationKind    `json:"specialization"`
	Poll           *SpecializationPoll   `json:"-"`
}

// NewTeam creates an empty team anchored at the given spawn and bed.
func NewTeam(color TeamColor, spawn Vec3, bedHead, bedFeet BlockPos) *Team {
	return &Team{
		Color:       color,
		Spawn:       spawn,
		BedHead:     bedHead,
		BedFeet:     bedFeet,
		upgrades:    NewLedger(),
		staleChests: make(map[BlockPos]bool),
	}
}

// Upgrades exposes the team-scoped upgrade ledger.
func (t *Team) Upgrades() Ledger {
	return t.upgrades
}

// BedDestroyed reports whether the team can still respawn.
func (t *Team) BedDestroyed() bool {
	return t.bedDestroyed
}

// DestroyBed marks the bed as gone. Destruction is monotonic; returns false
// when the bed was already destroyed.
func (t *Team) DestroyBed() bool {
	if t.bedDestroyed {
		return false
	}
	t.bedDestroyed = true
	return true
}

// IsBed reports whether pos is one of the two bed blocks.
func (t *Team) IsBed(pos BlockPos) bool {
	return pos == t.BedHead || pos == t.BedFeet
}

// BedCenter is the point ambush distance is measured from.
func (t *Team) BedCenter() Vec3 {
	head := t.BedHead.Center()
	feet := t.BedFeet.Center()
	return Vec3{X: (head.X + feet.X) / 2, Y: (head.Y + feet.Y) / 2, Z: (head.Z + feet.Z) / 2}
}

// TrapArmed reports whether kind is already waiting in the queue.
// Double-arming the same trap is rejected at purchase time.
func (t *Team) TrapArmed(kind TrapKind) bool {
	for _, q := range t.trapQueue {
		if q == kind {
			return true
		}
	}
	return false
}

// ArmTrap appends kind to the trap queue.
func (t *Team) ArmTrap(kind TrapKind) {
	t.trapQueue = append(t.trapQueue, kind)
}

// SpringTrap dequeues the oldest armed trap. ok is false when no trap is
// armed.
func (t *Team) SpringTrap() (TrapKind, bool) {
	if len(t.trapQueue) == 0 {
		return 0, false
	}
	kind := t.trapQueue[0]
	t.trapQueue = t.trapQueue[1:]
	return kind, true
}

// ArmedTraps returns a copy of the queue, oldest first.
func (t *Team) ArmedTraps() []TrapKind {
	out := make([]TrapKind, len(t.trapQueue))
	copy(out, t.trapQueue)
	return out
}

// AddChest registers a team chest position.
func (t *Team) AddChest(pos BlockPos) {
	t.Chests = append(t.Chests, pos)
}

// OwnsChest reports whether pos is one of the team's chests.
func (t *Team) OwnsChest(pos BlockPos) bool {
	for _, c := range t.Chests {
		if c == pos {
			return true
		}
	}
	return false
}

// MarkChestsStale flags every team chest for a contents refresh. Called
// after upgrade purchases; the refresh itself happens lazily on open.
func (t *Team) MarkChestsStale() {
	for _, c := range t.Chests {
		t.staleChests[c] = true
	}
}

// TakeChestRefresh consumes the stale flag for pos, reporting whether a
// refresh is due.
func (t *Team) TakeChestRefresh(pos BlockPos) bool {
	if !t.staleChests[pos] {
		return false
	}
	delete(t.staleChests, pos)
	return true
}

// SpawnerSpeedLevel is the current faster_spawners level.
func (t *Team) SpawnerSpeedLevel() int {
	return t.upgrades.Level(UpgradeFasterSpawners)
}

// ResetForMatch clears all per-match team state. Bed comes back, upgrades,
// traps, poll and specialization are dropped, spawners rewound.
func (t *Team) ResetForMatch() {
	t.bedDestroyed = false
	t.upgrades.Reset()
	t.trapQueue = nil
	t.staleChests = make(map[BlockPos]bool)
	t.Specialization = SpecNone
	t.Poll = nil
	for _, s := range t.Spawners {
		s.Reset()
	}
}
