package match

// ProtectionReason explains why a block position rejects placement and
// breaking.
type ProtectionReason int

const (
	ProtectionNone ProtectionReason = iota
	ProtectionSpawn
	ProtectionBossAltar
	ProtectionSpawner
)

func (r ProtectionReason) String() string {
	switch r {
	case ProtectionSpawn:
		return "team spawn"
	case ProtectionBossAltar:
		return "boss altar"
	case ProtectionSpawner:
		return "resource spawner"
	default:
		return "none"
	}
}

// World is the geometry collaborator: region membership, protection masks
// and the player-placed block ledger that makes the arena restorable.
type World interface {
	// InsideRegion reports whether a world position is inside the arena.
	InsideRegion(pos Vec3) bool
	// ProtectedAt returns the protection reason stamped on pos, if any.
	ProtectedAt(pos BlockPos) (ProtectionReason, bool)
	// ProtectRadius stamps reason on every block within radius of center.
	ProtectRadius(center BlockPos, radius int, reason ProtectionReason)
	// PlayerPlaced reports whether pos was placed during this match.
	PlayerPlaced(pos BlockPos) bool
	// RecordPlaced adds pos to the player-placed ledger; when the placement
	// replaced a pre-existing block its prior state is snapshotted so
	// Restore can put it back.
	RecordPlaced(pos BlockPos, replaced bool)
	// ForgetPlaced drops pos from the ledger after a legal break.
	ForgetPlaced(pos BlockPos)
	// PinChunks asks the host to keep the arena's chunks loaded for the
	// duration of combat.
	PinChunks()
	// Restore reverts every recorded placement and releases pinned chunks.
	Restore()
}

// Inventory is one player's equipment surface. The shop's check-then-commit
// contract leans on HasAtLeast/Remove being consistent between the check
// and the commit; the arena lock guarantees nothing runs in between.
type Inventory interface {
	// HasAtLeast reports whether the price can be paid in full.
	HasAtLeast(p Price) bool
	// Remove debits the price. Must only be called after HasAtLeast.
	Remove(p Price)
	// Fits reports whether the stack could be added in full, without
	// touching anything.
	Fits(item ItemStack) bool
	// Add places the stack, returning false when no slot fits it. A false
	// return must leave the inventory untouched.
	Add(item ItemStack) bool
	// SetArmor equips the given armor tier.
	SetArmor(tier UpgradeKind)
	// SetProtection re-enchants worn armor to the given level.
	SetProtection(level int)
	// SetSharpness re-enchants held swords to the given level.
	SetSharpness(level int)
	// ApplyEffects applies timed status effects (traps, haste, regen).
	ApplyEffects(effects []Effect)
	// Clear wipes the inventory for match reset.
	Clear()
}

// Roster is the host-side embodiment of players: where they stand and what
// they carry. The core queries positions; it never moves anything except
// through explicit Teleport commands.
type Roster interface {
	Inventory(playerID string) Inventory
	Position(playerID string) Vec3
	Teleport(playerID string, pos Vec3)
}

// Presenter receives one-way display notifications. Implementations must
// not call back into the arena and must not block; the tick loop runs
// through them. State never flows back through this interface.
type Presenter interface {
	Broadcast(msg string)
	BroadcastTeam(team TeamColor, msg string)
	Message(playerID, msg string)
	Title(playerID, title, subtitle string)
	TeamTitle(team TeamColor, title, subtitle string)
	Sound(playerID, sound string)
	TeamSound(team TeamColor, sound string)

	CountdownChanged(kind string, secondsLeft int)
	TeamStatusChanged(team TeamColor, bedDestroyed bool, alive int)
	SpawnerProgress(spawnerID string, filled, total int)
	DropSpawned(drop Drop)
	InvulnerabilityAura(playerID string)

	BossSpawned(pos Vec3)
	BossPoolChanged(team TeamColor, health, max float64)
	BossDespawned()

	PollOpened(team TeamColor, options []SpecializationKind)
	SpecializationChosen(team TeamColor, spec SpecializationKind)

	Fireworks(team TeamColor)
	MatchEnded(winner TeamColor)
}

// StatKind is one persisted player counter.
type StatKind string

const (
	StatKill         StatKind = "kills"
	StatFinalKill    StatKind = "final_kills"
	StatDeath        StatKind = "deaths"
	StatWin          StatKind = "wins"
	StatBedDestroyed StatKind = "beds_destroyed"
)

// Stats is the persistence collaborator. Calls must return immediately;
// implementations queue the write and absorb I/O failures (logged, never
// surfaced into the match loop).
type Stats interface {
	Record(playerID string, stat StatKind, arena string)
	Analytics(kind, value, arena string)
}

// NopPresenter discards every notification. Useful default for tests.
type NopPresenter struct{}

func (NopPresenter) Broadcast(string)                                {}
func (NopPresenter) BroadcastTeam(TeamColor, string)                 {}
func (NopPresenter) Message(string, string)                          {}
func (NopPresenter) Title(string, string, string)                    {}
func (NopPresenter) TeamTitle(TeamColor, string, string)             {}
func (NopPresenter) Sound(string, string)                            {}
func (NopPresenter) TeamSound(TeamColor, string)                     {}
func (NopPresenter) CountdownChanged(string, int)                    {}
func (NopPresenter) TeamStatusChanged(TeamColor, bool, int)          {}
func (NopPresenter) SpawnerProgress(string, int, int)                {}
func (NopPresenter) DropSpawned(Drop)                                {}
func (NopPresenter) InvulnerabilityAura(string)                      {}
func (NopPresenter) BossSpawned(Vec3)                                {}
func (NopPresenter) BossPoolChanged(TeamColor, float64, float64)     {}
func (NopPresenter) BossDespawned()                                  {}
func (NopPresenter) PollOpened(TeamColor, []SpecializationKind)      {}
func (NopPresenter) SpecializationChosen(TeamColor, SpecializationKind) {}
func (NopPresenter) Fireworks(TeamColor)                             {}
func (NopPresenter) MatchEnded(TeamColor)                            {}

// NopStats discards every record. Useful default for tests.
type NopStats struct{}

func (NopStats) Record(string, StatKind, string) {}
func (NopStats) Analytics(string, string, string) {}
