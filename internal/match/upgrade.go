package match

// UpgradeScope separates upgrades bound to one player from upgrades shared
// by a whole team.
type UpgradeScope int

const (
	ScopePlayer UpgradeScope = iota
	ScopeTeam
)

// UpgradeKind identifies a purchasable upgrade.
type UpgradeKind int

const (
	// Player armor chain. Buying a higher tier auto-grants the lower ones.
	UpgradeArmorChainmail UpgradeKind = iota
	UpgradeArmorIron
	UpgradeArmorDiamond

	// Team upgrades.
	UpgradeSharpness
	UpgradeProtection
	UpgradeHaste
	UpgradeFasterSpawners
	UpgradeSpawnRegen
	UpgradeSpawnResistance
)

// UpgradeInfo is the static catalog entry for an upgrade kind.
type UpgradeInfo struct {
	Name     string
	Scope    UpgradeScope
	MaxLevel int
	// Unlocks are lower-tier upgrades granted at their base level when this
	// one is bought. Grants never charge and never downgrade.
	Unlocks []UpgradeKind
	// Prices holds the cost per target level, indexed by level-1.
	Prices []Price
}

var upgradeTable = map[UpgradeKind]UpgradeInfo{
	UpgradeArmorChainmail: {
		Name: "chainmail_armor", Scope: ScopePlayer, MaxLevel: 1,
		Prices: []Price{{ResourceIron, 40}},
	},
	UpgradeArmorIron: {
		Name: "iron_armor", Scope: ScopePlayer, MaxLevel: 1,
		Unlocks: []UpgradeKind{UpgradeArmorChainmail},
		Prices:  []Price{{ResourceGold, 12}},
	},
	UpgradeArmorDiamond: {
		Name: "diamond_armor", Scope: ScopePlayer, MaxLevel: 1,
		Unlocks: []UpgradeKind{UpgradeArmorChainmail, UpgradeArmorIron},
		Prices:  []Price{{ResourceEmerald, 6}},
	},
	UpgradeSharpness: {
		Name: "sharpness", Scope: ScopeTeam, MaxLevel: 2,
		Prices: []Price{{ResourceDiamond, 4}, {ResourceDiamond, 8}},
	},
	UpgradeProtection: {
		Name: "protection", Scope: ScopeTeam, MaxLevel: 3,
		Prices: []Price{{ResourceDiamond, 2}, {ResourceDiamond, 4}, {ResourceDiamond, 8}},
	},
	UpgradeHaste: {
		Name: "haste", Scope: ScopeTeam, MaxLevel: 2,
		Prices: []Price{{ResourceDiamond, 2}, {ResourceDiamond, 4}},
	},
	UpgradeFasterSpawners: {
		Name: "faster_spawners", Scope: ScopeTeam, MaxLevel: 2,
		Prices: []Price{{ResourceDiamond, 4}, {ResourceDiamond, 8}},
	},
	UpgradeSpawnRegen: {
		Name: "spawn_regeneration", Scope: ScopeTeam, MaxLevel: 1,
		Prices: []Price{{ResourceDiamond, 6}},
	},
	UpgradeSpawnResistance: {
		Name: "spawn_resistance", Scope: ScopeTeam, MaxLevel: 1,
		Prices: []Price{{ResourceDiamond, 6}},
	},
}

// Info returns the static catalog entry.
func (k UpgradeKind) Info() UpgradeInfo {
	return upgradeTable[k]
}

func (k UpgradeKind) String() string {
	return upgradeTable[k].Name
}

// OneTime reports whether the upgrade is a single-purchase unlock.
func (k UpgradeKind) OneTime() bool {
	return upgradeTable[k].MaxLevel == 1
}

// PriceFor returns the cost of moving from the current level to the next.
// ok is false at max level.
func (k UpgradeKind) PriceFor(currentLevel int) (Price, bool) {
	info := upgradeTable[k]
	if currentLevel < 0 || currentLevel >= info.MaxLevel {
		return Price{}, false
	}
	return info.Prices[currentLevel], true
}

// ParseUpgrade maps an API name back to an upgrade kind.
func ParseUpgrade(name string) (UpgradeKind, bool) {
	for kind, info := range upgradeTable {
		if info.Name == name {
			return kind, true
		}
	}
	return 0, false
}

// SpawnerSpeedModifier converts a faster_spawners level into an interval
// divisor: level 0 -> 1.0, level 1 -> 1.25, level 2 -> 1.5.
func SpawnerSpeedModifier(level int) float64 {
	return 1.0 + 0.25*float64(level)
}

// Ledger tracks owned upgrade levels. Absent keys are level 0. A ledger is
// not safe for concurrent use; the owning arena's lock covers it.
type Ledger map[UpgradeKind]int

// NewLedger returns an empty upgrade ledger.
func NewLedger() Ledger {
	return make(Ledger)
}

// Level returns the owned level for kind (0 when never bought).
func (l Ledger) Level(kind UpgradeKind) int {
	return l[kind]
}

// Has reports whether at least one level of kind is owned.
func (l Ledger) Has(kind UpgradeKind) bool {
	return l[kind] > 0
}

// AtMax reports whether kind cannot be leveled further.
func (l Ledger) AtMax(kind UpgradeKind) bool {
	return l[kind] >= kind.Info().MaxLevel
}

// Raise increments kind by one level and grants its unlock cascade at base
// level. Returns the new level of kind. Levels never decrease.
func (l Ledger) Raise(kind UpgradeKind) int {
	info := kind.Info()
	if l[kind] < info.MaxLevel {
		l[kind]++
	}
	for _, dep := range info.Unlocks {
		if l[dep] < 1 {
			l[dep] = 1
		}
	}
	return l[kind]
}

// Reset drops every owned upgrade.
func (l Ledger) Reset() {
	for k := range l {
		delete(l, k)
	}
}
