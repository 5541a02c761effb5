package match

// TrapKind identifies a purchasable base trap.
type TrapKind int

const (
	TrapBlindness TrapKind = iota
	TrapConfusion
	TrapWeakness
	TrapFatigue
)

// EffectKind is a status effect delivered to the host when a trap fires.
type EffectKind string

const (
	EffectBlindness     EffectKind = "blindness"
	EffectSlowness      EffectKind = "slowness"
	EffectNausea        EffectKind = "nausea"
	EffectWeakness      EffectKind = "weakness"
	EffectMiningFatigue EffectKind = "mining_fatigue"

	// Upgrade-driven effects share the delivery path with trap effects.
	EffectHaste        EffectKind = "haste"
	EffectRegeneration EffectKind = "regeneration"
	EffectResistance   EffectKind = "resistance"
)

// Effect is one timed status effect applied to a player.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Ticks     int        `json:"ticks"`
	Amplifier int        `json:"amplifier"`
}

// TrapInfo is the static catalog entry for a trap kind.
type TrapInfo struct {
	Name  string
	Price Price
	// DurationTicks is the longest effect duration; the victim's ambush
	// immunity window is derived from it.
	DurationTicks int
	Effects       []Effect
}

var trapTable = map[TrapKind]TrapInfo{
	TrapBlindness: {
		Name: "blindness_trap", Price: Price{ResourceDiamond, 1}, DurationTicks: 8 * 20,
		Effects: []Effect{{EffectBlindness, 8 * 20, 0}, {EffectSlowness, 8 * 20, 1}},
	},
	TrapConfusion: {
		Name: "confusion_trap", Price: Price{ResourceDiamond, 1}, DurationTicks: 10 * 20,
		Effects: []Effect{{EffectNausea, 10 * 20, 0}},
	},
	TrapWeakness: {
		Name: "weakness_trap", Price: Price{ResourceDiamond, 1}, DurationTicks: 10 * 20,
		Effects: []Effect{{EffectWeakness, 10 * 20, 0}},
	},
	TrapFatigue: {
		Name: "fatigue_trap", Price: Price{ResourceDiamond, 1}, DurationTicks: 10 * 20,
		Effects: []Effect{{EffectMiningFatigue, 10 * 20, 0}},
	},
}

// Info returns the static catalog entry.
func (t TrapKind) Info() TrapInfo {
	return trapTable[t]
}

func (t TrapKind) String() string {
	return trapTable[t].Name
}

// ParseTrap maps an API name back to a trap kind.
func ParseTrap(name string) (TrapKind, bool) {
	for kind, info := range trapTable {
		if info.Name == name {
			return kind, true
		}
	}
	return 0, false
}
