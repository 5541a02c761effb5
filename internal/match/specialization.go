package match

// SpecializationKind is a team-wide playstyle unlocked through a weighted
// vote once the late-game boss has been dealt with.
type SpecializationKind int

const (
	SpecNone SpecializationKind = iota
	SpecPvP
	SpecDefense
	SpecDestruction
)

// SpecializationInfo is the static catalog entry for a specialization.
type SpecializationInfo struct {
	Name        string
	Description string
}

var specTable = map[SpecializationKind]SpecializationInfo{
	SpecPvP:         {Name: "pvp", Description: "Mobility and dueling gear"},
	SpecDefense:     {Name: "defense", Description: "Golems and fortification gear"},
	SpecDestruction: {Name: "destruction", Description: "TNT and fireballs"},
}

// AllSpecializations lists the votable options in stable order.
func AllSpecializations() []SpecializationKind {
	return []SpecializationKind{SpecPvP, SpecDefense, SpecDestruction}
}

// Info returns the static catalog entry.
func (s SpecializationKind) Info() SpecializationInfo {
	return specTable[s]
}

func (s SpecializationKind) String() string {
	if s == SpecNone {
		return "none"
	}
	return specTable[s].Name
}

// ParseSpecialization maps an API name back to a specialization kind.
func ParseSpecialization(name string) (SpecializationKind, bool) {
	for kind, info := range specTable {
		if info.Name == name {
			return kind, true
		}
	}
	return 0, false
}
