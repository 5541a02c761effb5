package match

// Phase is the lifecycle state of an arena. Transitions only move forward
// (LOBBY -> COMBAT -> ENDING) and then wrap back to LOBBY through a full reset.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseCombat
	PhaseEnding
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "LOBBY"
	case PhaseCombat:
		return "COMBAT"
	case PhaseEnding:
		return "ENDING"
	default:
		return "UNKNOWN"
	}
}
