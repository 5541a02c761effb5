package match

// RejectReason discriminates why a player-facing action was refused.
// Rejections are normal gameplay outcomes, not errors.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectNotInMatch      RejectReason = "not_in_match"
	RejectWrongPhase      RejectReason = "wrong_phase"
	RejectSpectator       RejectReason = "spectator"
	RejectNoTeam          RejectReason = "no_team"
	RejectTeamFull        RejectReason = "team_full"
	RejectMatchFull       RejectReason = "match_full"
	RejectAlreadyJoined   RejectReason = "already_joined"
	RejectUnknownTarget   RejectReason = "unknown_target"
	RejectCannotAfford    RejectReason = "cannot_afford"
	RejectInventoryFull   RejectReason = "inventory_full"
	RejectMaxLevel        RejectReason = "max_level"
	RejectAlreadyOwned    RejectReason = "already_owned"
	RejectTrapArmed       RejectReason = "trap_armed"
	RejectSpecLocked      RejectReason = "spec_locked"
	RejectProtectedBlock  RejectReason = "protected_block"
	RejectOutsideRegion   RejectReason = "outside_region"
	RejectNotPlayerPlaced RejectReason = "not_player_placed"
	RejectOwnBed          RejectReason = "own_bed"
	RejectFriendlyFire    RejectReason = "friendly_fire"
	RejectInvulnerable    RejectReason = "invulnerable"
	RejectNoPoll          RejectReason = "no_poll"
	RejectAlreadyVoted    RejectReason = "already_voted"
	RejectMeleeOnly       RejectReason = "melee_only"
	RejectNotFightable    RejectReason = "not_fightable"
	RejectWrongChest      RejectReason = "wrong_chest"
)

// Result is the outcome of a player-facing arena operation. Message is safe
// to show the acting player.
type Result struct {
	OK      bool         `json:"ok"`
	Reason  RejectReason `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
	// NewLevel carries the reached level after upgrade purchases.
	NewLevel int `json:"newLevel,omitempty"`
	// RefreshChest tells the host a team chest needs its contents
	// re-upgraded before showing them.
	RefreshChest bool `json:"refreshChest,omitempty"`
}

func accept() Result {
	return Result{OK: true}
}

func acceptLevel(level int) Result {
	return Result{OK: true, NewLevel: level}
}

func reject(reason RejectReason, msg string) Result {
	return Result{Reason: reason, Message: msg}
}
