package match

// TeamColor identifies one of the arena's fixed teams. TeamNone marks a
// player who has not picked (or been assigned) a team yet.
type TeamColor int

const (
	TeamNone TeamColor = iota
	TeamRed
	TeamBlue
	TeamGreen
	TeamYellow
)

var teamColorNames = map[TeamColor]string{
	TeamNone:   "none",
	TeamRed:    "red",
	TeamBlue:   "blue",
	TeamGreen:  "green",
	TeamYellow: "yellow",
}

func (c TeamColor) String() string {
	return teamColorNames[c]
}

// ParseTeamColor maps a config/API name back to a team color.
func ParseTeamColor(name string) (TeamColor, bool) {
	for color, n := range teamColorNames {
		if n == name && color != TeamNone {
			return color, true
		}
	}
	return TeamNone, false
}

// Player is one participant's per-match state. All mutation happens under
// the owning arena's lock.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Team      TeamColor `json:"team"`
	spectator bool

	// upgrades holds player-scoped purchases (armor tiers).
	upgrades Ledger

	// StartedPoll marks the player whose boss kill opened the current
	// specialization poll; their vote weighs 11 instead of 10.
	StartedPoll bool

	// Tick stamps for timed windows. Zero means inactive.
	trapImmuneUntil   int64
	invulnerableUntil int64

	Kills          int `json:"kills"`
	FinalKills     int `json:"finalKills"`
	Deaths         int `json:"deaths"`
	BedsDestroyed  int `json:"bedsDestroyed"`
}

// NewPlayer creates match state for a joining player.
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, upgrades: NewLedger()}
}

// Spectator reports whether the player is out of the fight (dead waiting to
// respawn, or finally eliminated).
func (p *Player) Spectator() bool {
	return p.spectator
}

// SetSpectator toggles spectator mode.
func (p *Player) SetSpectator(v bool) {
	p.spectator = v
}

// Fighting reports whether the player takes part in combat right now.
func (p *Player) Fighting() bool {
	return p.Team != TeamNone && !p.spectator
}

// Upgrades exposes the player-scoped upgrade ledger.
func (p *Player) Upgrades() Ledger {
	return p.upgrades
}

// StartTrapImmunity opens the ambush immunity window: the trap's own
// duration plus a five second grace so one walk through a base springs at
// most one trap.
func (p *Player) StartTrapImmunity(nowTick int64, trap TrapKind) {
	p.trapImmuneUntil = nowTick + int64(trap.Info().DurationTicks) + 5*TicksPerSecond
}

// TrapImmune reports whether the player cannot spring traps at nowTick.
func (p *Player) TrapImmune(nowTick int64) bool {
	return nowTick < p.trapImmuneUntil
}

// StartInvulnerability opens the respawn protection window.
func (p *Player) StartInvulnerability(nowTick int64, seconds int) {
	p.invulnerableUntil = nowTick + int64(seconds)*TicksPerSecond
}

// Invulnerable reports whether respawn protection is active at nowTick.
func (p *Player) Invulnerable(nowTick int64) bool {
	return nowTick < p.invulnerableUntil
}

// BreakInvulnerability ends respawn protection early. Attacking someone
// forfeits the shield.
func (p *Player) BreakInvulnerability() {
	p.invulnerableUntil = 0
}

// ResetForMatch clears all per-match state while keeping identity.
func (p *Player) ResetForMatch() {
	p.Team = TeamNone
	p.spectator = false
	p.upgrades.Reset()
	p.StartedPoll = false
	p.trapImmuneUntil = 0
	p.invulnerableUntil = 0
	p.Kills = 0
	p.FinalKills = 0
	p.Deaths = 0
	p.BedsDestroyed = 0
}
