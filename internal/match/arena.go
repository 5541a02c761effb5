package match

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

const (
	// trapRadius is how close (in blocks) an intruder must come to a bed
	// to spring a trap.
	trapRadius = 10.0
	// auraRadius is the wider reach of the spawn regeneration and
	// resistance auras around the bed.
	auraRadius = 15.0
)

// Deps bundles the host-side collaborators an arena talks to.
type Deps struct {
	World     World
	Roster    Roster
	Presenter Presenter
	Stats     Stats
	Audit     *AuditLog
}

// Arena is one running match. A single mutex serializes the tick loop and
// every host event callback, so all game state below it is single-threaded.
type Arena struct {
	mu   sync.Mutex
	opts ArenaOptions

	phase Phase
	ticks int64

	players   map[string]*Player
	teams     map[TeamColor]*Team
	teamOrder []TeamColor

	sharedSpawners []*Spawner
	drops          *DropTracker

	lobbyCountdown *Countdown
	bedCountdown   *Countdown
	winCountdown   *Countdown
	bossCountdown  *Countdown
	respawns       map[string]*Countdown

	boss *Boss
	// bossDefeated marks teams that already emptied a pool; they never see
	// the boss again this match.
	bossDefeated map[TeamColor]bool

	winner    TeamColor
	startedAt time.Time

	world     World
	roster    Roster
	presenter Presenter
	stats     Stats
	audit     *AuditLog

	onEvicted func(playerID string)

	rng *rand.Rand
}

// NewArena validates opts, builds team and spawner state and stamps the
// protection masks into the world. The arena starts in LOBBY.
func NewArena(opts ArenaOptions, deps Deps) (*Arena, error) {
	opts.applyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if deps.Presenter == nil {
		deps.Presenter = NopPresenter{}
	}
	if deps.Stats == nil {
		deps.Stats = NopStats{}
	}

	a := &Arena{
		opts:         opts,
		phase:        PhaseLobby,
		players:      make(map[string]*Player),
		teams:        make(map[TeamColor]*Team),
		drops:        NewDropTracker(),
		respawns:     make(map[string]*Countdown),
		bossDefeated: make(map[TeamColor]bool),
		world:        deps.World,
		roster:       deps.Roster,
		presenter:    deps.Presenter,
		stats:        deps.Stats,
		audit:        deps.Audit,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, to := range opts.Teams {
		team := NewTeam(to.Color, to.Spawn, to.BedHead, to.BedFeet)
		for _, c := range to.Chests {
			team.AddChest(c)
		}
		a.teams[to.Color] = team
		a.teamOrder = append(a.teamOrder, to.Color)
		a.world.ProtectRadius(BlockAt(to.Spawn), opts.ProtectionRadius, ProtectionSpawn)
	}

	for _, so := range opts.Spawners {
		sp := NewSpawner(so.Resource, so.Pos, so.Team)
		if so.Team == TeamNone {
			a.sharedSpawners = append(a.sharedSpawners, sp)
		} else {
			team := a.teams[so.Team]
			team.Spawners = append(team.Spawners, sp)
		}
		a.world.ProtectRadius(BlockAt(so.Pos), opts.ProtectionRadius, ProtectionSpawner)
	}
	a.world.ProtectRadius(BlockAt(opts.BossAltar), opts.ProtectionRadius, ProtectionBossAltar)

	log.Printf("🏟️ arena %s ready: %d teams, %d players max", opts.Name, len(a.teams), opts.Capacity())
	return a, nil
}

// Name returns the arena's config name.
func (a *Arena) Name() string {
	return a.opts.Name
}

// Phase returns the current lifecycle phase.
func (a *Arena) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Ticks returns the arena tick counter.
func (a *Arena) Ticks() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticks
}

// Capacity returns the configured max player count.
func (a *Arena) Capacity() int {
	return a.opts.Capacity()
}

// PlayerCount returns how many players are in the arena, any phase.
func (a *Arena) PlayerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.players)
}

// TryAddPlayer admits a player. During the lobby they join as a fighter;
// once the match is running, latecomers come in as teamless spectators. The
// cross-arena "already in another match" check belongs to the registry; this
// guards everything arena-local.
func (a *Arena) TryAddPlayer(id, name string) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.players[id]; ok {
		return reject(RejectAlreadyJoined, "already in this match")
	}

	if a.phase != PhaseLobby {
		// Latecomers watch. Capacity only limits fighters.
		p := NewPlayer(id, name)
		p.SetSpectator(true)
		a.players[id] = p
		a.roster.Teleport(id, a.opts.SpectatorSpawn)
		a.presenter.Message(id, "The match is already running, you are spectating")
		a.emitAudit(AuditPlayerJoin, id, joinPayload{Name: name, Count: len(a.players)})
		log.Printf("👁️ [%s] %s joined as a spectator", a.opts.Name, name)
		return accept()
	}

	if len(a.players) >= a.opts.Capacity() {
		return reject(RejectMatchFull, "match is full")
	}

	p := NewPlayer(id, name)
	a.players[id] = p
	a.roster.Teleport(id, a.opts.Lobby)
	a.presenter.Broadcast(fmt.Sprintf("%s joined (%d/%d)", name, len(a.players), a.opts.Capacity()))
	a.emitAudit(AuditPlayerJoin, id, joinPayload{Name: name, Count: len(a.players)})
	log.Printf("👤 [%s] %s joined (%d/%d)", a.opts.Name, name, len(a.players), a.opts.Capacity())

	if len(a.players) == a.opts.Capacity() && a.lobbyCountdown == nil {
		a.startLobbyCountdown()
	}
	return accept()
}

// RemovePlayer takes a player out of the arena in any phase. During combat
// this can eliminate the player's team and end the match.
func (a *Arena) RemovePlayer(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok {
		return
	}
	delete(a.players, id)
	delete(a.respawns, id)

	// Withdraw any open ballot.
	if p.Team != TeamNone {
		if team := a.teams[p.Team]; team != nil && team.Poll != nil {
			team.Poll.RemoveVote(p)
		}
	}

	a.emitAudit(AuditPlayerLeave, id, leavePayload{Name: p.Name, Phase: a.phase.String()})
	log.Printf("🚪 [%s] %s left", a.opts.Name, p.Name)

	switch a.phase {
	case PhaseLobby:
		if a.lobbyCountdown != nil && len(a.players) < a.opts.Capacity() {
			a.lobbyCountdown = nil
			a.presenter.Broadcast("Start cancelled, waiting for players")
		}
	case PhaseCombat:
		if p.Team != TeamNone {
			a.handleTeamAttrition(a.teams[p.Team])
		}
	}
}

// TrySetTeam lets a lobby player pick a team.
func (a *Arena) TrySetTeam(id string, color TeamColor) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok {
		return reject(RejectNotInMatch, "join the match first")
	}
	if a.phase != PhaseLobby {
		return reject(RejectWrongPhase, "teams are locked once the match starts")
	}
	team, ok := a.teams[color]
	if !ok {
		return reject(RejectUnknownTarget, "no such team")
	}
	if len(a.membersOf(color)) >= a.opts.MaxPlayersPerTeam {
		return reject(RejectTeamFull, fmt.Sprintf("team %s is full", color))
	}

	p.Team = color
	a.presenter.Message(id, fmt.Sprintf("You joined team %s", team.Color))
	return accept()
}

// Tick advances the arena one simulation step. The host heartbeat calls
// this on every arena at the fixed rate; everything else the arena does is
// driven from here.
func (a *Arena) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ticks++

	if a.phase == PhaseCombat {
		// Spawners run on every tick.
		for _, color := range a.teamOrder {
			for _, sp := range a.teams[color].Spawners {
				sp.Advance(a.ticks, a.drops, a.presenter)
			}
		}
		for _, sp := range a.sharedSpawners {
			sp.Advance(a.ticks, a.drops, a.presenter)
		}

		if a.ticks%regenCadence == 0 {
			a.applyBaseAuras()
		}
		if a.ticks%trapCadence == trapOffset {
			a.evaluateTraps()
		}
	}

	if a.ticks%auraCadence == 0 {
		a.showInvulnerabilityAuras()
	}
	if a.ticks%secondCadence == 0 {
		a.everySecond()
	}
}

// membersOf lists the players currently on a team, spectators included.
func (a *Arena) membersOf(color TeamColor) []*Player {
	var out []*Player
	for _, p := range a.players {
		if p.Team == color {
			out = append(out, p)
		}
	}
	return out
}

// fightersOf lists the team members still in the fight.
func (a *Arena) fightersOf(color TeamColor) []*Player {
	var out []*Player
	for _, p := range a.players {
		if p.Team == color && !p.Spectator() {
			out = append(out, p)
		}
	}
	return out
}

// teamAlive reports whether a team still holds the match: it has fighters,
// or a bed plus members who can come back.
func (a *Arena) teamAlive(team *Team) bool {
	members := a.membersOf(team.Color)
	if len(members) == 0 {
		return false
	}
	if !team.BedDestroyed() {
		return true
	}
	for _, p := range members {
		if !p.Spectator() {
			return true
		}
	}
	// Spectators waiting on a respawn still count while the bed stood when
	// they died; with the bed gone and a pending respawn they are out.
	for _, p := range members {
		if _, pending := a.respawns[p.ID]; pending {
			return true
		}
	}
	return false
}

// evaluateTraps runs the ambush scan: per team, at most one armed trap
// springs on at most one intruder per evaluation.
func (a *Arena) evaluateTraps() {
	for _, color := range a.teamOrder {
		team := a.teams[color]
		if len(team.ArmedTraps()) == 0 {
			continue
		}

		victim := a.nearestIntruder(team)
		if victim == nil {
			continue
		}
		kind, ok := team.SpringTrap()
		if !ok {
			continue
		}

		info := kind.Info()
		a.roster.Inventory(victim.ID).ApplyEffects(info.Effects)
		victim.StartTrapImmunity(a.ticks, kind)

		a.presenter.Title(victim.ID, "Trap!", info.Name)
		a.presenter.Sound(victim.ID, "trap_sprung")
		a.presenter.BroadcastTeam(color, fmt.Sprintf("%s walked into your %s", victim.Name, info.Name))
		a.emitAudit(AuditTrapSprung, victim.ID, trapPayload{Team: color.String(), Trap: info.Name})
		log.Printf("🪤 [%s] %s sprang %s's %s", a.opts.Name, victim.Name, color, info.Name)
	}
}

// nearestIntruder finds the closest enemy fighter within ambush range of
// the team's bed, skipping players inside an immunity window.
func (a *Arena) nearestIntruder(team *Team) *Player {
	center := team.BedCenter()
	var best *Player
	bestDist := trapRadius * trapRadius
	for _, p := range a.players {
		if p.Team == team.Color || !p.Fighting() || p.TrapImmune(a.ticks) {
			continue
		}
		d := a.roster.Position(p.ID).DistanceSquared(center)
		if d <= bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// applyBaseAuras grants spawn_regeneration and spawn_resistance to team
// fighters near their own bed.
func (a *Arena) applyBaseAuras() {
	for _, color := range a.teamOrder {
		team := a.teams[color]
		regen := team.Upgrades().Has(UpgradeSpawnRegen)
		resist := team.Upgrades().Has(UpgradeSpawnResistance)
		if !regen && !resist {
			continue
		}

		var effects []Effect
		if regen {
			effects = append(effects, Effect{Kind: EffectRegeneration, Ticks: regenCadence * 2, Amplifier: 0})
		}
		if resist {
			effects = append(effects, Effect{Kind: EffectResistance, Ticks: regenCadence * 2, Amplifier: 0})
		}

		center := team.BedCenter()
		for _, p := range a.fightersOf(color) {
			if a.roster.Position(p.ID).DistanceSquared(center) <= auraRadius*auraRadius {
				a.roster.Inventory(p.ID).ApplyEffects(effects)
			}
		}
	}
}

// showInvulnerabilityAuras pings the particle ring over freshly respawned
// players.
func (a *Arena) showInvulnerabilityAuras() {
	for _, p := range a.players {
		if p.Invulnerable(a.ticks) {
			a.presenter.InvulnerabilityAura(p.ID)
		}
	}
}

func (a *Arena) emitAudit(kind AuditKind, playerID string, payload interface{}) {
	if a.audit != nil {
		a.audit.Emit(kind, a.opts.Name, uint64(a.ticks), playerID, payload)
	}
}
