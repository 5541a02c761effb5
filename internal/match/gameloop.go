package match

import (
	"fmt"
	"log"
	"time"
)

// SetEvictionHook registers a callback fired (on its own goroutine) for
// every player pushed out of the arena by a full reset. The host uses it to
// release the player→arena registry mapping.
func (a *Arena) SetEvictionHook(hook func(playerID string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvicted = hook
}

// everySecond drives everything that runs on the one-second cadence:
// countdowns, pending respawns and open specialization polls.
func (a *Arena) everySecond() {
	if a.lobbyCountdown != nil && !a.lobbyCountdown.Advance() {
		a.lobbyCountdown = nil
	}
	if a.bedCountdown != nil && !a.bedCountdown.Advance() {
		a.bedCountdown = nil
	}
	if a.bossCountdown != nil && !a.bossCountdown.Advance() {
		a.bossCountdown = nil
	}
	if a.winCountdown != nil && !a.winCountdown.Advance() {
		a.winCountdown = nil
	}

	for id, cd := range a.respawns {
		if !cd.Advance() {
			delete(a.respawns, id)
		}
	}

	if a.phase == PhaseCombat {
		a.advancePolls()
	}
}

// announceAt reports whether a countdown second is worth a broadcast:
// whole minutes up to five, then 30, 10 and the last five seconds.
func announceAt(sec int) bool {
	if sec <= 5 {
		return true
	}
	switch sec {
	case 10, 30:
		return true
	}
	return sec%60 == 0 && sec <= 300
}

func (a *Arena) startLobbyCountdown() {
	a.lobbyCountdown = NewCountdown(a.opts.LobbySeconds,
		func(sec int) {
			a.presenter.CountdownChanged("lobby", sec)
			if announceAt(sec) {
				a.presenter.Broadcast(fmt.Sprintf("Match starts in %ds", sec))
			}
		},
		a.startCombat,
	)
	log.Printf("⏱️ [%s] lobby countdown armed (%ds)", a.opts.Name, a.opts.LobbySeconds)
}

// startCombat is the LOBBY -> COMBAT transition.
func (a *Arena) startCombat() {
	a.phase = PhaseCombat
	a.startedAt = time.Now()
	a.world.PinChunks()

	a.distributeTeams()

	for _, color := range a.teamOrder {
		team := a.teams[color]
		members := a.membersOf(color)
		for _, sp := range team.Spawners {
			sp.SetTeamSize(len(members))
		}
		for _, p := range members {
			inv := a.roster.Inventory(p.ID)
			inv.Clear()
			a.roster.Teleport(p.ID, team.Spawn)
			a.presenter.Title(p.ID, "Fight!", fmt.Sprintf("Defend the %s bed", color))
		}
		a.presenter.TeamStatusChanged(color, team.BedDestroyed(), len(members))
	}

	a.startBedCountdown()
	a.startBossCountdown(a.opts.BossInitialSeconds)

	a.presenter.Broadcast("The match has begun")
	a.emitAudit(AuditPhaseChange, "", phasePayload{Phase: PhaseCombat.String()})
	a.stats.Analytics("match_start", a.opts.Name, a.opts.Name)
	log.Printf("⚔️ [%s] combat started with %d players", a.opts.Name, len(a.players))
}

// distributeTeams hands every teamless player to the least populated team,
// in shuffled order so repeat lobbies do not produce the same split.
func (a *Arena) distributeTeams() {
	var unassigned []*Player
	for _, p := range a.players {
		if p.Team == TeamNone {
			unassigned = append(unassigned, p)
		}
	}
	a.rng.Shuffle(len(unassigned), func(i, j int) {
		unassigned[i], unassigned[j] = unassigned[j], unassigned[i]
	})

	for _, p := range unassigned {
		best := a.teamOrder[0]
		for _, color := range a.teamOrder[1:] {
			if len(a.membersOf(color)) < len(a.membersOf(best)) {
				best = color
			}
		}
		p.Team = best
		a.presenter.Message(p.ID, fmt.Sprintf("You were assigned to team %s", best))
	}
}

// startBedCountdown arms the sudden-death timer. When it runs out every
// standing bed is destroyed at once.
func (a *Arena) startBedCountdown() {
	a.bedCountdown = NewCountdown(a.opts.BedDestructionSeconds,
		func(sec int) {
			a.presenter.CountdownChanged("bed_destruction", sec)
			if announceAt(sec) {
				a.presenter.Broadcast(fmt.Sprintf("All beds break in %ds", sec))
			}
		},
		func() {
			for _, color := range a.teamOrder {
				team := a.teams[color]
				if team.DestroyBed() {
					a.presenter.TeamStatusChanged(color, true, len(a.fightersOf(color)))
				}
			}
			a.presenter.Broadcast("All beds are gone. No more respawns!")
			a.emitAudit(AuditBedDestroyed, "", bedPayload{Team: "all", Cause: "timeout"})
		},
	)
}

// handleTeamAttrition re-evaluates a team after it lost a member or a
// fighter. An emptied team forfeits its bed and may end the match.
func (a *Arena) handleTeamAttrition(team *Team) {
	if team == nil {
		anomaly("attrition", "nil team in arena %s", a.opts.Name)
		return
	}
	if !a.teamAlive(team) {
		if team.DestroyBed() {
			// Final elimination takes the bed with it.
			a.presenter.Broadcast(fmt.Sprintf("Team %s was eliminated", team.Color))
			a.emitAudit(AuditBedDestroyed, "", bedPayload{Team: team.Color.String(), Cause: "elimination"})
		}
		a.presenter.TeamStatusChanged(team.Color, true, 0)
		if a.boss != nil {
			a.boss.DropPool(team.Color)
			if a.boss.OpenPools() == 0 {
				a.despawnBoss()
			}
		}
	}
	a.checkWinners()
}

// checkWinners closes the match when at most one team is left standing.
func (a *Arena) checkWinners() {
	if a.phase != PhaseCombat {
		anomaly("winners", "winner check outside combat in arena %s (%s)", a.opts.Name, a.phase)
		return
	}
	var standing []TeamColor
	for _, color := range a.teamOrder {
		if a.teamAlive(a.teams[color]) {
			standing = append(standing, color)
		}
	}
	if len(standing) > 1 {
		return
	}

	winner := TeamNone
	if len(standing) == 1 {
		winner = standing[0]
	}
	a.startEnding(winner)
}

// startEnding is the COMBAT -> ENDING transition. TeamNone means a draw
// (everyone left).
func (a *Arena) startEnding(winner TeamColor) {
	a.phase = PhaseEnding
	a.winner = winner

	duration := int(time.Since(a.startedAt).Seconds())
	a.stats.Analytics("match_duration", fmt.Sprintf("%d", duration), a.opts.Name)

	if winner != TeamNone {
		team := a.teams[winner]
		for _, p := range a.membersOf(winner) {
			a.stats.Record(p.ID, StatWin, a.opts.Name)
		}
		if team.Specialization != SpecNone {
			a.stats.Analytics("spec_win", team.Specialization.String(), a.opts.Name)
		}
		a.presenter.Broadcast(fmt.Sprintf("Team %s wins!", winner))
	} else {
		a.presenter.Broadcast("Nobody wins this one")
	}
	for _, color := range a.teamOrder {
		if color == winner {
			continue
		}
		team := a.teams[color]
		if team.Specialization != SpecNone {
			a.stats.Analytics("spec_loss", team.Specialization.String(), a.opts.Name)
		}
	}

	a.presenter.MatchEnded(winner)
	a.emitAudit(AuditPhaseChange, "", phasePayload{Phase: PhaseEnding.String(), Winner: winner.String()})
	log.Printf("🏆 [%s] winner: %s (%ds)", a.opts.Name, winner, duration)

	a.winCountdown = NewCountdown(a.opts.WinSeconds,
		func(sec int) {
			a.presenter.CountdownChanged("ending", sec)
			if winner != TeamNone {
				a.presenter.Fireworks(winner)
			}
		},
		a.resetLocked,
	)
}

// Reset forces the arena back to a fresh lobby from any phase.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

// resetLocked rewinds every piece of match state. Players are evicted, the
// world restored, teams and spawners rewound; the arena is ready for a new
// lobby when it returns.
func (a *Arena) resetLocked() {
	evicted := make([]string, 0, len(a.players))
	for id, p := range a.players {
		inv := a.roster.Inventory(id)
		inv.Clear()
		a.roster.Teleport(id, a.opts.Lobby)
		p.ResetForMatch()
		evicted = append(evicted, id)
	}
	a.players = make(map[string]*Player)

	for _, color := range a.teamOrder {
		a.teams[color].ResetForMatch()
	}
	for _, sp := range a.sharedSpawners {
		sp.Reset()
	}
	a.drops.Clear()
	a.world.Restore()

	a.lobbyCountdown = nil
	a.bedCountdown = nil
	a.winCountdown = nil
	a.bossCountdown = nil
	a.respawns = make(map[string]*Countdown)
	a.boss = nil
	a.bossDefeated = make(map[TeamColor]bool)
	a.winner = TeamNone
	a.phase = PhaseLobby

	if a.onEvicted != nil {
		for _, id := range evicted {
			go a.onEvicted(id)
		}
	}

	a.emitAudit(AuditPhaseChange, "", phasePayload{Phase: PhaseLobby.String()})
	log.Printf("🔄 [%s] arena reset", a.opts.Name)
}
