package match

import (
	"fmt"
	"log"
)

// HandleBlockPlace gates a block placement. An accepted placement is
// recorded so the world can be restored after the match.
func (a *Arena) HandleBlockPlace(playerID string, pos BlockPos, replaced bool) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	if a.phase != PhaseCombat || !p.Fighting() {
		return reject(RejectWrongPhase, "you cannot build right now")
	}
	if !a.world.InsideRegion(pos.Center()) {
		return reject(RejectOutsideRegion, "outside the arena")
	}
	if reason, protected := a.world.ProtectedAt(pos); protected {
		return reject(RejectProtectedBlock, fmt.Sprintf("you cannot build near the %s", reason))
	}

	a.world.RecordPlaced(pos, replaced)
	return accept()
}

// HandleBlockBreak gates a block break. Enemy beds route into bed
// destruction; everything else only breaks if a player placed it this
// match.
func (a *Arena) HandleBlockBreak(playerID string, pos BlockPos) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	if a.phase != PhaseCombat || !p.Fighting() {
		return reject(RejectWrongPhase, "you cannot break blocks right now")
	}

	for _, color := range a.teamOrder {
		team := a.teams[color]
		if !team.IsBed(pos) {
			continue
		}
		if color == p.Team {
			return reject(RejectOwnBed, "you cannot break your own bed")
		}
		return a.destroyBed(p, team)
	}

	if reason, protected := a.world.ProtectedAt(pos); protected {
		return reject(RejectProtectedBlock, fmt.Sprintf("you cannot break the %s", reason))
	}
	if !a.world.PlayerPlaced(pos) {
		return reject(RejectNotPlayerPlaced, "only placed blocks can be broken")
	}

	a.world.ForgetPlaced(pos)
	return accept()
}

// destroyBed commits an enemy bed break. Destruction is monotonic; a
// second break of the same bed is an anomaly, not a crash.
func (a *Arena) destroyBed(breaker *Player, team *Team) Result {
	if !team.DestroyBed() {
		anomaly("bed_break", "bed of %s broken twice in arena %s", team.Color, a.opts.Name)
		return reject(RejectUnknownTarget, "")
	}

	breaker.BedsDestroyed++
	a.stats.Record(breaker.ID, StatBedDestroyed, a.opts.Name)
	a.presenter.Broadcast(fmt.Sprintf("%s destroyed team %s's bed!", breaker.Name, team.Color))
	a.presenter.TeamTitle(team.Color, "Bed destroyed!", "You will no longer respawn")
	a.presenter.TeamSound(team.Color, "bed_destroyed")
	a.presenter.TeamStatusChanged(team.Color, true, len(a.fightersOf(team.Color)))
	a.emitAudit(AuditBedDestroyed, breaker.ID, bedPayload{Team: team.Color.String(), Cause: "broken"})
	log.Printf("🛏️💥 [%s] %s destroyed team %s's bed", a.opts.Name, breaker.Name, team.Color)
	return accept()
}

// HandleAttack gates player-versus-player damage. An accepted result means
// the host should let the hit land. Swinging at someone forfeits the
// attacker's own respawn protection.
func (a *Arena) HandleAttack(attackerID, victimID string) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	attacker, ok := a.players[attackerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	victim, ok := a.players[victimID]
	if !ok {
		return reject(RejectUnknownTarget, "")
	}
	if a.phase != PhaseCombat {
		return reject(RejectWrongPhase, "")
	}
	if !attacker.Fighting() || !victim.Fighting() {
		return reject(RejectSpectator, "")
	}
	if attacker.Team == victim.Team {
		return reject(RejectFriendlyFire, "")
	}

	if attacker.Invulnerable(a.ticks) {
		attacker.BreakInvulnerability()
	}
	if victim.Invulnerable(a.ticks) {
		return reject(RejectInvulnerable, "")
	}
	return accept()
}

// HandleDeath processes a player death reported by the host. With the bed
// standing the victim waits out a respawn delay as a spectator; without it
// the death is final and may eliminate the team.
func (a *Arena) HandleDeath(victimID, killerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	victim, ok := a.players[victimID]
	if !ok || a.phase != PhaseCombat {
		return
	}
	if victim.Team == TeamNone {
		anomaly("death", "teamless player %s died in arena %s", victim.Name, a.opts.Name)
		return
	}
	team := a.teams[victim.Team]

	victim.Deaths++
	a.stats.Record(victimID, StatDeath, a.opts.Name)

	killer := a.players[killerID]
	if killer != nil && killer.Team == victim.Team {
		killer = nil
	}

	final := team.BedDestroyed()
	if killer != nil {
		if final {
			killer.FinalKills++
			a.stats.Record(killer.ID, StatFinalKill, a.opts.Name)
		} else {
			killer.Kills++
			a.stats.Record(killer.ID, StatKill, a.opts.Name)
		}
	}

	victim.SetSpectator(true)
	a.roster.Inventory(victimID).Clear()
	a.roster.Teleport(victimID, a.opts.SpectatorSpawn)

	a.emitAudit(AuditDeath, victimID, deathPayload{Killer: killerID, Final: final})

	if final {
		if killer != nil {
			a.presenter.Broadcast(fmt.Sprintf("%s was finally eliminated by %s", victim.Name, killer.Name))
		} else {
			a.presenter.Broadcast(fmt.Sprintf("%s was finally eliminated", victim.Name))
		}
		a.presenter.Title(victimID, "Eliminated", "Your bed was gone")
		log.Printf("💀 [%s] final kill: %s", a.opts.Name, victim.Name)
		a.handleTeamAttrition(team)
		return
	}

	a.respawns[victimID] = NewCountdown(a.opts.RespawnSeconds,
		func(sec int) {
			a.presenter.Title(victimID, fmt.Sprintf("Respawn in %d", sec), "")
		},
		func() { a.respawnPlayer(victimID) },
	)
}

// respawnPlayer puts a waiting spectator back on their team spawn with a
// short protection window.
func (a *Arena) respawnPlayer(playerID string) {
	p, ok := a.players[playerID]
	if !ok {
		return
	}
	if a.phase != PhaseCombat {
		return
	}
	team := a.teams[p.Team]
	if team == nil {
		anomaly("respawn", "player %s has no team in arena %s", p.Name, a.opts.Name)
		return
	}
	if team.BedDestroyed() {
		// Bed fell while the timer ran. The death becomes final after all.
		a.presenter.Title(playerID, "Eliminated", "Your bed was destroyed while you waited")
		a.handleTeamAttrition(team)
		return
	}

	p.SetSpectator(false)
	p.StartInvulnerability(a.ticks, a.opts.InvulnerableSeconds)
	a.roster.Teleport(playerID, team.Spawn)

	// Re-stamp owned upgrades onto the fresh kit.
	inv := a.roster.Inventory(playerID)
	if tier, ok := bestArmor(p); ok {
		inv.SetArmor(tier)
	}
	inv.SetProtection(team.Upgrades().Level(UpgradeProtection))
	inv.SetSharpness(team.Upgrades().Level(UpgradeSharpness))
	a.applyHaste(p, team.Upgrades().Level(UpgradeHaste))
	a.presenter.Title(playerID, "Back in!", fmt.Sprintf("%ds of protection", a.opts.InvulnerableSeconds))
}

// HandleDropPickup moves a ground drop into the collector's inventory. A
// full inventory leaves the drop where it was.
func (a *Arena) HandleDropPickup(playerID, dropID string) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	if a.phase != PhaseCombat || !p.Fighting() {
		return reject(RejectWrongPhase, "")
	}
	drop, ok := a.drops.Collect(dropID)
	if !ok {
		return reject(RejectUnknownTarget, "")
	}
	if !a.roster.Inventory(playerID).Add(drop.Resource.Stack(1)) {
		a.drops.Return(drop)
		return reject(RejectInventoryFull, "inventory full")
	}
	return accept()
}

// HandleChestOpen gates team chest access and reports whether the host
// must refresh the contents first (upgrades bought since the last open).
func (a *Arena) HandleChestOpen(playerID string, pos BlockPos) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}

	var owner *Team
	for _, color := range a.teamOrder {
		if a.teams[color].OwnsChest(pos) {
			owner = a.teams[color]
			break
		}
	}
	if owner == nil {
		// Not a team chest; none of the arena's business.
		return accept()
	}
	if p.Team != owner.Color {
		return reject(RejectWrongChest, "that chest belongs to another team")
	}

	res := accept()
	res.RefreshChest = owner.TakeChestRefresh(pos)
	return res
}
