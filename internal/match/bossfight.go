package match

import (
	"fmt"
	"log"
)

// startBossCountdown arms the next boss spawn. Nothing is armed when every
// team already beat the boss.
func (a *Arena) startBossCountdown(seconds int) {
	if len(a.bossEligible()) == 0 {
		return
	}
	a.bossCountdown = NewCountdown(seconds,
		func(sec int) {
			a.presenter.CountdownChanged("boss", sec)
			if announceAt(sec) {
				a.presenter.Broadcast(fmt.Sprintf("The boss rises in %ds", sec))
			}
		},
		a.spawnBoss,
	)
}

// bossEligible lists the standing teams that have not beaten the boss yet.
func (a *Arena) bossEligible() []TeamColor {
	var out []TeamColor
	for _, color := range a.teamOrder {
		if !a.bossDefeated[color] && a.teamAlive(a.teams[color]) {
			out = append(out, color)
		}
	}
	return out
}

func (a *Arena) spawnBoss() {
	eligible := a.bossEligible()
	if len(eligible) == 0 {
		return
	}
	pool := BossPoolPerSlot * float64(a.opts.MaxPlayersPerTeam)
	a.boss = NewBoss(a.opts.BossAltar, eligible, pool)
	a.presenter.BossSpawned(a.opts.BossAltar)
	a.presenter.Broadcast("The boss has risen at the altar!")
	a.emitAudit(AuditBossSpawn, "", bossPayload{Pools: len(eligible)})
	log.Printf("🐉 [%s] boss spawned, %d pools of %.0f", a.opts.Name, len(eligible), pool)
}

func (a *Arena) despawnBoss() {
	a.boss = nil
	a.presenter.BossDespawned()
	// Teams that still owe a boss kill get another chance later.
	if len(a.bossEligible()) > 0 {
		a.startBossCountdown(a.opts.BossRespawnSeconds)
	}
}

// HandleBossDamage is the host event for a player hitting the boss entity.
// Damage lands on the attacker team's simulated pool; the entity's real
// health is never touched. Only melee counts.
func (a *Arena) HandleBossDamage(playerID string, amount float64, melee bool) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	if a.phase != PhaseCombat || a.boss == nil {
		return reject(RejectWrongPhase, "")
	}
	if !p.Fighting() {
		return reject(RejectSpectator, "")
	}
	if !melee {
		a.presenter.Message(playerID, "Only melee hits hurt the boss")
		return reject(RejectMeleeOnly, "only melee hits hurt the boss")
	}
	if !a.boss.Fightable(p.Team) {
		a.presenter.Message(playerID, "Your team already dealt with the boss")
		return reject(RejectNotFightable, "your team already dealt with the boss")
	}

	depleted, ok := a.boss.Damage(p.Team, amount)
	if !ok {
		anomaly("boss_damage", "pool vanished under %s in arena %s", p.Team, a.opts.Name)
		return reject(RejectNotFightable, "")
	}

	if !depleted {
		health, _ := a.boss.PoolHealth(p.Team)
		a.presenter.BossPoolChanged(p.Team, health, a.boss.MaxPool())
		return accept()
	}

	// Pool emptied: this team beat the boss. The finishing blow opens the
	// specialization poll with the killer holding the heavier ballot.
	a.bossDefeated[p.Team] = true
	a.presenter.BossPoolChanged(p.Team, 0, a.boss.MaxPool())
	a.openPoll(a.teams[p.Team], p)
	a.stats.Analytics("boss_defeated", p.Team.String(), a.opts.Name)
	a.emitAudit(AuditBossDefeated, playerID, bossPayload{Team: p.Team.String()})
	log.Printf("🐉💀 [%s] %s downed the boss for team %s", a.opts.Name, p.Name, p.Team)

	// The first victory retires this boss instance. Teams still owed a
	// kill get a fresh one after the respawn countdown.
	a.despawnBoss()
	return accept()
}

// openPoll starts a fresh specialization vote for team. starter, when not
// nil, gets the weighted ballot.
func (a *Arena) openPoll(team *Team, starter *Player) {
	for _, p := range a.membersOf(team.Color) {
		p.StartedPoll = false
	}
	if starter != nil {
		starter.StartedPoll = true
	}
	team.Poll = NewSpecializationPoll()
	a.presenter.PollOpened(team.Color, team.Poll.Options)
	a.presenter.BroadcastTeam(team.Color, "Choose your specialization! Vote now")
}

// CastVote records a ballot in the voter's team poll. Re-voting replaces
// the earlier ballot.
func (a *Arena) CastVote(playerID string, spec SpecializationKind) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[playerID]
	if !ok {
		return reject(RejectNotInMatch, "")
	}
	if p.Team == TeamNone {
		return reject(RejectNoTeam, "")
	}
	team := a.teams[p.Team]
	if team.Poll == nil {
		return reject(RejectNoPoll, "no poll is open for your team")
	}
	if !team.Poll.Allows(spec) {
		return reject(RejectUnknownTarget, "that option is not on the ballot")
	}

	team.Poll.SetVote(p, spec)
	a.presenter.Message(playerID, fmt.Sprintf("Vote recorded: %s", spec))
	return accept()
}

// advancePolls moves every open poll one second forward, closing early when
// the whole team has voted.
func (a *Arena) advancePolls() {
	for _, color := range a.teamOrder {
		team := a.teams[color]
		poll := team.Poll
		if poll == nil {
			continue
		}

		if poll.VoteCount() >= len(a.membersOf(color)) && poll.VoteCount() > 0 {
			a.tallyPoll(team)
			continue
		}

		poll.TicksLeft -= secondCadence
		secLeft := int(poll.TicksLeft / TicksPerSecond)
		switch secLeft {
		case 30, 10:
			a.presenter.BroadcastTeam(color, fmt.Sprintf("Specialization vote closes in %ds", secLeft))
		}
		if poll.TicksLeft <= 0 {
			a.tallyPoll(team)
		}
	}
}

// tallyPoll resolves a closed poll: a single leader wins, a tie re-polls
// the tied options, zero ballots restart from scratch.
func (a *Arena) tallyPoll(team *Team) {
	leaders := team.Poll.Leaders()
	switch len(leaders) {
	case 0:
		team.Poll = NewSpecializationPoll()
		a.presenter.BroadcastTeam(team.Color, "Nobody voted. The poll starts over")
	case 1:
		team.Poll = nil
		team.Specialization = leaders[0]
		team.MarkChestsStale()
		a.presenter.SpecializationChosen(team.Color, leaders[0])
		a.presenter.BroadcastTeam(team.Color, fmt.Sprintf("Your team specializes in %s", leaders[0]))
		a.stats.Analytics("spec_choice", leaders[0].String(), a.opts.Name)
		a.emitAudit(AuditSpecChosen, "", specPayload{Team: team.Color.String(), Spec: leaders[0].String()})
		log.Printf("🗳️ [%s] team %s chose %s", a.opts.Name, team.Color, leaders[0])
	default:
		// Starter weight carries into the runoff.
		team.Poll = NewRunoffPoll(leaders)
		a.presenter.BroadcastTeam(team.Color, "The vote tied. Runoff between the tied options!")
	}
}
