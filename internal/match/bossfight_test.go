package match

import "testing"

// bossUp runs combat forward until the initial boss countdown fires.
func bossUp(t *testing.T, ta *testArena) {
	t.Helper()
	ta.startCombat(t)
	ta.seconds(testOptions().BossInitialSeconds)
	ta.arena.mu.Lock()
	up := ta.arena.boss != nil
	ta.arena.mu.Unlock()
	if !up {
		t.Fatal("boss never spawned")
	}
}

// TestBossPoolsArePerTeam verifies each eligible team fights its own pool
// and damage never crosses over.
func TestBossPoolsArePerTeam(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)

	if res := a.HandleBossDamage("r1", 50, true); !res.OK {
		t.Fatalf("melee hit rejected: %s", res.Reason)
	}
	a.mu.Lock()
	redHealth, _ := a.boss.PoolHealth(TeamRed)
	blueHealth, _ := a.boss.PoolHealth(TeamBlue)
	a.mu.Unlock()
	if redHealth != pool-50 {
		t.Errorf("red pool = %v, want %v", redHealth, pool-50)
	}
	if blueHealth != pool {
		t.Errorf("blue pool = %v, want untouched %v", blueHealth, pool)
	}
}

// TestBossMeleeOnly verifies ranged hits are refused.
func TestBossMeleeOnly(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)

	if res := ta.arena.HandleBossDamage("r1", 50, false); res.OK || res.Reason != RejectMeleeOnly {
		t.Errorf("ranged boss hit: got %+v", res)
	}
}

// TestBossDefeatOpensPoll verifies emptying the pool opens the team's
// specialization poll with the killer holding the heavy ballot.
func TestBossDefeatOpensPoll(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)
	if res := a.HandleBossDamage("r1", pool, true); !res.OK {
		t.Fatalf("finishing blow rejected: %s", res.Reason)
	}

	if len(ta.presenter.polls) != 1 || ta.presenter.polls[0] != TeamRed {
		t.Errorf("polls opened = %v, want [red]", ta.presenter.polls)
	}
	a.mu.Lock()
	starter := a.players["r1"].StartedPoll
	a.mu.Unlock()
	if !starter {
		t.Error("killer does not hold the starter ballot")
	}

	// The finishing blow retired this instance for everyone.
	if res := a.HandleBossDamage("r2", 10, true); res.OK || res.Reason != RejectWrongPhase {
		t.Errorf("hit after the boss despawned: got %+v", res)
	}
}

// TestBossDespawnOnFirstDefeatAndRespawn verifies the first team victory
// retires the boss instance; the next one serves only the teams still owed
// a kill, and the last victory leaves nothing armed.
func TestBossDespawnOnFirstDefeatAndRespawn(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)
	if res := a.HandleBossDamage("r1", pool, true); !res.OK {
		t.Fatalf("red finishing blow rejected: %s", res.Reason)
	}

	a.mu.Lock()
	gone := a.boss == nil
	rearmed := a.bossCountdown != nil
	a.mu.Unlock()
	if !gone {
		t.Fatal("boss still up after the first defeat")
	}
	if !rearmed {
		t.Fatal("no respawn countdown armed for the team still owed a kill")
	}
	if res := a.HandleBossDamage("b1", 10, true); res.OK || res.Reason != RejectWrongPhase {
		t.Errorf("hit between boss instances: got %+v", res)
	}

	// The next instance carries a blue pool only.
	ta.seconds(testOptions().BossRespawnSeconds)
	a.mu.Lock()
	up := a.boss != nil
	redPool := false
	if up {
		_, redPool = a.boss.PoolHealth(TeamRed)
	}
	a.mu.Unlock()
	if !up {
		t.Fatal("boss never respawned")
	}
	if redPool {
		t.Error("respawned boss carries a pool for the team that already won")
	}
	if res := a.HandleBossDamage("r1", 10, true); res.OK || res.Reason != RejectNotFightable {
		t.Errorf("red hit on the respawned boss: got %+v", res)
	}

	if res := a.HandleBossDamage("b1", pool, true); !res.OK {
		t.Fatalf("blue finishing blow rejected: %s", res.Reason)
	}
	a.mu.Lock()
	gone = a.boss == nil
	rearm := a.bossCountdown
	a.mu.Unlock()
	if !gone {
		t.Fatal("boss still up after every team won")
	}
	if rearm != nil {
		t.Error("boss re-armed although no team is eligible")
	}
}

// TestVoteEarlyTallyWhenAllVoted verifies the poll closes the second the
// whole team has voted.
func TestVoteEarlyTallyWhenAllVoted(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)
	a.HandleBossDamage("r1", pool, true)

	if res := a.CastVote("b1", SpecPvP); res.OK || res.Reason != RejectNoPoll {
		t.Errorf("vote without a poll: got %+v", res)
	}
	if res := a.CastVote("r1", SpecPvP); !res.OK {
		t.Fatalf("starter vote rejected: %s", res.Reason)
	}
	if res := a.CastVote("r2", SpecPvP); !res.OK {
		t.Fatalf("teammate vote rejected: %s", res.Reason)
	}

	ta.seconds(1)
	if len(ta.presenter.specs) != 1 {
		t.Fatalf("specializations chosen = %v, want one", ta.presenter.specs)
	}
	got := ta.presenter.specs[0]
	if got.team != TeamRed || got.spec != SpecPvP {
		t.Errorf("chosen = %+v, want red/pvp", got)
	}
}

// TestVoteTieGoesToRunoff verifies a tied tally reopens the poll over the
// tied options only.
func TestVoteTieGoesToRunoff(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)
	a.HandleBossDamage("r1", pool, true)

	// Both ballots weigh differently (11 vs 10), so force a genuine tie:
	// clear the starter flag first.
	a.mu.Lock()
	a.players["r1"].StartedPoll = false
	a.mu.Unlock()

	a.CastVote("r1", SpecPvP)
	a.CastVote("r2", SpecDefense)
	ta.seconds(1)

	if len(ta.presenter.specs) != 0 {
		t.Fatalf("a tie chose %v", ta.presenter.specs)
	}
	a.mu.Lock()
	poll := a.teams[TeamRed].Poll
	a.mu.Unlock()
	if poll == nil {
		t.Fatal("no runoff poll opened")
	}
	if poll.Allows(SpecDestruction) {
		t.Error("runoff still offers the untied option")
	}
}

// TestPollTimeoutWithNoVotesRestarts verifies an unanswered poll starts
// over instead of picking for the team.
func TestPollTimeoutWithNoVotesRestarts(t *testing.T) {
	ta := newTestArena(t)
	bossUp(t, ta)
	a := ta.arena

	pool := BossPoolPerSlot * float64(testOptions().MaxPlayersPerTeam)
	a.HandleBossDamage("r1", pool, true)

	ta.seconds(PollDurationSeconds + 1)
	if len(ta.presenter.specs) != 0 {
		t.Fatalf("an empty poll chose %v", ta.presenter.specs)
	}
	a.mu.Lock()
	poll := a.teams[TeamRed].Poll
	a.mu.Unlock()
	if poll == nil {
		t.Fatal("poll vanished without a choice")
	}
	if poll.TicksLeft <= 0 {
		t.Error("restarted poll has no time left")
	}
}
