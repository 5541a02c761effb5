package match

import "sort"

// PlayerSnapshot is one player's public view.
type PlayerSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Team          string `json:"team"`
	Spectator     bool   `json:"spectator"`
	Kills         int    `json:"kills"`
	FinalKills    int    `json:"finalKills"`
	Deaths        int    `json:"deaths"`
	BedsDestroyed int    `json:"bedsDestroyed"`
}

// TeamSnapshot is one team's public view.
type TeamSnapshot struct {
	Color           string         `json:"color"`
	BedDestroyed    bool           `json:"bedDestroyed"`
	Fighters        int            `json:"fighters"`
	Members         int            `json:"members"`
	Upgrades        map[string]int `json:"upgrades"`
	ArmedTraps      []string       `json:"armedTraps"`
	Specialization  string         `json:"specialization"`
	PollOpen        bool           `json:"pollOpen"`
	PollSecondsLeft int            `json:"pollSecondsLeft,omitempty"`
}

// BossSnapshot is the shared boss's public view.
type BossSnapshot struct {
	Pos     Vec3               `json:"pos"`
	MaxPool float64            `json:"maxPool"`
	Pools   map[string]float64 `json:"pools"`
}

// ArenaSnapshot is the full public state served over the API and pushed to
// websocket spectators.
type ArenaSnapshot struct {
	Name     string           `json:"name"`
	Phase    string           `json:"phase"`
	Tick     int64            `json:"tick"`
	Capacity int              `json:"capacity"`
	Players  []PlayerSnapshot `json:"players"`
	Teams    []TeamSnapshot   `json:"teams"`
	Drops    int              `json:"drops"`
	Winner   string           `json:"winner,omitempty"`

	Countdowns map[string]int `json:"countdowns,omitempty"`
	Boss       *BossSnapshot  `json:"boss,omitempty"`
}

// Snapshot copies the arena's public state under the lock. The result
// shares nothing with live state and is safe to serialize concurrently.
func (a *Arena) Snapshot() ArenaSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := ArenaSnapshot{
		Name:       a.opts.Name,
		Phase:      a.phase.String(),
		Tick:       a.ticks,
		Capacity:   a.opts.Capacity(),
		Drops:      a.drops.Len(),
		Countdowns: make(map[string]int),
	}
	if a.winner != TeamNone {
		snap.Winner = a.winner.String()
	}

	for _, p := range a.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:            p.ID,
			Name:          p.Name,
			Team:          p.Team.String(),
			Spectator:     p.Spectator(),
			Kills:         p.Kills,
			FinalKills:    p.FinalKills,
			Deaths:        p.Deaths,
			BedsDestroyed: p.BedsDestroyed,
		})
	}
	// Stable order: kills descending, then name.
	sort.SliceStable(snap.Players, func(i, j int) bool {
		if snap.Players[i].Kills != snap.Players[j].Kills {
			return snap.Players[i].Kills > snap.Players[j].Kills
		}
		return snap.Players[i].Name < snap.Players[j].Name
	})

	for _, color := range a.teamOrder {
		team := a.teams[color]
		ts := TeamSnapshot{
			Color:          color.String(),
			BedDestroyed:   team.BedDestroyed(),
			Fighters:       len(a.fightersOf(color)),
			Members:        len(a.membersOf(color)),
			Upgrades:       make(map[string]int),
			Specialization: team.Specialization.String(),
		}
		for kind, level := range team.Upgrades() {
			ts.Upgrades[kind.String()] = level
		}
		for _, trap := range team.ArmedTraps() {
			ts.ArmedTraps = append(ts.ArmedTraps, trap.String())
		}
		if team.Poll != nil {
			ts.PollOpen = true
			ts.PollSecondsLeft = int(team.Poll.TicksLeft / TicksPerSecond)
		}
		snap.Teams = append(snap.Teams, ts)
	}

	if a.lobbyCountdown != nil {
		snap.Countdowns["lobby"] = a.lobbyCountdown.Remaining()
	}
	if a.bedCountdown != nil {
		snap.Countdowns["bed_destruction"] = a.bedCountdown.Remaining()
	}
	if a.bossCountdown != nil {
		snap.Countdowns["boss"] = a.bossCountdown.Remaining()
	}
	if a.winCountdown != nil {
		snap.Countdowns["ending"] = a.winCountdown.Remaining()
	}

	if a.boss != nil {
		bs := &BossSnapshot{
			Pos:     a.boss.Pos,
			MaxPool: a.boss.MaxPool(),
			Pools:   make(map[string]float64),
		}
		for _, color := range a.teamOrder {
			if health, ok := a.boss.PoolHealth(color); ok {
				bs.Pools[color.String()] = health
			}
		}
		snap.Boss = bs
	}
	return snap
}
