package match

import "github.com/pkg/errors"

// TeamOptions positions one team inside the arena.
type TeamOptions struct {
	Color   TeamColor
	Spawn   Vec3
	BedHead BlockPos
	BedFeet BlockPos
	Chests  []BlockPos
}

// SpawnerOptions places one resource spawner. Team is TeamNone for shared
// map-center spawners.
type SpawnerOptions struct {
	Resource ResourceKind
	Pos      Vec3
	Team     TeamColor
}

// ArenaOptions is the immutable configuration of one arena. Validate runs
// before any arena is built; a bad config refuses to boot rather than limp.
type ArenaOptions struct {
	Name string

	MaxPlayersPerTeam int

	Lobby          Vec3
	SpectatorSpawn Vec3
	BossAltar      Vec3

	Teams    []TeamOptions
	Spawners []SpawnerOptions

	// Countdown durations in whole seconds.
	LobbySeconds          int
	BedDestructionSeconds int
	WinSeconds            int
	RespawnSeconds        int
	InvulnerableSeconds   int
	BossInitialSeconds    int
	BossRespawnSeconds    int

	// ProtectionRadius is stamped around spawns, spawners and the altar.
	ProtectionRadius int
}

// Capacity is the player count that fills the arena and arms the lobby
// countdown.
func (o *ArenaOptions) Capacity() int {
	return o.MaxPlayersPerTeam * len(o.Teams)
}

func (o *ArenaOptions) applyDefaults() {
	if o.LobbySeconds == 0 {
		o.LobbySeconds = 30
	}
	if o.BedDestructionSeconds == 0 {
		o.BedDestructionSeconds = 600
	}
	if o.WinSeconds == 0 {
		o.WinSeconds = 10
	}
	if o.RespawnSeconds == 0 {
		o.RespawnSeconds = 5
	}
	if o.InvulnerableSeconds == 0 {
		o.InvulnerableSeconds = 5
	}
	if o.BossInitialSeconds == 0 {
		o.BossInitialSeconds = 300
	}
	if o.BossRespawnSeconds == 0 {
		o.BossRespawnSeconds = 120
	}
	if o.ProtectionRadius == 0 {
		o.ProtectionRadius = 3
	}
}

// Validate fails fast on any inconsistency.
func (o *ArenaOptions) Validate() error {
	if o.Name == "" {
		return errors.New("arena name is empty")
	}
	if o.MaxPlayersPerTeam < 1 {
		return errors.Errorf("arena %q: maxPlayersPerTeam must be >= 1", o.Name)
	}
	if len(o.Teams) < 2 {
		return errors.Errorf("arena %q: need at least 2 teams, got %d", o.Name, len(o.Teams))
	}

	seen := make(map[TeamColor]bool)
	for _, t := range o.Teams {
		if t.Color == TeamNone {
			return errors.Errorf("arena %q: team without a color", o.Name)
		}
		if seen[t.Color] {
			return errors.Errorf("arena %q: duplicate team %s", o.Name, t.Color)
		}
		seen[t.Color] = true
		if t.BedHead == t.BedFeet {
			return errors.Errorf("arena %q: team %s bed head and feet collide", o.Name, t.Color)
		}
	}

	for i, s := range o.Spawners {
		if _, ok := resourceTable[s.Resource]; !ok {
			return errors.Errorf("arena %q: spawner %d has unknown resource", o.Name, i)
		}
		if s.Team != TeamNone && !seen[s.Team] {
			return errors.Errorf("arena %q: spawner %d assigned to unknown team %s", o.Name, i, s.Team)
		}
		if s.Resource.Info().Shared && s.Team != TeamNone {
			return errors.Errorf("arena %q: spawner %d: %s spawners are shared, cannot belong to team %s",
				o.Name, i, s.Resource, s.Team)
		}
	}

	for _, field := range []struct {
		name  string
		value int
	}{
		{"lobbySeconds", o.LobbySeconds},
		{"bedDestructionSeconds", o.BedDestructionSeconds},
		{"winSeconds", o.WinSeconds},
		{"respawnSeconds", o.RespawnSeconds},
		{"invulnerableSeconds", o.InvulnerableSeconds},
		{"bossInitialSeconds", o.BossInitialSeconds},
		{"bossRespawnSeconds", o.BossRespawnSeconds},
	} {
		if field.value < 0 {
			return errors.Errorf("arena %q: %s is negative", o.Name, field.name)
		}
	}
	return nil
}
