package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"bedrush/internal/match"
	"bedrush/internal/world"
)

// vec is a world position in YAML.
type vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v vec) toVec3() match.Vec3 {
	return match.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// block is an integer block position in YAML.
type block struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

func (b block) toBlockPos() match.BlockPos {
	return match.BlockPos{X: b.X, Y: b.Y, Z: b.Z}
}

type teamYAML struct {
	Color   string  `yaml:"color"`
	Spawn   vec     `yaml:"spawn"`
	BedHead block   `yaml:"bedHead"`
	BedFeet block   `yaml:"bedFeet"`
	Chests  []block `yaml:"chests"`
}

type spawnerYAML struct {
	Resource string `yaml:"resource"`
	Team     string `yaml:"team"`
	Pos      vec    `yaml:"pos"`
}

type countdownsYAML struct {
	LobbySeconds          int `yaml:"lobbySeconds"`
	BedDestructionSeconds int `yaml:"bedDestructionSeconds"`
	WinSeconds            int `yaml:"winSeconds"`
	RespawnSeconds        int `yaml:"respawnSeconds"`
	InvulnerableSeconds   int `yaml:"invulnerableSeconds"`
	BossInitialSeconds    int `yaml:"bossInitialSeconds"`
	BossRespawnSeconds    int `yaml:"bossRespawnSeconds"`
}

type arenaYAML struct {
	Name              string `yaml:"name"`
	MaxPlayersPerTeam int    `yaml:"maxPlayersPerTeam"`
	Region            struct {
		Min block `yaml:"min"`
		Max block `yaml:"max"`
	} `yaml:"region"`
	Lobby            vec            `yaml:"lobby"`
	SpectatorSpawn   vec            `yaml:"spectatorSpawn"`
	BossAltar        vec            `yaml:"bossAltar"`
	ProtectionRadius int            `yaml:"protectionRadius"`
	Countdowns       countdownsYAML `yaml:"countdowns"`
	Teams            []teamYAML     `yaml:"teams"`
	Spawners         []spawnerYAML  `yaml:"spawners"`
}

// ArenaDefinition is one parsed and validated arena file.
type ArenaDefinition struct {
	Options match.ArenaOptions
	Region  world.Region
}

// LoadArenaFile parses one arena YAML. The file's base name must match the
// arena name inside it, so a stray copy cannot shadow another arena.
func LoadArenaFile(path string) (ArenaDefinition, error) {
	var def ArenaDefinition

	data, err := os.ReadFile(path)
	if err != nil {
		return def, errors.Wrapf(err, "reading arena file %s", path)
	}

	var raw arenaYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return def, errors.Wrapf(err, "parsing arena file %s", path)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if raw.Name != base {
		return def, errors.Errorf("arena file %s declares name %q, expected %q", path, raw.Name, base)
	}

	opts := match.ArenaOptions{
		Name:                  raw.Name,
		MaxPlayersPerTeam:     raw.MaxPlayersPerTeam,
		Lobby:                 raw.Lobby.toVec3(),
		SpectatorSpawn:        raw.SpectatorSpawn.toVec3(),
		BossAltar:             raw.BossAltar.toVec3(),
		ProtectionRadius:      raw.ProtectionRadius,
		LobbySeconds:          raw.Countdowns.LobbySeconds,
		BedDestructionSeconds: raw.Countdowns.BedDestructionSeconds,
		WinSeconds:            raw.Countdowns.WinSeconds,
		RespawnSeconds:        raw.Countdowns.RespawnSeconds,
		InvulnerableSeconds:   raw.Countdowns.InvulnerableSeconds,
		BossInitialSeconds:    raw.Countdowns.BossInitialSeconds,
		BossRespawnSeconds:    raw.Countdowns.BossRespawnSeconds,
	}

	for i, t := range raw.Teams {
		color, ok := match.ParseTeamColor(t.Color)
		if !ok {
			return def, errors.Errorf("arena %s: team %d has unknown color %q", raw.Name, i, t.Color)
		}
		to := match.TeamOptions{
			Color:   color,
			Spawn:   t.Spawn.toVec3(),
			BedHead: t.BedHead.toBlockPos(),
			BedFeet: t.BedFeet.toBlockPos(),
		}
		for _, c := range t.Chests {
			to.Chests = append(to.Chests, c.toBlockPos())
		}
		opts.Teams = append(opts.Teams, to)
	}

	for i, s := range raw.Spawners {
		resource, ok := match.ParseResource(s.Resource)
		if !ok {
			return def, errors.Errorf("arena %s: spawner %d has unknown resource %q", raw.Name, i, s.Resource)
		}
		team := match.TeamNone
		if s.Team != "" {
			team, ok = match.ParseTeamColor(s.Team)
			if !ok {
				return def, errors.Errorf("arena %s: spawner %d has unknown team %q", raw.Name, i, s.Team)
			}
		}
		opts.Spawners = append(opts.Spawners, match.SpawnerOptions{
			Resource: resource,
			Pos:      s.Pos.toVec3(),
			Team:     team,
		})
	}

	// Full structural validation runs here so a bad file refuses the boot
	// instead of failing later inside NewArena.
	if err := opts.Validate(); err != nil {
		return def, errors.Wrapf(err, "validating arena file %s", path)
	}

	def.Options = opts
	def.Region = world.NewRegion(raw.Region.Min.toBlockPos(), raw.Region.Max.toBlockPos())
	return def, nil
}

// LoadArenasDir loads every *.yml / *.yaml arena in dir. Any bad file
// fails the whole load.
func LoadArenasDir(dir string) ([]ArenaDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading arenas dir %s", dir)
	}

	var defs []ArenaDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		def, err := LoadArenaFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, errors.Errorf("no arena files found in %s", dir)
	}
	return defs, nil
}
