package match

import (
	"math"

	"github.com/google/uuid"
)

// progressSegments is the resolution of the spawner progress bar shown
// over shared spawners.
const progressSegments = 15

// Spawner periodically emits resource drops at a fixed world position.
// Team spawners speed up with team size and the faster_spawners upgrade;
// shared (map-center) spawners only follow the arena-wide modifier.
type Spawner struct {
	ID       string       `json:"id"`
	Resource ResourceKind `json:"resource"`
	Pos      Vec3         `json:"pos"`

	// Owner is TeamNone for shared spawners.
	Owner TeamColor `json:"owner"`

	ticks    int
	interval int

	// Interval divisors. Recomputed into interval on every change.
	teamSizeMod    float64
	teamUpgradeMod float64
	globalMod      float64

	lastProgress int
}

// NewSpawner creates a spawner with all modifiers at 1.0.
func NewSpawner(resource ResourceKind, pos Vec3, owner TeamColor) *Spawner {
	s := &Spawner{
		ID:             uuid.NewString(),
		Resource:       resource,
		Pos:            pos,
		Owner:          owner,
		teamSizeMod:    1.0,
		teamUpgradeMod: 1.0,
		globalMod:      1.0,
		lastProgress:   -1,
	}
	s.recompute()
	return s
}

// SetTeamSize scales a team spawner by the cube root of the member count,
// so doubling a team does not double its income. Shared spawners ignore it.
func (s *Spawner) SetTeamSize(players int) {
	if s.Resource.Info().Shared || players < 1 {
		return
	}
	s.teamSizeMod = math.Pow(float64(players), 1.0/3.0)
	s.recompute()
}

// SetTeamUpgradeModifier applies the faster_spawners divisor. Shared
// spawners ignore it.
func (s *Spawner) SetTeamUpgradeModifier(mod float64) {
	if s.Resource.Info().Shared {
		return
	}
	s.teamUpgradeMod = mod
	s.recompute()
}

// SetGlobalModifier applies the arena-wide speed divisor (event modes).
func (s *Spawner) SetGlobalModifier(mod float64) {
	s.globalMod = mod
	s.recompute()
}

func (s *Spawner) recompute() {
	base := float64(s.Resource.Info().BaseInterval)
	interval := int(math.Floor(base / (s.teamSizeMod * s.teamUpgradeMod * s.globalMod)))
	if interval < 1 {
		interval = 1
	}
	s.interval = interval
}

// EffectiveInterval is the current ticks-per-drop period.
func (s *Spawner) EffectiveInterval() int {
	return s.interval
}

// Advance moves the spawner one tick forward. When the interval elapses and
// the ground is below the drop cap, a drop is emitted through drops.
// Shared spawners also report progress bar changes to the presenter.
func (s *Spawner) Advance(nowTick int64, drops *DropTracker, presenter Presenter) {
	s.ticks++

	if s.Resource.Info().Shared {
		filled := s.ticks * progressSegments / s.interval
		if filled > progressSegments {
			filled = progressSegments
		}
		if filled != s.lastProgress {
			s.lastProgress = filled
			presenter.SpawnerProgress(s.ID, filled, progressSegments)
		}
	}

	if s.ticks < s.interval {
		return
	}
	s.ticks = 0
	s.lastProgress = -1

	// Cap check uses the lazily rebuilt per-tick ground count.
	if drops.CountBySpawner(s.ID, nowTick) >= s.Resource.Info().DropCap {
		return
	}
	drop := drops.Spawn(s)
	presenter.DropSpawned(*drop)
}

// Reset rewinds the cycle and clears purchased modifiers. Team size is kept;
// it is re-stamped when teams are distributed.
func (s *Spawner) Reset() {
	s.ticks = 0
	s.lastProgress = -1
	s.teamSizeMod = 1.0
	s.teamUpgradeMod = 1.0
	s.globalMod = 1.0
	s.recompute()
}
