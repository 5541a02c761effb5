package match

// BossPoolPerSlot is the simulated health granted per team slot. A boss
// pool is BossPoolPerSlot * maxPlayersPerTeam.
const BossPoolPerSlot = 200.0

// Boss is the late-game objective. One shared presence stands in the world,
// but each eligible team fights its own simulated health pool; the real
// entity's health is never decremented. A team that empties its pool has
// beaten the boss and earns a specialization poll.
type Boss struct {
	Pos Vec3 `json:"pos"`

	maxPool float64
	pools   map[TeamColor]float64
}

// NewBoss spawns boss state with one full pool per eligible team.
func NewBoss(pos Vec3, eligible []TeamColor, maxPool float64) *Boss {
	pools := make(map[TeamColor]float64, len(eligible))
	for _, c := range eligible {
		pools[c] = maxPool
	}
	return &Boss{Pos: pos, maxPool: maxPool, pools: pools}
}

// MaxPool is the full simulated pool size.
func (b *Boss) MaxPool() float64 {
	return b.maxPool
}

// Fightable reports whether team still has an open pool.
func (b *Boss) Fightable(team TeamColor) bool {
	_, ok := b.pools[team]
	return ok
}

// PoolHealth returns team's remaining simulated health.
func (b *Boss) PoolHealth(team TeamColor) (float64, bool) {
	h, ok := b.pools[team]
	return h, ok
}

// Damage subtracts from team's pool. depleted is true the moment the pool
// empties; the pool is removed so later hits report ok=false.
func (b *Boss) Damage(team TeamColor, amount float64) (depleted, ok bool) {
	h, exists := b.pools[team]
	if !exists {
		return false, false
	}
	h -= amount
	if h <= 0 {
		delete(b.pools, team)
		return true, true
	}
	b.pools[team] = h
	return false, true
}

// DropPool removes team's pool without a kill, used when a team is
// eliminated mid-fight.
func (b *Boss) DropPool(team TeamColor) {
	delete(b.pools, team)
}

// OpenPools is the number of teams still fighting.
func (b *Boss) OpenPools() int {
	return len(b.pools)
}
