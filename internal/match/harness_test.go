package match

import (
	"testing"
)

// Fakes for the host-side collaborators. Everything runs single-threaded
// under the arena lock, so plain maps are fine.

type fakeWorld struct {
	protection map[BlockPos]ProtectionReason
	placed     map[BlockPos]bool

	pinned       bool
	restoreCalls int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		protection: make(map[BlockPos]ProtectionReason),
		placed:     make(map[BlockPos]bool),
	}
}

func (w *fakeWorld) InsideRegion(pos Vec3) bool {
	return pos.X > -100 && pos.X < 100 && pos.Z > -100 && pos.Z < 100
}

func (w *fakeWorld) ProtectedAt(pos BlockPos) (ProtectionReason, bool) {
	r, ok := w.protection[pos]
	return r, ok
}

func (w *fakeWorld) ProtectRadius(center BlockPos, radius int, reason ProtectionReason) {
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			for z := center.Z - radius; z <= center.Z+radius; z++ {
				pos := BlockPos{x, y, z}
				if _, ok := w.protection[pos]; !ok {
					w.protection[pos] = reason
				}
			}
		}
	}
}

func (w *fakeWorld) PlayerPlaced(pos BlockPos) bool { return w.placed[pos] }
func (w *fakeWorld) RecordPlaced(pos BlockPos, replaced bool) {
	w.placed[pos] = true
}
func (w *fakeWorld) ForgetPlaced(pos BlockPos) { delete(w.placed, pos) }
func (w *fakeWorld) PinChunks()               { w.pinned = true }
func (w *fakeWorld) Restore() {
	w.placed = make(map[BlockPos]bool)
	w.pinned = false
	w.restoreCalls++
}

type fakeInventory struct {
	counts map[string]int

	armorTier  UpgradeKind
	hasArmor   bool
	protection int
	sharpness  int
	effects    []Effect

	full bool // simulates an inventory with no room left
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{counts: make(map[string]int)}
}

func (i *fakeInventory) grant(r ResourceKind, n int) { i.counts[r.String()] += n }
func (i *fakeInventory) count(id string) int         { return i.counts[id] }

func (i *fakeInventory) HasAtLeast(p Price) bool {
	return i.counts[p.Resource.String()] >= p.Amount
}
func (i *fakeInventory) Remove(p Price) {
	i.counts[p.Resource.String()] -= p.Amount
}
func (i *fakeInventory) Fits(item ItemStack) bool { return !i.full }
func (i *fakeInventory) Add(item ItemStack) bool {
	if i.full {
		return false
	}
	i.counts[item.ID] += item.Amount
	return true
}
func (i *fakeInventory) SetArmor(tier UpgradeKind) { i.armorTier = tier; i.hasArmor = true }
func (i *fakeInventory) SetProtection(level int)   { i.protection = level }
func (i *fakeInventory) SetSharpness(level int)    { i.sharpness = level }
func (i *fakeInventory) ApplyEffects(effects []Effect) {
	i.effects = append(i.effects, effects...)
}
func (i *fakeInventory) Clear() {
	i.counts = make(map[string]int)
	i.effects = nil
	i.hasArmor = false
	i.protection = 0
	i.sharpness = 0
}

func (i *fakeInventory) hasEffect(kind EffectKind) bool {
	for _, e := range i.effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

type fakeRoster struct {
	invs      map[string]*fakeInventory
	positions map[string]Vec3
	teleports map[string]int
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		invs:      make(map[string]*fakeInventory),
		positions: make(map[string]Vec3),
		teleports: make(map[string]int),
	}
}

func (r *fakeRoster) inv(playerID string) *fakeInventory {
	if _, ok := r.invs[playerID]; !ok {
		r.invs[playerID] = newFakeInventory()
	}
	return r.invs[playerID]
}

func (r *fakeRoster) Inventory(playerID string) Inventory { return r.inv(playerID) }
func (r *fakeRoster) Position(playerID string) Vec3       { return r.positions[playerID] }
func (r *fakeRoster) Teleport(playerID string, pos Vec3) {
	r.positions[playerID] = pos
	r.teleports[playerID]++
}

type specChoice struct {
	team TeamColor
	spec SpecializationKind
}

// recordingPresenter keeps the notifications a test wants to assert on.
type recordingPresenter struct {
	NopPresenter

	broadcasts []string
	drops      []Drop
	polls      []TeamColor
	specs      []specChoice
	ended      []TeamColor
	auras      map[string]int
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{auras: make(map[string]int)}
}

func (p *recordingPresenter) Broadcast(msg string) { p.broadcasts = append(p.broadcasts, msg) }
func (p *recordingPresenter) DropSpawned(d Drop)   { p.drops = append(p.drops, d) }
func (p *recordingPresenter) PollOpened(team TeamColor, _ []SpecializationKind) {
	p.polls = append(p.polls, team)
}
func (p *recordingPresenter) SpecializationChosen(team TeamColor, spec SpecializationKind) {
	p.specs = append(p.specs, specChoice{team, spec})
}
func (p *recordingPresenter) MatchEnded(winner TeamColor) { p.ended = append(p.ended, winner) }
func (p *recordingPresenter) InvulnerabilityAura(playerID string) {
	p.auras[playerID]++
}

// testOptions is a small two-team arena with short countdowns.
func testOptions() ArenaOptions {
	return ArenaOptions{
		Name:              "testmap",
		MaxPlayersPerTeam: 2,
		Lobby:             Vec3{0, 100, 0},
		SpectatorSpawn:    Vec3{0, 90, 0},
		BossAltar:         Vec3{0, 65, -20},
		Teams: []TeamOptions{
			{
				Color:   TeamRed,
				Spawn:   Vec3{10, 65, 0},
				BedHead: BlockPos{20, 65, 0},
				BedFeet: BlockPos{21, 65, 0},
				Chests:  []BlockPos{{18, 65, 2}},
			},
			{
				Color:   TeamBlue,
				Spawn:   Vec3{-10, 65, 0},
				BedHead: BlockPos{-20, 65, 0},
				BedFeet: BlockPos{-21, 65, 0},
				Chests:  []BlockPos{{-18, 65, 2}},
			},
		},
		Spawners: []SpawnerOptions{
			{Resource: ResourceIron, Pos: Vec3{10, 65, 2}, Team: TeamRed},
			{Resource: ResourceIron, Pos: Vec3{-10, 65, 2}, Team: TeamBlue},
			{Resource: ResourceDiamond, Pos: Vec3{0, 65, 20}},
		},
		LobbySeconds:          3,
		BedDestructionSeconds: 600,
		WinSeconds:            2,
		RespawnSeconds:        2,
		InvulnerableSeconds:   5,
		BossInitialSeconds:    5,
		BossRespawnSeconds:    5,
	}
}

type testArena struct {
	arena     *Arena
	world     *fakeWorld
	roster    *fakeRoster
	presenter *recordingPresenter
}

func newTestArena(t *testing.T) *testArena {
	t.Helper()
	world := newFakeWorld()
	roster := newFakeRoster()
	presenter := newRecordingPresenter()

	arena, err := NewArena(testOptions(), Deps{
		World:     world,
		Roster:    roster,
		Presenter: presenter,
	})
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	return &testArena{arena: arena, world: world, roster: roster, presenter: presenter}
}

func (ta *testArena) ticks(n int) {
	for i := 0; i < n; i++ {
		ta.arena.Tick()
	}
}

func (ta *testArena) seconds(n int) {
	ta.ticks(n * TicksPerSecond)
}

// fillLobby joins four players and pins them to teams: r1/r2 red, b1/b2
// blue. Joining the fourth arms the lobby countdown.
func (ta *testArena) fillLobby(t *testing.T) {
	t.Helper()
	for _, join := range []struct {
		id   string
		team TeamColor
	}{
		{"r1", TeamRed}, {"b1", TeamBlue}, {"r2", TeamRed}, {"b2", TeamBlue},
	} {
		if res := ta.arena.TryAddPlayer(join.id, join.id); !res.OK {
			t.Fatalf("join %s rejected: %s", join.id, res.Reason)
		}
		if res := ta.arena.TrySetTeam(join.id, join.team); !res.OK {
			t.Fatalf("team pick %s rejected: %s", join.id, res.Reason)
		}
	}
}

// startCombat fills the lobby and runs out the lobby countdown.
func (ta *testArena) startCombat(t *testing.T) {
	t.Helper()
	ta.fillLobby(t)
	ta.seconds(testOptions().LobbySeconds)
	if ta.arena.Phase() != PhaseCombat {
		t.Fatalf("expected combat phase, got %s", ta.arena.Phase())
	}
}
