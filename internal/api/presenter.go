package api

import (
	"bedrush/internal/match"
)

// HubPresenter implements match.Presenter by pushing typed events into the
// websocket hub. Every method returns immediately; the hub's broadcast never
// blocks, so it is safe to call from inside the tick loop.
type HubPresenter struct {
	hub   *Hub
	arena string
}

// NewHubPresenter binds a presenter to one arena's room.
func NewHubPresenter(hub *Hub, arena string) *HubPresenter {
	return &HubPresenter{hub: hub, arena: arena}
}

func (p *HubPresenter) emit(msgType string, payload interface{}) {
	p.hub.Broadcast(p.arena, msgType, payload)
}

func (p *HubPresenter) Broadcast(msg string) {
	p.emit("chat", map[string]string{"msg": msg})
}

func (p *HubPresenter) BroadcastTeam(team match.TeamColor, msg string) {
	p.emit("chat", map[string]string{"team": team.String(), "msg": msg})
}

func (p *HubPresenter) Message(playerID, msg string) {
	p.emit("chat", map[string]string{"player": playerID, "msg": msg})
}

func (p *HubPresenter) Title(playerID, title, subtitle string) {
	p.emit("title", map[string]string{"player": playerID, "title": title, "subtitle": subtitle})
}

func (p *HubPresenter) TeamTitle(team match.TeamColor, title, subtitle string) {
	p.emit("title", map[string]string{"team": team.String(), "title": title, "subtitle": subtitle})
}

func (p *HubPresenter) Sound(playerID, sound string) {
	p.emit("sound", map[string]string{"player": playerID, "sound": sound})
}

func (p *HubPresenter) TeamSound(team match.TeamColor, sound string) {
	p.emit("sound", map[string]string{"team": team.String(), "sound": sound})
}

func (p *HubPresenter) CountdownChanged(kind string, secondsLeft int) {
	p.emit("countdown", map[string]interface{}{"kind": kind, "secondsLeft": secondsLeft})
}

func (p *HubPresenter) TeamStatusChanged(team match.TeamColor, bedDestroyed bool, alive int) {
	p.emit("team_status", map[string]interface{}{
		"team":         team.String(),
		"bedDestroyed": bedDestroyed,
		"alive":        alive,
	})
}

func (p *HubPresenter) SpawnerProgress(spawnerID string, filled, total int) {
	p.emit("spawner_progress", map[string]interface{}{
		"spawner": spawnerID,
		"filled":  filled,
		"total":   total,
	})
}

func (p *HubPresenter) DropSpawned(drop match.Drop) {
	p.emit("drop", map[string]interface{}{
		"id":       drop.ID,
		"resource": drop.Resource.String(),
		"spawner":  drop.SpawnerID,
		"pos":      drop.Pos,
	})
}

func (p *HubPresenter) InvulnerabilityAura(playerID string) {
	p.emit("aura", map[string]string{"player": playerID})
}

func (p *HubPresenter) BossSpawned(pos match.Vec3) {
	p.emit("boss_spawned", map[string]interface{}{"pos": pos})
}

func (p *HubPresenter) BossPoolChanged(team match.TeamColor, health, max float64) {
	p.emit("boss_pool", map[string]interface{}{
		"team":   team.String(),
		"health": health,
		"max":    max,
	})
}

func (p *HubPresenter) BossDespawned() {
	p.emit("boss_despawned", nil)
}

func (p *HubPresenter) PollOpened(team match.TeamColor, options []match.SpecializationKind) {
	names := make([]string, 0, len(options))
	for _, opt := range options {
		names = append(names, opt.String())
	}
	p.emit("poll_opened", map[string]interface{}{"team": team.String(), "options": names})
}

func (p *HubPresenter) SpecializationChosen(team match.TeamColor, spec match.SpecializationKind) {
	p.emit("specialization", map[string]string{"team": team.String(), "spec": spec.String()})
}

func (p *HubPresenter) Fireworks(team match.TeamColor) {
	p.emit("fireworks", map[string]string{"team": team.String()})
}

func (p *HubPresenter) MatchEnded(winner match.TeamColor) {
	p.emit("match_ended", map[string]string{"winner": winner.String()})
}
