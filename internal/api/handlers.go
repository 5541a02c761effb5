package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bedrush/internal/match"
)

func (h *routerHandlers) arena(w http.ResponseWriter, r *http.Request) (*match.Arena, bool) {
	name := chi.URLParam(r, "name")
	arena, ok := h.registry.Get(name)
	if !ok {
		writeError(w, "Arena not found", http.StatusNotFound)
		return nil, false
	}
	return arena, true
}

func (h *routerHandlers) handleListArenas(w http.ResponseWriter, r *http.Request) {
	arenas := h.registry.All()
	out := make([]map[string]interface{}, 0, len(arenas))
	for _, a := range arenas {
		out = append(out, map[string]interface{}{
			"name":     a.Name(),
			"phase":    a.Phase().String(),
			"players":  a.PlayerCount(),
			"capacity": a.Capacity(),
		})
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetArena(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}
	writeJSON(w, arena.Snapshot())
}

func (h *routerHandlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}

	// The registry binding comes first so a player racing two join requests
	// can land in at most one arena. The binding is rolled back when the
	// arena itself refuses.
	if !h.registry.Assign(req.PlayerID, arena) {
		writeError(w, "Already in a match", http.StatusConflict)
		return
	}
	result := arena.TryAddPlayer(req.PlayerID, req.Name)
	if !result.OK {
		h.registry.Release(req.PlayerID)
		writeResult(w, result)
		return
	}

	writeJSON(w, map[string]interface{}{
		"ok":       true,
		"playerId": req.PlayerID,
		"arena":    arena.Name(),
	})
}

func (h *routerHandlers) handleLeave(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if bound, ok := h.registry.ArenaOf(req.PlayerID); !ok || bound != arena {
		writeError(w, "Not in this match", http.StatusNotFound)
		return
	}
	arena.RemovePlayer(req.PlayerID)
	h.registry.Release(req.PlayerID)
	writeJSON(w, map[string]bool{"ok": true})
}

func (h *routerHandlers) handleSetTeam(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Team     string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	color, ok := match.ParseTeamColor(req.Team)
	if !ok {
		writeError(w, "Unknown team", http.StatusBadRequest)
		return
	}
	writeResult(w, arena.TrySetTeam(req.PlayerID, color))
}

func (h *routerHandlers) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Item     string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" || req.Item == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	result := arena.TryBuyItem(req.PlayerID, req.Item)
	RecordPurchase("item", purchaseOutcome(result))
	writeResult(w, result)
}

func (h *routerHandlers) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Upgrade  string `json:"upgrade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	kind, ok := match.ParseUpgrade(req.Upgrade)
	if !ok {
		writeError(w, "Unknown upgrade", http.StatusBadRequest)
		return
	}
	result := arena.TryBuyUpgrade(req.PlayerID, kind)
	RecordPurchase("upgrade", purchaseOutcome(result))
	writeResult(w, result)
}

func (h *routerHandlers) handleBuyTrap(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Trap     string `json:"trap"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	kind, ok := match.ParseTrap(req.Trap)
	if !ok {
		writeError(w, "Unknown trap", http.StatusBadRequest)
		return
	}
	result := arena.TryBuyTrap(req.PlayerID, kind)
	RecordPurchase("trap", purchaseOutcome(result))
	writeResult(w, result)
}

func (h *routerHandlers) handleVote(w http.ResponseWriter, r *http.Request) {
	arena, ok := h.arena(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID       string `json:"playerId"`
		Specialization string `json:"specialization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	spec, ok := match.ParseSpecialization(req.Specialization)
	if !ok {
		writeError(w, "Unknown specialization", http.StatusBadRequest)
		return
	}
	writeResult(w, arena.CastVote(req.PlayerID, spec))
}

func (h *routerHandlers) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(w, "Stats unavailable", http.StatusServiceUnavailable)
		return
	}
	playerID := chi.URLParam(r, "id")
	totals, err := h.stats.PlayerTotals(playerID)
	if err != nil {
		writeError(w, "Stats lookup failed", http.StatusInternalServerError)
		return
	}
	out := make(map[string]int, len(totals))
	for stat, count := range totals {
		out[string(stat)] = count
	}
	writeJSON(w, map[string]interface{}{
		"playerId": playerID,
		"stats":    out,
	})
}

func (h *routerHandlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, "Spectating unavailable", http.StatusServiceUnavailable)
		return
	}
	name := chi.URLParam(r, "arena")
	if _, ok := h.registry.Get(name); !ok {
		writeError(w, "Arena not found", http.StatusNotFound)
		return
	}
	h.hub.ServeWS(w, r, name)
}

// writeResult serializes a match.Result: accepted commands answer 200,
// rejected ones 409 with the machine-readable reason.
func writeResult(w http.ResponseWriter, result match.Result) {
	body := map[string]interface{}{"ok": result.OK}
	if result.Reason != "" {
		body["reason"] = string(result.Reason)
	}
	if result.Message != "" {
		body["message"] = result.Message
	}
	if result.NewLevel > 0 {
		body["level"] = result.NewLevel
	}
	if !result.OK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(body)
		return
	}
	writeJSON(w, body)
}

func purchaseOutcome(result match.Result) string {
	if result.OK {
		return "ok"
	}
	return string(result.Reason)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
