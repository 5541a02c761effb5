package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"bedrush/internal/inventory"
	"bedrush/internal/match"
	"bedrush/internal/registry"
	"bedrush/internal/world"
)

func testArenaOptions(name string) match.ArenaOptions {
	return match.ArenaOptions{
		Name:              name,
		MaxPlayersPerTeam: 2,
		Teams: []match.TeamOptions{
			{Color: match.TeamRed, BedHead: match.BlockPos{X: 10, Y: 65}, BedFeet: match.BlockPos{X: 11, Y: 65}},
			{Color: match.TeamBlue, BedHead: match.BlockPos{X: -10, Y: 65}, BedFeet: match.BlockPos{X: -11, Y: 65}},
		},
	}
}

func buildArena(t *testing.T, name string) *match.Arena {
	t.Helper()
	w := world.New(world.NewRegion(match.BlockPos{X: -50, Y: 0, Z: -50}, match.BlockPos{X: 50, Y: 100, Z: 50}))
	a, err := match.NewArena(testArenaOptions(name), match.Deps{World: w, Roster: inventory.NewRoster()})
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	return a
}

func newTestServer(t *testing.T, cfg RouterConfig) *httptest.Server {
	t.Helper()
	cfg.DisableLogging = true
	if cfg.RateLimiter == nil && cfg.RateLimitConfig == nil {
		cfg.RateLimitConfig = &RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}
	}
	ts := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp
}

// TestHealthEndpoint verifies the health check answers.
func TestHealthEndpoint(t *testing.T) {
	reg := registry.New()
	ts := newTestServer(t, RouterConfig{Registry: reg})

	resp := getJSON(t, ts.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health = %d", resp.StatusCode)
	}
}

// TestListAndGetArenas verifies the listing fields and the 404 for an
// unknown arena.
func TestListAndGetArenas(t *testing.T) {
	reg := registry.New()
	reg.Add(buildArena(t, "ruins"))
	ts := newTestServer(t, RouterConfig{Registry: reg})

	var list []map[string]interface{}
	resp := getJSON(t, ts.URL+"/api/arenas", &list)
	if resp.StatusCode != http.StatusOK || len(list) != 1 {
		t.Fatalf("list = %d, %v", resp.StatusCode, list)
	}
	entry := list[0]
	if entry["name"] != "ruins" || entry["phase"] != "LOBBY" {
		t.Errorf("entry = %v", entry)
	}
	if entry["capacity"].(float64) != 4 || entry["players"].(float64) != 0 {
		t.Errorf("entry counts = %v", entry)
	}

	resp = getJSON(t, ts.URL+"/api/arenas/ruins", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get arena = %d", resp.StatusCode)
	}
	resp = getJSON(t, ts.URL+"/api/arenas/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get unknown arena = %d", resp.StatusCode)
	}
}

// TestJoinLeaveFlow verifies the join contract: generated player IDs, the
// one-match binding and leave releasing it.
func TestJoinLeaveFlow(t *testing.T) {
	reg := registry.New()
	reg.Add(buildArena(t, "ruins"))
	reg.Add(buildArena(t, "keep"))
	ts := newTestServer(t, RouterConfig{Registry: reg})

	// Name is mandatory.
	resp, _ := postJSON(t, ts.URL+"/api/arenas/ruins/join", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("nameless join = %d", resp.StatusCode)
	}

	resp, body := postJSON(t, ts.URL+"/api/arenas/ruins/join", map[string]string{"name": "Steve"})
	if resp.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("join = %d, %v", resp.StatusCode, body)
	}
	playerID, _ := body["playerId"].(string)
	if playerID == "" {
		t.Fatal("join did not hand back a generated player ID")
	}

	// The same player cannot enter a second match anywhere.
	resp, _ = postJSON(t, ts.URL+"/api/arenas/keep/join",
		map[string]string{"playerId": playerID, "name": "Steve"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double join = %d", resp.StatusCode)
	}

	// Leaving an arena the player is not in is a miss.
	resp, _ = postJSON(t, ts.URL+"/api/arenas/keep/leave", map[string]string{"playerId": playerID})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("leave wrong arena = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/api/arenas/ruins/leave", map[string]string{"playerId": playerID})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("leave = %d", resp.StatusCode)
	}

	// The binding is gone, so the other arena accepts now.
	resp, _ = postJSON(t, ts.URL+"/api/arenas/keep/join",
		map[string]string{"playerId": playerID, "name": "Steve"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("join after leave = %d", resp.StatusCode)
	}
}

// TestJoinFullArenaRollsBackBinding verifies a refused join does not leave
// the player bound to the full arena.
func TestJoinFullArenaRollsBackBinding(t *testing.T) {
	reg := registry.New()
	reg.Add(buildArena(t, "ruins"))
	reg.Add(buildArena(t, "keep"))
	ts := newTestServer(t, RouterConfig{Registry: reg})

	for i := 0; i < 4; i++ {
		resp, _ := postJSON(t, ts.URL+"/api/arenas/ruins/join",
			map[string]string{"playerId": fmt.Sprintf("p%d", i), "name": fmt.Sprintf("P%d", i)})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("fill join %d = %d", i, resp.StatusCode)
		}
	}

	resp, body := postJSON(t, ts.URL+"/api/arenas/ruins/join",
		map[string]string{"playerId": "late", "name": "Late"})
	if resp.StatusCode != http.StatusConflict || body["reason"] != "match_full" {
		t.Fatalf("join full arena = %d, %v", resp.StatusCode, body)
	}

	// The rollback lets the player into another arena.
	resp, _ = postJSON(t, ts.URL+"/api/arenas/keep/join",
		map[string]string{"playerId": "late", "name": "Late"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("join elsewhere after rollback = %d", resp.StatusCode)
	}
}

// TestCommandValidation verifies malformed names 400 before reaching the
// arena and in-game rejections answer 409.
func TestCommandValidation(t *testing.T) {
	reg := registry.New()
	reg.Add(buildArena(t, "ruins"))
	ts := newTestServer(t, RouterConfig{Registry: reg})

	postJSON(t, ts.URL+"/api/arenas/ruins/join", map[string]string{"playerId": "p1", "name": "P1"})

	resp, _ := postJSON(t, ts.URL+"/api/arenas/ruins/team",
		map[string]string{"playerId": "p1", "team": "purple"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown team = %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, ts.URL+"/api/arenas/ruins/team",
		map[string]string{"playerId": "p1", "team": "red"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid team = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/api/arenas/ruins/buy/upgrade",
		map[string]string{"playerId": "p1", "upgrade": "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown upgrade = %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, ts.URL+"/api/arenas/ruins/vote",
		map[string]string{"playerId": "p1", "specialization": "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown specialization = %d", resp.StatusCode)
	}

	// A known item refused by the match answers with the reject reason.
	resp, body := postJSON(t, ts.URL+"/api/arenas/ruins/buy/item",
		map[string]string{"playerId": "p1", "item": "wool"})
	if resp.StatusCode != http.StatusConflict || body["reason"] != "wrong_phase" {
		t.Errorf("lobby purchase = %d, %v", resp.StatusCode, body)
	}
}

type fakeStats struct {
	totals map[string]map[match.StatKind]int
	fail   bool
}

func (f *fakeStats) PlayerTotals(playerID string) (map[match.StatKind]int, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	return f.totals[playerID], nil
}

// TestPlayerStatsEndpoint verifies the stats lookup and its degraded
// modes.
func TestPlayerStatsEndpoint(t *testing.T) {
	reg := registry.New()
	stats := &fakeStats{totals: map[string]map[match.StatKind]int{
		"p1": {match.StatKill: 7, match.StatWin: 2},
	}}
	ts := newTestServer(t, RouterConfig{Registry: reg, Stats: stats})

	var body map[string]interface{}
	resp := getJSON(t, ts.URL+"/api/players/p1/stats", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats = %d", resp.StatusCode)
	}
	got := body["stats"].(map[string]interface{})
	if got["kills"].(float64) != 7 || got["wins"].(float64) != 2 {
		t.Errorf("stats body = %v", got)
	}

	stats.fail = true
	resp = getJSON(t, ts.URL+"/api/players/p1/stats", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("failing store = %d", resp.StatusCode)
	}

	noStats := newTestServer(t, RouterConfig{Registry: reg})
	resp = getJSON(t, noStats.URL+"/api/players/p1/stats", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("stats without a store = %d", resp.StatusCode)
	}
}

// TestRateLimitRejects verifies the per-IP limiter turns the excess away
// with a Retry-After hint.
func TestRateLimitRejects(t *testing.T) {
	reg := registry.New()
	limiter := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2, CleanupInterval: DefaultRateLimitConfig.CleanupInterval})
	defer limiter.Stop()
	ts := newTestServer(t, RouterConfig{Registry: reg, RateLimiter: limiter})

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		resp := getJSON(t, ts.URL+"/health", nil)
		codes[resp.StatusCode]++
	}
	if codes[http.StatusTooManyRequests] == 0 {
		t.Errorf("no request was limited, codes %v", codes)
	}
	if codes[http.StatusOK] < 2 {
		t.Errorf("burst not honored, codes %v", codes)
	}

	stats := limiter.GetStats()
	if stats["rejected"] == 0 {
		t.Error("limiter counted no rejections")
	}
}

// TestWebSocketRouteGuards verifies the /ws handler's degraded modes
// without opening a socket.
func TestWebSocketRouteGuards(t *testing.T) {
	reg := registry.New()
	reg.Add(buildArena(t, "ruins"))

	noHub := newTestServer(t, RouterConfig{Registry: reg})
	resp := getJSON(t, noHub.URL+"/ws/ruins", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("ws without a hub = %d", resp.StatusCode)
	}

	ts := newTestServer(t, RouterConfig{Registry: reg, Hub: NewHub(3, nil)})
	resp = getJSON(t, ts.URL+"/ws/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("ws unknown arena = %d", resp.StatusCode)
	}
}
