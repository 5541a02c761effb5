package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsSendBuffer     = 64
	wsMaxMessageSize = 512
)

// wsMessage is the envelope every hub message travels in.
type wsMessage struct {
	Type    string      `json:"type"`
	Arena   string      `json:"arena"`
	Payload interface{} `json:"payload,omitempty"`
}

type wsClient struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	arena string
	ip    string
}

// Hub fans arena events out to websocket spectators, one room per arena.
// Sends never block: a slow client's buffer fills and the client is
// dropped.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*wsClient]bool

	wsLimiter      *WebSocketRateLimiter
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewHub creates a hub limiting concurrent connections per IP.
func NewHub(maxPerIP int, allowedOrigins []string) *Hub {
	h := &Hub{
		rooms:          make(map[string]map[*wsClient]bool),
		wsLimiter:      NewWebSocketRateLimiter(maxPerIP),
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // non-browser client
			}
			if !IsAllowedOrigin(origin, h.allowedOrigins) {
				RecordConnectionRejected("origin")
				return false
			}
			return true
		},
	}
	return h
}

// ServeWS upgrades one spectator connection into an arena room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, arena string) {
	ip := GetClientIP(r)
	if !h.wsLimiter.Allow(ip) {
		RecordConnectionRejected("ws_limit")
		http.Error(w, "Too Many Connections", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		log.Printf("⚠️ websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, wsSendBuffer),
		arena: arena,
		ip:    ip,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.arena]
	if !ok {
		room = make(map[*wsClient]bool)
		h.rooms[c.arena] = room
	}
	room[c] = true
	UpdateWSConnections(h.totalLocked())
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.arena]; ok {
		if room[c] {
			delete(room, c)
			close(c.send)
			h.wsLimiter.Release(c.ip)
		}
		if len(room) == 0 {
			delete(h.rooms, c.arena)
		}
	}
	UpdateWSConnections(h.totalLocked())
}

func (h *Hub) totalLocked() int {
	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}

// Broadcast sends one typed message to every spectator of an arena. Never
// blocks; congested clients are disconnected instead.
func (h *Hub) Broadcast(arena, msgType string, payload interface{}) {
	data, err := json.Marshal(wsMessage{Type: msgType, Arena: arena, Payload: payload})
	if err != nil {
		log.Printf("⚠️ websocket marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[arena]
	for c := range room {
		select {
		case c.send <- data:
			IncrementWSMessages()
		default:
			// Slow consumer: cut it loose rather than stall everyone.
			delete(room, c)
			close(c.send)
			h.wsLimiter.Release(c.ip)
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; spectators are read-only. It exists to
// process pongs and notice disconnects.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(wsMaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
