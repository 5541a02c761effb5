package match

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// AuditKind classifies audit events.
type AuditKind uint8

const (
	AuditUnknown AuditKind = iota
	AuditPlayerJoin
	AuditPlayerLeave
	AuditPhaseChange
	AuditPurchase
	AuditBedDestroyed
	AuditDeath
	AuditTrapSprung
	AuditBossSpawn
	AuditBossDefeated
	AuditSpecChosen
)

func (k AuditKind) String() string {
	switch k {
	case AuditPlayerJoin:
		return "player_join"
	case AuditPlayerLeave:
		return "player_leave"
	case AuditPhaseChange:
		return "phase_change"
	case AuditPurchase:
		return "purchase"
	case AuditBedDestroyed:
		return "bed_destroyed"
	case AuditDeath:
		return "death"
	case AuditTrapSprung:
		return "trap_sprung"
	case AuditBossSpawn:
		return "boss_spawn"
	case AuditBossDefeated:
		return "boss_defeated"
	case AuditSpecChosen:
		return "spec_chosen"
	default:
		return "unknown"
	}
}

// AuditEvent is one line of the match audit trail.
type AuditEvent struct {
	Kind      string          `json:"kind"`
	Arena     string          `json:"arena"`
	Tick      uint64          `json:"tick"`
	PlayerID  string          `json:"playerId,omitempty"`
	Timestamp int64           `json:"ts"`
	Sequence  uint64          `json:"seq"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Typed payloads.

type joinPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type leavePayload struct {
	Name  string `json:"name"`
	Phase string `json:"phase"`
}

type phasePayload struct {
	Phase  string `json:"phase"`
	Winner string `json:"winner,omitempty"`
}

type purchasePayload struct {
	Kind  string `json:"kind"`
	What  string `json:"what"`
	Level int    `json:"level,omitempty"`
}

type bedPayload struct {
	Team  string `json:"team"`
	Cause string `json:"cause"`
}

type deathPayload struct {
	Killer string `json:"killer,omitempty"`
	Final  bool   `json:"final"`
}

type trapPayload struct {
	Team string `json:"team"`
	Trap string `json:"trap"`
}

type bossPayload struct {
	Team  string `json:"team,omitempty"`
	Pools int    `json:"pools,omitempty"`
}

type specPayload struct {
	Team string `json:"team"`
	Spec string `json:"spec"`
}

const (
	auditBufferSize    = 1024
	auditMaxPerSec     = 2000
	auditMaxPerPlayer  = 50
	auditFlushSize     = 64
	auditFlushInterval = 100 * time.Millisecond
	auditLimiterTTL    = 5 * time.Minute
)

// AuditLog is a bounded, rate-limited JSONL trail of match events, shared
// by every arena in the process. Emit never blocks the tick loop: events
// land in a ring buffer and a background writer batches them to disk.
// Overload drops events instead of stalling the match.
type AuditLog struct {
	buffer    [auditBufferSize]AuditEvent
	writeHead uint64 // atomic
	readHead  uint64 // atomic

	globalLimiter  *rate.Limiter
	playerLimiters sync.Map // playerID -> *auditLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	dropped uint64 // atomic
	total   uint64 // atomic
}

type auditLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewAuditLog creates a stopped audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{
		globalLimiter: rate.NewLimiter(auditMaxPerSec, auditMaxPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start opens the output file and launches the writer. An empty path keeps
// the log in memory only.
func (l *AuditLog) Start(filePath string) error {
	if l.running.Load() {
		return nil
	}
	l.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		l.file = file
	}

	l.running.Store(true)
	l.writerWg.Add(2)
	go l.writerLoop()
	go l.cleanupLoop()
	return nil
}

// Stop flushes and closes the log.
func (l *AuditLog) Stop() {
	l.stopOnce.Do(func() {
		l.running.Store(false)
		close(l.stopChan)
		l.writerWg.Wait()

		l.fileMu.Lock()
		if l.file != nil {
			l.file.Close()
		}
		l.fileMu.Unlock()
	})
}

// Emit appends one event. Returns false when rate limited or stopped.
func (l *AuditLog) Emit(kind AuditKind, arena string, tick uint64, playerID string, payload interface{}) bool {
	if !l.running.Load() {
		return false
	}
	if !l.globalLimiter.Allow() {
		atomic.AddUint64(&l.dropped, 1)
		return false
	}
	if playerID != "" && !l.playerLimiter(playerID).Allow() {
		atomic.AddUint64(&l.dropped, 1)
		return false
	}

	var raw json.RawMessage
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			raw = data
		}
	}

	// seq is the zero-based slot index; collect reads [readHead, writeHead).
	seq := atomic.AddUint64(&l.writeHead, 1) - 1
	tail := atomic.LoadUint64(&l.readHead)
	if seq-tail >= auditBufferSize {
		// Ring full: the oldest event makes way.
		atomic.AddUint64(&l.readHead, 1)
		atomic.AddUint64(&l.dropped, 1)
	}

	l.buffer[seq%auditBufferSize] = AuditEvent{
		Kind:      kind.String(),
		Arena:     arena,
		Tick:      tick,
		PlayerID:  playerID,
		Timestamp: time.Now().UnixNano(),
		Sequence:  seq,
		Payload:   raw,
	}
	atomic.AddUint64(&l.total, 1)
	return true
}

func (l *AuditLog) playerLimiter(playerID string) *rate.Limiter {
	if entry, ok := l.playerLimiters.Load(playerID); ok {
		e := entry.(*auditLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}
	entry := &auditLimiterEntry{
		limiter:  rate.NewLimiter(auditMaxPerPlayer, auditMaxPerPlayer/5),
		lastUsed: time.Now(),
	}
	actual, _ := l.playerLimiters.LoadOrStore(playerID, entry)
	return actual.(*auditLimiterEntry).limiter
}

func (l *AuditLog) writerLoop() {
	defer l.writerWg.Done()

	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	batch := make([]AuditEvent, 0, auditFlushSize)
	for {
		select {
		case <-l.stopChan:
			batch = l.collect(batch[:0])
			if len(batch) > 0 {
				l.flush(batch)
			}
			return
		case <-ticker.C:
			batch = l.collect(batch[:0])
			if len(batch) > 0 {
				l.flush(batch)
			}
		}
	}
}

func (l *AuditLog) cleanupLoop() {
	defer l.writerWg.Done()

	ticker := time.NewTicker(auditLimiterTTL)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-auditLimiterTTL)
			l.playerLimiters.Range(func(key, value interface{}) bool {
				if value.(*auditLimiterEntry).lastUsed.Before(cutoff) {
					l.playerLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (l *AuditLog) collect(batch []AuditEvent) []AuditEvent {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	for i := tail; i < head && len(batch) < auditFlushSize; i++ {
		batch = append(batch, l.buffer[i%auditBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&l.readHead, uint64(len(batch)))
	}
	return batch
}

func (l *AuditLog) flush(batch []AuditEvent) {
	l.fileMu.Lock()
	defer l.fileMu.Unlock()
	if l.file == nil {
		return
	}
	for _, ev := range batch {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}
}

// Stats reports counters for the observability endpoint.
func (l *AuditLog) Stats() map[string]interface{} {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	return map[string]interface{}{
		"total":   atomic.LoadUint64(&l.total),
		"dropped": atomic.LoadUint64(&l.dropped),
		"pending": head - tail,
		"running": l.running.Load(),
	}
}
