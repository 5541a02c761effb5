// Package stats persists player counters and analytics events to sqlite.
// Writes are queued off the match loop: Record and Analytics return
// immediately, a background worker owns the database, and writes that
// failed are retried once at shutdown.
package stats

import (
	"database/sql"
	"log"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"bedrush/internal/match"
)

const (
	queueSize = 1024
	// analyticsPerSec caps fire-and-forget analytics so a hot loop cannot
	// flood the database.
	analyticsPerSec = 50
)

const schema = `
CREATE TABLE IF NOT EXISTS player_stats (
	player_id TEXT NOT NULL,
	stat      TEXT NOT NULL,
	arena     TEXT NOT NULL,
	count     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (player_id, stat, arena)
);
CREATE TABLE IF NOT EXISTS analytics (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	arena      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type request struct {
	analytic bool
	playerID string
	stat     match.StatKind
	kind     string
	value    string
	arena    string
}

// Store implements match.Stats over a sqlite file.
type Store struct {
	db *sql.DB

	queue    chan request
	workerWg sync.WaitGroup

	limiter *rate.Limiter

	mu     sync.Mutex
	failed []request
	closed bool

	dropped uint64
}

// Open creates (or opens) the database, runs the schema and starts the
// writer.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening stats database %s", path)
	}
	// The writer goroutine is the only concurrent user, but keep sqlite to
	// one connection anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "applying stats schema")
	}

	s := &Store{
		db:      db,
		queue:   make(chan request, queueSize),
		limiter: rate.NewLimiter(analyticsPerSec, analyticsPerSec),
	}
	s.workerWg.Add(1)
	go s.worker()

	log.Printf("💾 stats database ready: %s", path)
	return s, nil
}

// Record implements match.Stats. Never blocks; a full queue drops the
// write and logs it.
func (s *Store) Record(playerID string, stat match.StatKind, arena string) {
	s.enqueue(request{playerID: playerID, stat: stat, arena: arena})
}

// Analytics implements match.Stats. Rate limited and never blocking.
func (s *Store) Analytics(kind, value, arena string) {
	if !s.limiter.Allow() {
		return
	}
	s.enqueue(request{analytic: true, kind: kind, value: value, arena: arena})
}

func (s *Store) enqueue(req request) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.queue <- req:
	default:
		s.dropped++
		log.Printf("⚠️ stats queue full, dropping write")
	}
}

func (s *Store) worker() {
	defer s.workerWg.Done()
	for req := range s.queue {
		if err := s.write(req); err != nil {
			log.Printf("⚠️ stats write failed (will retry at shutdown): %v", err)
			s.mu.Lock()
			s.failed = append(s.failed, req)
			s.mu.Unlock()
		}
	}
}

func (s *Store) write(req request) error {
	if req.analytic {
		_, err := s.db.Exec(
			`INSERT INTO analytics (kind, value, arena) VALUES (?, ?, ?)`,
			req.kind, req.value, req.arena)
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO player_stats (player_id, stat, arena, count) VALUES (?, ?, ?, 1)
		 ON CONFLICT (player_id, stat, arena) DO UPDATE SET count = count + 1`,
		req.playerID, string(req.stat), req.arena)
	return err
}

// PlayerTotals loads one player's counters summed over every arena.
func (s *Store) PlayerTotals(playerID string) (map[match.StatKind]int, error) {
	rows, err := s.db.Query(
		`SELECT stat, SUM(count) FROM player_stats WHERE player_id = ? GROUP BY stat`,
		playerID)
	if err != nil {
		return nil, errors.Wrap(err, "loading player stats")
	}
	defer rows.Close()

	totals := make(map[match.StatKind]int)
	for rows.Next() {
		var stat string
		var count int
		if err := rows.Scan(&stat, &count); err != nil {
			return nil, errors.Wrap(err, "scanning player stats")
		}
		totals[match.StatKind(stat)] = count
	}
	return totals, rows.Err()
}

// Close drains the queue, retries every failed write once and shuts the
// database down.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.queue)
	s.workerWg.Wait()

	s.mu.Lock()
	failed := s.failed
	s.failed = nil
	s.mu.Unlock()

	retried := 0
	for _, req := range failed {
		if err := s.write(req); err != nil {
			log.Printf("⚠️ stats retry failed, giving up: %v", err)
			continue
		}
		retried++
	}
	if len(failed) > 0 {
		log.Printf("💾 stats shutdown: %d/%d failed writes recovered", retried, len(failed))
	}
	return s.db.Close()
}
