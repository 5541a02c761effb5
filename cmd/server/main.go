package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bedrush/internal/api"
	"bedrush/internal/inventory"
	"bedrush/internal/match"
	"bedrush/internal/registry"
	"bedrush/internal/settings"
	"bedrush/internal/stats"
	"bedrush/internal/world"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🛏️ ================================")
	log.Println("🛏️  BEDRUSH - MATCH ENGINE")
	log.Println("🛏️ ================================")

	cfg := settings.Load()

	if dir := filepath.Dir(cfg.Storage.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("❌ Cannot create data dir %s: %v", dir, err)
		}
	}

	store, err := stats.Open(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Stats database: %v", err)
	}

	audit := match.NewAuditLog()
	if cfg.Storage.AuditLogPath != "" {
		if err := audit.Start(cfg.Storage.AuditLogPath); err != nil {
			log.Printf("⚠️ Audit log disabled: %v", err)
		} else {
			log.Printf("📝 Audit log: %s", cfg.Storage.AuditLogPath)
		}
	}

	// Engine anomalies show up as a metric, not just a log line.
	match.OnAnomaly = api.RecordAnomaly

	defs, err := settings.LoadArenasDir(cfg.Storage.ArenasDir)
	if err != nil {
		log.Fatalf("❌ Loading arenas: %v", err)
	}

	reg := registry.New()
	hub := api.NewHub(3, nil)

	type hosted struct {
		arena  *match.Arena
		roster *inventory.Roster
	}
	var arenas []hosted

	for _, def := range defs {
		w := world.New(def.Region)
		roster := inventory.NewRoster()

		arena, err := match.NewArena(def.Options, match.Deps{
			World:     w,
			Roster:    roster,
			Presenter: api.NewHubPresenter(hub, def.Options.Name),
			Stats:     store,
			Audit:     audit,
		})
		if err != nil {
			log.Fatalf("❌ Arena %s: %v", def.Options.Name, err)
		}
		arena.SetEvictionHook(func(playerID string) {
			reg.Release(playerID)
			roster.Forget(playerID)
		})

		reg.Add(arena)
		arenas = append(arenas, hosted{arena: arena, roster: roster})
	}
	log.Printf("✅ %d arenas loaded", len(arenas))

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = fmt.Sprintf("127.0.0.1:%d", cfg.Server.DebugPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Registry: reg,
		Stats:    store,
		Hub:      hub,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatalf("❌ API server: %v", err)
		}
	}()

	// The heartbeat: every arena advances on the same 20 TPS ticker. One
	// missed deadline slides the whole schedule rather than bursting.
	stopTicking := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second / match.TicksPerSecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicking:
				return
			case <-ticker.C:
				start := time.Now()
				for _, h := range arenas {
					h.arena.Tick()
				}
				api.RecordTick(time.Since(start))
				for _, h := range arenas {
					api.UpdateArena(h.arena.Name(), int(h.arena.Phase()), h.arena.PlayerCount())
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	close(stopTicking)
	audit.Stop()
	if err := store.Close(); err != nil {
		log.Printf("⚠️ Stats close: %v", err)
	}
	log.Println("👋 Goodbye!")
}
