package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bedrush/internal/match"
	"bedrush/internal/registry"
)

// StatsReader is the slice of the stats store the API reads. An interface
// keeps handler tests off the database.
type StatsReader interface {
	PlayerTotals(playerID string) (map[match.StatKind]int, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Registry: reg,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Registry resolves arenas by name and players to arenas (required).
	Registry *registry.Registry

	// Stats serves the player stats endpoint. May be nil; the endpoint then
	// answers 503.
	Stats StatsReader

	// Hub serves spectator websockets. May be nil; /ws then answers 503.
	Hub *Hub

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses localhost-only defaults.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	registry *registry.Registry
	stats    StatsReader
	hub      *Hub
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started (unless it has to build its own rate limiter)
//   - No network listeners are opened
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		registry: cfg.Registry,
		stats:    cfg.Stats,
		hub:      cfg.Hub,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/arenas", h.handleListArenas)

		r.Route("/arenas/{name}", func(r chi.Router) {
			r.Get("/", h.handleGetArena)
			r.Post("/join", h.handleJoin)
			r.Post("/leave", h.handleLeave)
			r.Post("/team", h.handleSetTeam)
			r.Post("/buy/item", h.handleBuyItem)
			r.Post("/buy/upgrade", h.handleBuyUpgrade)
			r.Post("/buy/trap", h.handleBuyTrap)
			r.Post("/vote", h.handleVote)
		})

		r.Get("/players/{id}/stats", h.handlePlayerStats)
	})

	r.Get("/ws/{arena}", h.handleWebSocket)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
