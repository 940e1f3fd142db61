// internal/httpserver/server.go
//
// HTTP server wiring for the Pokémon guesser.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "GET /catalog".
//   - Game endpoints (optional auth): POST /game/start, POST /game/answer.
//   - Daily endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Games in progress are not stored: each question response carries a
//     signed state token which the client sends back with its answer.
//   - Routes needing SQLite (auth, daily) are only mounted when a database
//     handle is supplied.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/pokeguess/internal/auth"
	"github.com/robalobadob/pokeguess/internal/catalog"
	"github.com/robalobadob/pokeguess/internal/config"
	"github.com/robalobadob/pokeguess/internal/daily"
	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/pokemon"
	"github.com/robalobadob/pokeguess/internal/roundtrip"
	"github.com/robalobadob/pokeguess/internal/store"
)

// Server bundles the router and everything the handlers need.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	catalog  *catalog.Catalog
	engine   *game.Engine
	signer   *roundtrip.Signer
	results  store.Store
	sessions *auth.Sessions
	users    *auth.Users  // nil without a database
	daily    *daily.Store // nil without a database
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil, in which case accounts and daily mode are disabled.
func New(cfg *config.Config, cat *catalog.Catalog, eng *game.Engine, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		catalog: cat,
		engine:  eng,
		signer:  roundtrip.NewSigner(cfg.StateSecret, cfg.StateTTL),
		results: st,
		now:     time.Now,
	}
	if db != nil {
		s.users = auth.NewUsers(db)
		s.daily = daily.NewStore(db)
	}
	s.sessions = auth.NewSessions(s.users, cfg.JWTSecret, cfg.JWTExpiry, cfg.CookieName, cfg.Production)

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"pokeguess","endpoints":["/health","/metrics","GET /catalog","POST /game/start","POST /game/answer","POST /daily/start","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.r.Get("/catalog", s.handleCatalog)

	// Game endpoints: guests can play
	s.r.With(s.sessions.Optional).Post("/game/start", s.handleStart)
	s.r.With(s.sessions.Optional).Post("/game/answer", s.handleAnswer)

	if s.users != nil {
		s.mountDaily(s.r.With(s.sessions.Optional))
		s.mountAuthRoutes()
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ CATALOG ------------------------------------

// pokemonView is the public JSON shape of a catalog entry.
type pokemonView struct {
	Num        int      `json:"num"`
	Name       string   `json:"name"`
	Img        string   `json:"img,omitempty"`
	Types      []string `json:"types"`
	Weaknesses []string `json:"weaknesses"`
}

func viewOf(p pokemon.Pokemon) pokemonView {
	return pokemonView{Num: p.Num(), Name: p.Name(), Img: p.Img(), Types: p.Types(), Weaknesses: p.Weaknesses()}
}

// handleCatalog lists every Pokémon the guesser knows about.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out := make([]pokemonView, 0, s.catalog.Len())
	for _, p := range s.catalog.All() {
		out = append(out, viewOf(p))
	}
	_ = json.NewEncoder(w).Encode(out)
}
