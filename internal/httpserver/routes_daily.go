// internal/httpserver/routes_daily.go
//
// HTTP routes for daily mode ("stump the guesser").
//   - POST /daily/start       → start today's game (once per player per day)
//   - GET  /daily/leaderboard → players who needed the most questions today
//                               (or on ?date=YYYY-MM-DD)
//
// Answers go through POST /game/answer like any other game; the token
// carries the date so every step uses the day's seeded tie-break.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokeguess/internal/daily"
	"github.com/robalobadob/pokeguess/internal/metrics"
	"github.com/robalobadob/pokeguess/internal/roundtrip"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/start", s.handleDailyStart)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// playedRes is returned by /daily/start when today's game is already done.
type playedRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleDailyStart starts today's game unless the player already finished one.
func (s *Server) handleDailyStart(w http.ResponseWriter, r *http.Request) {
	date := daily.DateKey(s.now())
	owner := s.owner(w, r)

	played, err := s.daily.AlreadyPlayed(r.Context(), ownerKey(owner), date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	if played {
		_ = json.NewEncoder(w).Encode(playedRes{Date: date, Played: true})
		return
	}
	metrics.GameStarted("daily")
	s.advance(w, r, roundtrip.NewGameID(), date, s.engine.Start())
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if !daily.ValidDateKey(date) {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
