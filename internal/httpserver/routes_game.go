// internal/httpserver/routes_game.go
//
// Game loop endpoints.
//   - POST /game/start  → first question (or an immediate result) + state token
//   - POST /game/answer → apply a yes/no answer to the token's pending question
//
// The server holds no game in memory. A tampered or expired token, an
// unknown question id, or an answer other than yes/no is reported as an
// invalid state and the client must restart.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokeguess/internal/auth"
	"github.com/robalobadob/pokeguess/internal/daily"
	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/metrics"
	"github.com/robalobadob/pokeguess/internal/roundtrip"
	"github.com/robalobadob/pokeguess/internal/store"
)

// Game response states.
const (
	stateQuestion = "question"
	stateGuessed  = string(store.OutcomeGuessed)
)

type questionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// gameRes is returned by every game step.
type gameRes struct {
	GameID    string        `json:"gameId"`
	State     string        `json:"state"` // "question" | "guessed" | "no_guess"
	Question  *questionView `json:"question,omitempty"`
	Token     string        `json:"token,omitempty"`
	Remaining int           `json:"remaining"`
	Asked     int           `json:"asked"`
	Guess     *pokemonView  `json:"guess,omitempty"`
	Daily     string        `json:"daily,omitempty"`
}

// answerReq is the payload for POST /game/answer.
type answerReq struct {
	Token  string `json:"token"`
	Answer string `json:"answer"` // "yes" | "no"
}

// handleStart begins a classic game.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	metrics.GameStarted("classic")
	s.advance(w, r, roundtrip.NewGameID(), "", s.engine.Start())
}

// handleAnswer restores the game from its token, applies the answer, and
// either asks the next question or reports the result.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	st, err := s.signer.Parse(req.Token)
	if err != nil {
		s.invalid(w, "token", err)
		return
	}
	yes, ok := parseAnswer(req.Answer)
	if !ok {
		s.invalid(w, "answer", errors.New("answer must be yes or no"))
		return
	}
	g, err := s.engine.Restore(st.Snapshot)
	if err != nil {
		s.invalid(w, "snapshot", err)
		return
	}
	next, err := s.engine.Apply(g, st.Pending, yes)
	if err != nil {
		s.invalid(w, "question", err)
		return
	}
	s.advance(w, r, st.GameID, st.Daily, next)
}

// invalid reports a state the client cannot continue from.
func (s *Server) invalid(w http.ResponseWriter, reason string, err error) {
	metrics.InvalidState(reason)
	log.Debug().Err(err).Str("reason", reason).Msg("invalid game state")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_state", "reason": reason, "restart": true})
}

// parseAnswer accepts yes/no in a few common spellings.
func parseAnswer(a string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(a)) {
	case "yes", "y", "true":
		return true, true
	case "no", "n", "false":
		return false, true
	}
	return false, false
}

// engineFor returns the engine for one step; daily games seed the top-K
// pick from the date so the sequence is shared by every player that day.
func (s *Server) engineFor(date string, step int) *game.Engine {
	if date == "" {
		return s.engine
	}
	return s.engine.With(game.WithRand(daily.Rand(date, s.cfg.DailySalt, step)))
}

// advance asks the next question for g, or finishes the game.
func (s *Server) advance(w http.ResponseWriter, r *http.Request, gameID, date string, g *game.Game) {
	sel, ok := s.engineFor(date, len(g.Asked())).Choose(g)
	if !ok {
		s.finish(w, r, gameID, date, g)
		return
	}
	metrics.QuestionSelected(sel)

	tok, err := s.signer.Sign(roundtrip.State{
		GameID:   gameID,
		Snapshot: g.Snapshot(),
		Pending:  sel.Question.ID(),
		Daily:    date,
	})
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("sign state")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(gameRes{
		GameID:    gameID,
		State:     stateQuestion,
		Question:  &questionView{ID: sel.Question.ID(), Text: sel.Question.Prompt()},
		Token:     tok,
		Remaining: len(g.Remaining()),
		Asked:     len(g.Asked()),
		Daily:     date,
	})
}

// finish records a terminal game (best effort) and returns the result.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, gameID, date string, g *game.Game) {
	owner := s.owner(w, r)
	res := store.Result{
		GameID:          gameID,
		Owner:           owner,
		Outcome:         store.OutcomeNoGuess,
		Questions:       len(g.Asked()),
		NumberQuestions: g.NumberQuestionsUsed(),
		DailyDate:       date,
		FinishedAt:      s.now().UTC(),
	}
	out := gameRes{GameID: gameID, Remaining: len(g.Remaining()), Asked: len(g.Asked()), Daily: date}
	if p, ok := g.Guess(); ok {
		res.Outcome = store.OutcomeGuessed
		res.PokemonNum = p.Num()
		res.PokemonName = p.Name()
		v := viewOf(p)
		out.Guess = &v
	}
	out.State = string(res.Outcome)

	ctx := r.Context()
	inserted, err := s.results.Save(ctx, res)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("save result")
	}
	// A finished game's last token stays valid until it expires; replaying it
	// reports the result again but only the first finish is counted.
	if inserted {
		s.countFinished(ctx, owner, res)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// countFinished bumps metrics, account counters and the daily board for a
// newly stored result.
func (s *Server) countFinished(ctx context.Context, owner store.Owner, res store.Result) {
	metrics.GameFinished(res.Outcome, res.Questions)
	if owner.UserID != "" && s.users != nil {
		if err := s.users.RecordGame(ctx, owner.UserID, res.Outcome == store.OutcomeGuessed); err != nil {
			log.Warn().Err(err).Str("user", owner.UserID).Msg("bump stats")
		}
	}
	if res.DailyDate != "" && s.daily != nil {
		if err := s.daily.InsertResult(ctx, daily.Result{
			OwnerID: ownerKey(owner), Date: res.DailyDate, PokemonNum: res.PokemonNum, Questions: res.Questions,
		}); err != nil {
			log.Warn().Err(err).Str("gameId", res.GameID).Msg("insert daily result")
		}
	}
}

// owner returns the logged-in user, or the anonymous cookie for guests.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) store.Owner {
	if me := auth.CurrentUser(r.Context()); me != nil {
		return store.Owner{UserID: me.ID}
	}
	return store.Owner{AnonymousID: s.sessions.AnonymousID(w, r)}
}

func ownerKey(o store.Owner) string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}
