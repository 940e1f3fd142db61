// internal/store/memory.go
//
// Finished-game results.
// Defines the Store interface and an in-memory implementation used in
// development/testing or when DATABASE_PATH=memory.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Games in progress are never stored here: they travel with each request.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a result does not exist.
var ErrNotFound = errors.New("store: not found")

// Outcome of a finished game.
type Outcome string

const (
	OutcomeGuessed Outcome = "guessed"  // one candidate left
	OutcomeNoGuess Outcome = "no_guess" // contradictory answers emptied the candidate set
)

// Owner identifies who played: a logged-in user or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

// Result is one finished game.
type Result struct {
	GameID          string    `json:"gameId"`
	Owner           Owner     `json:"-"`
	Outcome         Outcome   `json:"outcome"`
	PokemonNum      int       `json:"pokemonNum,omitempty"`
	PokemonName     string    `json:"pokemonName,omitempty"`
	Questions       int       `json:"questions"`
	NumberQuestions int       `json:"numberQuestions"`
	DailyDate       string    `json:"dailyDate,omitempty"`
	FinishedAt      time.Time `json:"finishedAt"`
}

// Stats aggregates an owner's results.
type Stats struct {
	GamesPlayed      int     `json:"gamesPlayed"`
	Guessed          int     `json:"guessed"`
	AverageQuestions float64 `json:"averageQuestions"`
}

// Store defines the persistence interface for finished games.
type Store interface {
	// Save records a finished game and reports whether it was new.
	// Saving the same GameID twice keeps the first and returns false.
	Save(ctx context.Context, r Result) (bool, error)

	// Get retrieves a result by game ID.
	Get(ctx context.Context, gameID string) (Result, error)

	// Recent lists an owner's results, newest first.
	Recent(ctx context.Context, owner Owner, limit int) ([]Result, error)

	// Stats summarises an owner's results.
	Stats(ctx context.Context, owner Owner) (Stats, error)

	// Claim moves anonymous results to a user account.
	Claim(ctx context.Context, anonymousID, userID string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards results
	results map[string]Result // keyed by GameID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{results: make(map[string]Result)}
}

func (m *memory) Save(ctx context.Context, r Result) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.results[r.GameID]; exists {
		return false, nil
	}
	m.results[r.GameID] = r
	return true, nil
}

func (m *memory) Get(ctx context.Context, gameID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.results[gameID]; ok {
		return r, nil
	}
	return Result{}, ErrNotFound
}

func (m *memory) Recent(ctx context.Context, owner Owner, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	out := m.owned(owner)
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Stats(ctx context.Context, owner Owner) (Stats, error) {
	var s Stats
	total := 0
	for _, r := range m.owned(owner) {
		s.GamesPlayed++
		total += r.Questions
		if r.Outcome == OutcomeGuessed {
			s.Guessed++
		}
	}
	if s.GamesPlayed > 0 {
		s.AverageQuestions = float64(total) / float64(s.GamesPlayed)
	}
	return s, nil
}

func (m *memory) Claim(ctx context.Context, anonymousID, userID string) error {
	if anonymousID == "" || userID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.results {
		if r.Owner.UserID == "" && r.Owner.AnonymousID == anonymousID {
			r.Owner = Owner{UserID: userID}
			m.results[id] = r
		}
	}
	return nil
}

// owned returns the results belonging to owner. Users match on UserID,
// guests on AnonymousID.
func (m *memory) owned(owner Owner) []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for _, r := range m.results {
		switch {
		case owner.UserID != "":
			if r.Owner.UserID == owner.UserID {
				out = append(out, r)
			}
		case owner.AnonymousID != "":
			if r.Owner.UserID == "" && r.Owner.AnonymousID == owner.AnonymousID {
				out = append(out, r)
			}
		}
	}
	return out
}
