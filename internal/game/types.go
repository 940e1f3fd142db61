// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Game:      state of one guessing game (candidates, history, counters).
//   - Snapshot:  the serialisable fragment carried between stateless requests.
//   - Selection: a chosen question plus the rule that produced it.

package game

import "github.com/robalobadob/pokeguess/internal/pokemon"

// neverAsked seeds the since-number counter so the first numeric question
// is not held back by the spacing rule.
const neverAsked = 999

// Game holds the state of a single guessing game.
// Games are owned by one caller; the Engine never retains them.
type Game struct {
	remaining   []pokemon.Pokemon // sorted by pokedex number
	asked       []Question        // ask order
	numberUsed  int               // numeric questions selected so far
	noProgress  int               // consecutive answers that did not shrink remaining
	sinceNumber int               // answers since the last numeric question
}

// Remaining returns a copy of the candidates still consistent with all answers.
func (g *Game) Remaining() []pokemon.Pokemon {
	return append([]pokemon.Pokemon(nil), g.remaining...)
}

// Asked returns a copy of the questions answered so far, in ask order.
func (g *Game) Asked() []Question {
	return append([]Question(nil), g.asked...)
}

func (g *Game) NumberQuestionsUsed() int { return g.numberUsed }

func (g *Game) NoProgressSteps() int { return g.noProgress }

func (g *Game) StepsSinceNumber() int { return g.sinceNumber }

// Done reports the terminal condition: at most one candidate left.
func (g *Game) Done() bool { return len(g.remaining) <= 1 }

// Guess returns the sole remaining candidate (or the first, if asked early).
// It reports false when no candidate survived, which only happens after
// contradictory answers.
func (g *Game) Guess() (pokemon.Pokemon, bool) {
	if len(g.remaining) == 0 {
		return pokemon.Pokemon{}, false
	}
	return g.remaining[0], true
}

// Snapshot captures the state needed to resume the game elsewhere.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		RemainingIDs: make([]int, len(g.remaining)),
		AskedIDs:     make([]string, len(g.asked)),
	}
	for i, p := range g.remaining {
		s.RemainingIDs[i] = p.Num()
	}
	for i, q := range g.asked {
		s.AskedIDs[i] = q.ID()
	}
	return s
}

func (g *Game) clone() *Game {
	c := *g
	c.remaining = append([]pokemon.Pokemon(nil), g.remaining...)
	c.asked = append([]Question(nil), g.asked...)
	return &c
}

// Snapshot is the transport-neutral game state:
// combined with the catalog it is enough to rebuild a Game.
type Snapshot struct {
	RemainingIDs []int    `json:"remainingIds"`
	AskedIDs     []string `json:"askedIds"`
}

// Source names the selection rule that produced a question.
type Source string

const (
	SourceStrong   Source = "strong"   // random pick among the top strong splits
	SourceNumber   Source = "number"   // throttled numeric question
	SourceWeak     Source = "weak"     // best weak split
	SourceFallback Source = "fallback" // numeric question forced past the throttle
)

// Selection is the outcome of one Choose call.
type Selection struct {
	Question Question
	Quality  float64
	Source   Source
}
