// internal/game/engine.go
//
// Question-selection and state-narrowing engine.
// Responsibilities:
//   - Start games over a fixed population.
//   - Choose the next question by split balance, with top-K random
//     tie-breaking, no repeats and throttled numeric questions.
//   - Apply answers and rebuild games from a Snapshot (stateless requests).
//
// Notes:
//   - The engine is immutable after construction and safe to share; all
//     per-game state lives in *Game.
//   - The only non-determinism is the top-K pick, drawn from Rand.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

var (
	ErrUnknownQuestion   = errors.New("game: unknown question id")
	ErrUnknownPokemon    = errors.New("game: unknown pokemon number")
	ErrInconsistentState = errors.New("game: snapshot does not match its answer history")
)

// Config tunes question selection.
type Config struct {
	TopK                  int     `yaml:"top_k"`
	MinSplitQuality       float64 `yaml:"min_split_quality"`
	MaxNumberQuestions    int     `yaml:"max_number_questions"`
	MinStepsBetweenNumber int     `yaml:"min_steps_between_number"`
	NoProgressTrigger     int     `yaml:"no_progress_trigger"`
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		TopK:                  3,
		MinSplitQuality:       0.2,
		MaxNumberQuestions:    6,
		MinStepsBetweenNumber: 2,
		NoProgressTrigger:     2,
	}
}

// Rand is the randomness the engine needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option customises an Engine.
type Option func(*Engine)

// WithConfig overrides the selection tuning.
func WithConfig(c Config) Option { return func(e *Engine) { e.cfg = c } }

// WithRand injects the randomness source used for top-K tie-breaking.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// Engine picks questions and narrows games over one population.
type Engine struct {
	population []pokemon.Pokemon // sorted by number
	byNum      map[int]pokemon.Pokemon
	bank       *Bank
	cfg        Config
	rng        Rand
}

// NewEngine builds an engine for population. Numbers are expected to be unique.
func NewEngine(population []pokemon.Pokemon, opts ...Option) *Engine {
	pop := append([]pokemon.Pokemon(nil), population...)
	sortByNum(pop)
	e := &Engine{
		population: pop,
		byNum:      make(map[int]pokemon.Pokemon, len(pop)),
		bank:       NewBank(pop),
		cfg:        DefaultConfig(),
		rng:        globalRand{},
	}
	for _, p := range pop {
		e.byNum[p.Num()] = p
	}
	for _, o := range opts {
		o(e)
	}
	if e.cfg.TopK < 1 {
		e.cfg.TopK = 1
	}
	return e
}

// With returns a copy of e with extra options applied (e.g. a per-request Rand).
func (e *Engine) With(opts ...Option) *Engine {
	c := *e
	for _, o := range opts {
		o(&c)
	}
	return &c
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Bank() *Bank { return e.bank }

// Population returns a copy of the engine's full candidate set.
func (e *Engine) Population() []pokemon.Pokemon {
	return append([]pokemon.Pokemon(nil), e.population...)
}

// Start creates a fresh game over the whole population.
func (e *Engine) Start() *Game {
	return &Game{
		remaining:   e.Population(),
		sinceNumber: neverAsked,
	}
}

type scored struct {
	q       Question
	quality float64
}

// Choose selects the next question for g, or reports false when g is terminal.
// Selecting a numeric question counts against g's numeric budget.
func (e *Engine) Choose(g *Game) (Selection, bool) {
	if len(g.remaining) <= 1 {
		return Selection{}, false
	}

	asked := make(map[string]struct{}, len(g.asked))
	for _, q := range g.asked {
		asked[q.ID()] = struct{}{}
	}

	var strong, weak []scored
	for _, q := range e.bank.questions {
		if _, seen := asked[q.ID()]; seen {
			continue
		}
		quality := SplitQuality(q, g.remaining)
		if quality == 0 {
			continue // one-sided: can never split anything
		}
		if quality >= e.cfg.MinSplitQuality {
			strong = append(strong, scored{q, quality})
		} else {
			weak = append(weak, scored{q, quality})
		}
	}

	if len(strong) > 0 {
		byQualityDesc(strong)
		top := strong[:min(e.cfg.TopK, len(strong))]
		pick := top[e.rng.IntN(len(top))]
		return Selection{Question: pick.q, Quality: pick.quality, Source: SourceStrong}, true
	}

	if e.numberAllowed(g) {
		return e.numberSelection(g, SourceNumber), true
	}

	if len(weak) > 0 {
		byQualityDesc(weak)
		return Selection{Question: weak[0].q, Quality: weak[0].quality, Source: SourceWeak}, true
	}

	// Last resort: only a numeric question can still split the candidates.
	return e.numberSelection(g, SourceFallback), true
}

// Next is Choose without the bookkeeping detail.
func (e *Engine) Next(g *Game) (Question, bool) {
	sel, ok := e.Choose(g)
	return sel.Question, ok
}

func (e *Engine) numberAllowed(g *Game) bool {
	if g.numberUsed >= e.cfg.MaxNumberQuestions {
		return false
	}
	return g.sinceNumber >= e.cfg.MinStepsBetweenNumber ||
		g.noProgress >= e.cfg.NoProgressTrigger
}

func (e *Engine) numberSelection(g *Game, src Source) Selection {
	g.numberUsed++
	q, _ := NumberQuestion(g.remaining)
	return Selection{Question: q, Quality: SplitQuality(q, g.remaining), Source: src}
}

// Reconstruct rebuilds a question from its ID against the engine's bank.
func (e *Engine) Reconstruct(id string) (Question, bool) {
	return e.bank.Reconstruct(id)
}

// Apply resolves questionID and applies the answer, returning the next state.
// g is left untouched.
func (e *Engine) Apply(g *Game, questionID string, answer bool) (*Game, error) {
	q, ok := e.bank.Reconstruct(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	return g.Answer(q, answer), nil
}

// Answer keeps the side of the split matching answer and updates counters.
// g is left untouched; the new state is returned.
func (g *Game) Answer(q Question, answer bool) *Game {
	next := g.clone()
	before := len(next.remaining)

	yes, no := q.Split(next.remaining)
	if answer {
		next.remaining = yes
	} else {
		next.remaining = no
	}
	next.asked = append(next.asked, q)

	if len(next.remaining) >= before {
		next.noProgress++
	} else {
		next.noProgress = 0
	}

	if q.IsNumber() {
		next.sinceNumber = 0
		if n := countNumbers(next.asked); next.numberUsed < n {
			next.numberUsed = n
		}
	} else {
		next.sinceNumber++
	}
	return next
}

// Restore rebuilds a game from a snapshot.
// Asked IDs are reconstructed in order and replayed from the full population,
// with each answer read off a surviving candidate; the replay must land on
// exactly the snapshot's remaining set. Counters come out of the replay.
func (e *Engine) Restore(s Snapshot) (*Game, error) {
	remaining := make([]pokemon.Pokemon, 0, len(s.RemainingIDs))
	seenNum := make(map[int]struct{}, len(s.RemainingIDs))
	for _, n := range s.RemainingIDs {
		p, ok := e.byNum[n]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPokemon, n)
		}
		if _, dup := seenNum[n]; dup {
			return nil, fmt.Errorf("%w: pokemon %d listed twice", ErrInconsistentState, n)
		}
		seenNum[n] = struct{}{}
		remaining = append(remaining, p)
	}
	sortByNum(remaining)

	asked := make([]Question, 0, len(s.AskedIDs))
	seenID := make(map[string]struct{}, len(s.AskedIDs))
	for _, id := range s.AskedIDs {
		q, ok := e.bank.Reconstruct(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		if _, dup := seenID[id]; dup {
			return nil, fmt.Errorf("%w: %q asked twice", ErrInconsistentState, id)
		}
		seenID[id] = struct{}{}
		asked = append(asked, q)
	}

	if len(remaining) == 0 {
		// Contradictory answers: nothing to replay against.
		g := &Game{asked: asked, numberUsed: countNumbers(asked), sinceNumber: neverAsked}
		for i := len(asked) - 1; i >= 0; i-- {
			if asked[i].IsNumber() {
				g.sinceNumber = len(asked) - 1 - i
				break
			}
		}
		return g, nil
	}

	witness := remaining[0]
	g := e.Start()
	for _, q := range asked {
		g = g.Answer(q, q.Matches(witness))
	}
	if !sameNumbers(g.remaining, remaining) {
		return nil, ErrInconsistentState
	}
	return g, nil
}

func countNumbers(qs []Question) int {
	n := 0
	for _, q := range qs {
		if q.IsNumber() {
			n++
		}
	}
	return n
}

func sameNumbers(a, b []pokemon.Pokemon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Num() != b[i].Num() {
			return false
		}
	}
	return true
}

func sortByNum(ps []pokemon.Pokemon) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Num() < ps[j].Num() })
}

func byQualityDesc(s []scored) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].quality > s[j].quality })
}
