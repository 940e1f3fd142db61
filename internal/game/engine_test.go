package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// play runs a full game for secret, answering truthfully, and checks the
// per-step properties along the way. It returns the finished game and the
// selections made.
func play(t *testing.T, e *Engine, secret pokemon.Pokemon, maxSteps int) (*Game, []Selection) {
	t.Helper()
	g := e.Start()
	var picks []Selection
	for !g.Done() {
		require.Less(t, len(picks), maxSteps, "secret #%d did not converge", secret.Num())

		sel, ok := e.Choose(g)
		require.True(t, ok, "no question with %d candidates left", len(g.remaining))
		picks = append(picks, sel)

		before := g.Remaining()
		next, err := e.Apply(g, sel.Question.ID(), sel.Question.Matches(secret))
		require.NoError(t, err)

		after := next.Remaining()
		assert.Less(t, len(after), len(before), "every chosen question must make progress")
		assert.Subset(t, nums(before), nums(after))
		assert.Contains(t, nums(after), secret.Num())
		g = next
	}
	return g, picks
}

func TestScenario_FirstQuestionIsBalanced(t *testing.T) {
	for seed := uint64(0); seed < 32; seed++ {
		e := NewEngine(scenario(t), WithRand(seeded(seed)))
		sel, ok := e.Choose(e.Start())
		require.True(t, ok)
		assert.Equal(t, SourceStrong, sel.Source)
		assert.GreaterOrEqual(t, sel.Quality, 0.25)
		assert.Contains(t, []string{"type:Fire", "dual_type", "type:Flying", "type:Grass", "type:Water"}, sel.Question.ID())
	}
}

func TestScenario_DualTypeYesNarrowsToSecret(t *testing.T) {
	e := NewEngine(scenario(t), WithRand(seeded(1)))
	g, err := e.Apply(e.Start(), "dual_type", true)
	require.NoError(t, err)

	assert.True(t, g.Done())
	guess, ok := g.Guess()
	require.True(t, ok)
	assert.Equal(t, 3, guess.Num())

	_, ok = e.Choose(g)
	assert.False(t, ok, "terminal game has no next question")
}

func TestScenario_GuessesSecretThree(t *testing.T) {
	pop := scenario(t)
	for seed := uint64(0); seed < 32; seed++ {
		e := NewEngine(pop, WithRand(seeded(seed)))
		g, picks := play(t, e, pop[2], 3)
		assert.LessOrEqual(t, len(picks), 3)

		guess, ok := g.Guess()
		require.True(t, ok)
		assert.Equal(t, 3, guess.Num())
	}
}

func TestCatalog_EverySecretIsGuessed(t *testing.T) {
	pop := kanto(t)
	cfg := DefaultConfig()
	for _, seed := range []uint64{1, 7, 42} {
		e := NewEngine(pop, WithRand(seeded(seed)))
		for _, secret := range pop {
			g, picks := play(t, e, secret, 40)

			guess, ok := g.Guess()
			require.True(t, ok)
			assert.Equal(t, secret.Num(), guess.Num())

			seen := map[string]bool{}
			throttled := 0
			for _, sel := range picks {
				assert.False(t, seen[sel.Question.ID()], "question %s repeated", sel.Question.ID())
				seen[sel.Question.ID()] = true
				if sel.Source == SourceNumber {
					throttled++
				}
			}
			assert.LessOrEqual(t, throttled, cfg.MaxNumberQuestions)
			assert.Equal(t, countNumbers(g.asked), g.NumberQuestionsUsed())
		}
	}
}

func TestChoose_IdenticalCandidatesUseNumber(t *testing.T) {
	twins := []pokemon.Pokemon{mon(t, 29, "Poison"), mon(t, 32, "Poison")}
	e := NewEngine(twins)
	g := e.Start()

	sel, ok := e.Choose(g)
	require.True(t, ok)
	assert.Equal(t, SourceNumber, sel.Source)
	assert.Equal(t, "num:<32", sel.Question.ID())
	assert.Equal(t, 1, g.NumberQuestionsUsed())
}

func TestChoose_ZeroThresholdStillDropsOneSidedQuestions(t *testing.T) {
	twins := []pokemon.Pokemon{mon(t, 29, "Poison"), mon(t, 32, "Poison")}
	cfg := DefaultConfig()
	cfg.MinSplitQuality = 0
	e := NewEngine(twins, WithConfig(cfg))

	sel, ok := e.Choose(e.Start())
	require.True(t, ok)
	assert.Equal(t, SourceNumber, sel.Source)
	assert.True(t, sel.Question.IsNumber())
}

func TestChoose_FallbackIgnoresThrottle(t *testing.T) {
	twins := []pokemon.Pokemon{mon(t, 29, "Poison"), mon(t, 32, "Poison")}
	e := NewEngine(twins)
	g := &Game{remaining: twins, numberUsed: e.Config().MaxNumberQuestions}

	sel, ok := e.Choose(g)
	require.True(t, ok)
	assert.Equal(t, SourceFallback, sel.Source)
	assert.True(t, sel.Question.IsNumber())
	assert.Equal(t, e.Config().MaxNumberQuestions+1, g.NumberQuestionsUsed())
}

// oddOneOut has nine identical Normal types and one Fire type: the only
// non-numeric split is weak (0.1).
func oddOneOut(t *testing.T) []pokemon.Pokemon {
	pop := []pokemon.Pokemon{mon(t, 4, "Fire")}
	for n := 10; n < 19; n++ {
		pop = append(pop, mon(t, n, "Normal"))
	}
	return pop
}

func TestChoose_NumberThrottle(t *testing.T) {
	pop := oddOneOut(t)
	e := NewEngine(pop)

	cases := []struct {
		name       string
		game       Game
		wantSource Source
	}{
		{"recent number, progressing", Game{sinceNumber: 0}, SourceWeak},
		{"one step since number", Game{sinceNumber: 1, noProgress: 1}, SourceWeak},
		{"spacing reached", Game{sinceNumber: 2}, SourceNumber},
		{"stalled", Game{sinceNumber: 0, noProgress: 2}, SourceNumber},
		{"budget spent", Game{sinceNumber: 5, numberUsed: 6}, SourceWeak},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := tc.game
			g.remaining = pop
			sel, ok := e.Choose(&g)
			require.True(t, ok)
			assert.Equal(t, tc.wantSource, sel.Source)
			if tc.wantSource == SourceWeak {
				assert.Equal(t, "type:Fire", sel.Question.ID())
				assert.InDelta(t, 0.1, sel.Quality, 1e-9)
			}
		})
	}
}

func TestChoose_SkipsAskedQuestions(t *testing.T) {
	pop := scenario(t)
	e := NewEngine(pop, WithRand(seeded(3)))
	g := &Game{remaining: pop, sinceNumber: neverAsked}
	for _, id := range []string{"type:Fire", "dual_type", "type:Flying", "type:Grass"} {
		q, ok := e.Reconstruct(id)
		require.True(t, ok)
		g.asked = append(g.asked, q)
	}

	sel, ok := e.Choose(g)
	require.True(t, ok)
	assert.Equal(t, "type:Water", sel.Question.ID())
}

func TestChoose_TopKWithInjectedRand(t *testing.T) {
	pop := scenario(t)
	e := NewEngine(pop, WithRand(fixedRand(0)))
	sel, ok := e.Choose(e.Start())
	require.True(t, ok)
	assert.Equal(t, "type:Fire", sel.Question.ID(), "index 0 is the best split")

	e = e.With(WithConfig(Config{TopK: 1, MinSplitQuality: 0.2, MaxNumberQuestions: 6, MinStepsBetweenNumber: 2, NoProgressTrigger: 2}))
	sel, ok = e.Choose(e.Start())
	require.True(t, ok)
	assert.Equal(t, "type:Fire", sel.Question.ID())
}

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestAnswer_Counters(t *testing.T) {
	pop := scenario(t)
	e := NewEngine(pop)
	g := e.Start()

	// Asked twice: the second answer cannot shrink anything.
	g1 := g.Answer(HasType("Fire"), true)
	assert.Equal(t, []int{1, 3}, nums(g1.Remaining()))
	assert.Zero(t, g1.NoProgressSteps())
	assert.Equal(t, neverAsked+1, g1.StepsSinceNumber())

	g2 := g1.Answer(HasType("Fire"), true)
	assert.Equal(t, 1, g2.NoProgressSteps())

	g3 := g2.Answer(NumberBelow(3), true)
	assert.Equal(t, []int{1}, nums(g3.Remaining()))
	assert.Zero(t, g3.StepsSinceNumber())
	assert.Zero(t, g3.NoProgressSteps())
	assert.Equal(t, 1, g3.NumberQuestionsUsed())

	// The input state is never mutated.
	assert.Len(t, g.Remaining(), 4)
	assert.Empty(t, g.Asked())
}

func TestApply_UnknownQuestion(t *testing.T) {
	e := NewEngine(scenario(t))
	_, err := e.Apply(e.Start(), "type:Dragon", true)
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestGuess_ContradictoryAnswers(t *testing.T) {
	e := NewEngine(scenario(t))
	g, err := e.Apply(e.Start(), "type:Grass", true)
	require.NoError(t, err)
	g, err = e.Apply(g, "type:Fire", true)
	require.NoError(t, err)

	assert.True(t, g.Done())
	_, ok := g.Guess()
	assert.False(t, ok)
	_, ok = e.Next(g)
	assert.False(t, ok)
}

func TestRestore_MatchesLiveGame(t *testing.T) {
	pop := kanto(t)
	e := NewEngine(pop, WithRand(seeded(99)))
	for _, secret := range []pokemon.Pokemon{pop[0], pop[17], pop[28], pop[39]} {
		g := e.Start()
		for !g.Done() {
			q, ok := e.Next(g)
			require.True(t, ok)
			var err error
			g, err = e.Apply(g, q.ID(), q.Matches(secret))
			require.NoError(t, err)

			restored, err := e.Restore(g.Snapshot())
			require.NoError(t, err)
			assert.Equal(t, g.Snapshot(), restored.Snapshot())
			assert.Equal(t, g.NumberQuestionsUsed(), restored.NumberQuestionsUsed())
			assert.Equal(t, g.NoProgressSteps(), restored.NoProgressSteps())
			assert.Equal(t, g.StepsSinceNumber(), restored.StepsSinceNumber())
		}
	}
}

func TestRestore_Fresh(t *testing.T) {
	pop := scenario(t)
	e := NewEngine(pop)
	g, err := e.Restore(Snapshot{RemainingIDs: []int{4, 3, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, nums(g.Remaining()))
	assert.Equal(t, neverAsked, g.StepsSinceNumber())
}

func TestRestore_Errors(t *testing.T) {
	e := NewEngine(scenario(t))

	_, err := e.Restore(Snapshot{RemainingIDs: []int{1, 99}})
	assert.ErrorIs(t, err, ErrUnknownPokemon)

	_, err = e.Restore(Snapshot{RemainingIDs: []int{1}, AskedIDs: []string{"type:Dragon"}})
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = e.Restore(Snapshot{RemainingIDs: []int{1, 3}, AskedIDs: []string{"type:Fire", "type:Fire"}})
	assert.ErrorIs(t, err, ErrInconsistentState)

	_, err = e.Restore(Snapshot{RemainingIDs: []int{1, 3, 3}, AskedIDs: []string{"type:Fire"}})
	assert.ErrorIs(t, err, ErrInconsistentState)

	// Spelling variants of an asked numeric id are not distinct questions.
	_, err = e.Restore(Snapshot{RemainingIDs: []int{1}, AskedIDs: []string{"num:<3", "num:<03"}})
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	// #1 is single-typed, so "dual_type" must have been answered no, which
	// would also have removed #3.
	_, err = e.Restore(Snapshot{RemainingIDs: []int{1, 3}, AskedIDs: []string{"dual_type"}})
	assert.ErrorIs(t, err, ErrInconsistentState)
}

func TestRestore_EmptyRemaining(t *testing.T) {
	e := NewEngine(scenario(t))
	g, err := e.Restore(Snapshot{AskedIDs: []string{"num:<3", "type:Grass", "type:Fire"}})
	require.NoError(t, err)
	assert.True(t, g.Done())
	assert.Equal(t, 1, g.NumberQuestionsUsed())
	assert.Equal(t, 2, g.StepsSinceNumber())
	_, ok := g.Guess()
	assert.False(t, ok)
}
