package simulate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/catalog"
	"github.com/robalobadob/pokeguess/internal/game"
)

func TestRun_EmbeddedCatalogAlwaysGuessed(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	for seed := uint64(1); seed <= 5; seed++ {
		eng := game.NewEngine(cat.All(), game.WithRand(rand.New(rand.NewPCG(seed, seed))))
		rep := Run(eng, cat.All(), DefaultLimits())

		require.Len(t, rep.Outcomes, cat.Len())
		assert.Empty(t, rep.Failed, "seed %d", seed)
		assert.Equal(t, 1.0, rep.SuccessRate())
		for _, o := range rep.Outcomes {
			assert.LessOrEqual(t, o.Steps, DefaultLimits().MaxSteps)
			assert.Equal(t, len(o.Asked), o.Steps)
			assert.Equal(t, o.Secret.Num(), o.Guess.Num())
		}
	}
}

func TestPlay_StepLimit(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	eng := game.NewEngine(cat.All())
	secret, _ := cat.ByNumber(1)

	o := Play(eng, secret, Limits{MaxSteps: 1, MaxNoProgress: 5})
	assert.Equal(t, StatusStepLimit, o.Status)
	assert.Equal(t, 1, o.Steps)
	assert.False(t, o.OK())
}

func TestReport_SuccessRateEmpty(t *testing.T) {
	assert.Zero(t, Report{}.SuccessRate())
}
