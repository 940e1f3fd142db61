package game

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/catalog"
	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// mon builds a Pokémon with the given number and types and no weaknesses.
func mon(t *testing.T, num int, types ...string) pokemon.Pokemon {
	t.Helper()
	p, err := pokemon.New(pokemon.Record{
		Num:  strconv.Itoa(num),
		Name: "mon" + strconv.Itoa(num),
		Type: types,
	})
	require.NoError(t, err)
	return p
}

// scenario is the four-entry catalog used throughout the engine tests.
func scenario(t *testing.T) []pokemon.Pokemon {
	return []pokemon.Pokemon{
		mon(t, 1, "Fire"),
		mon(t, 2, "Water"),
		mon(t, 3, "Fire", "Flying"),
		mon(t, 4, "Grass"),
	}
}

func kanto(t *testing.T) []pokemon.Pokemon {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c.All()
}

func seeded(seed uint64) Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func nums(ps []pokemon.Pokemon) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Num()
	}
	return out
}
