package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 40, c.Len())

	all := c.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Num(), all[i].Num(), "catalog must be sorted by number")
	}

	p, ok := c.ByNumber(6)
	require.True(t, ok)
	assert.Equal(t, "Charizard", p.Name())
	assert.True(t, p.EvolvesFrom())
	assert.False(t, p.EvolvesInto())
	assert.Equal(t, []string{"Fire", "Flying"}, p.Types())

	_, ok = c.ByNumber(151)
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pokemon":[
		{"num":"002","name":"Ivysaur","type":["Grass","Poison"]},
		{"num":"001","name":"Bulbasaur","type":["Grass","Poison"],"next_evolution":[{"num":"002","name":"Ivysaur"}]}
	]}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.All()[0].Num())
	assert.True(t, c.All()[0].EvolvesInto())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"pokemon":[{"name":"MissingNo","type":["Bird"]}]}`))
	assert.ErrorIs(t, err, pokemon.ErrMissingNumber)

	_, err = Parse([]byte(`{"pokemon":[
		{"num":"1","name":"A","type":["Fire"]},
		{"num":"001","name":"B","type":["Water"]}
	]}`))
	assert.ErrorIs(t, err, ErrDuplicateNumber)

	_, err = Parse([]byte(`{"pokemon":[]}`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
