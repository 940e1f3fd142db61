package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/db"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, "2024-03-10", DateKey(ts))
	assert.True(t, ValidDateKey("2024-03-10"))
	assert.False(t, ValidDateKey("10/03/2024"))
}

func TestSeed_Deterministic(t *testing.T) {
	a := Seed("2024-03-10", "salt", 0)
	assert.Equal(t, a, Seed("2024-03-10", "salt", 0))
	assert.NotEqual(t, a, Seed("2024-03-10", "salt", 1))
	assert.NotEqual(t, a, Seed("2024-03-11", "salt", 0))
	assert.NotEqual(t, a, Seed("2024-03-10", "pepper", 0))

	r1, r2 := Rand("2024-03-10", "salt", 4), Rand("2024-03-10", "salt", 4)
	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.IntN(1000), r2.IntN(1000))
	}
}

func TestStore_Leaderboard(t *testing.T) {
	sqlDB, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	ctx := context.Background()
	st := NewStore(sqlDB)
	date := "2024-03-10"

	played, err := st.AlreadyPlayed(ctx, "ash", date)
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{OwnerID: "ash", Date: date, PokemonNum: 25, Questions: 5}))
	require.NoError(t, st.InsertResult(ctx, Result{OwnerID: "misty", Date: date, PokemonNum: 7, Questions: 8}))
	require.NoError(t, st.InsertResult(ctx, Result{OwnerID: "ash", Date: date, PokemonNum: 1, Questions: 30}))
	require.NoError(t, st.InsertResult(ctx, Result{OwnerID: "brock", Date: "2024-03-09", PokemonNum: 1, Questions: 12}))

	played, err = st.AlreadyPlayed(ctx, "ash", date)
	require.NoError(t, err)
	assert.True(t, played)

	top, err := st.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{{OwnerID: "misty", Questions: 8}, {OwnerID: "ash", Questions: 5}}, top)
}
