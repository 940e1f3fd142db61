package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pokeguess/internal/db"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	sqlDB, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewUsers(sqlDB)
}

func TestUsers_CreateAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  misty ", "starmie99")
	require.NoError(t, err)
	assert.Equal(t, "misty", u.Username)
	assert.Len(t, u.ID, 22)

	_, err = users.Create(ctx, "MISTY", "starmie99")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	for _, bad := range [][2]string{{"ab", "longenough"}, {"no spaces", "longenough"}, {"brock", "short"}} {
		_, err := users.Create(ctx, bad[0], bad[1])
		assert.Error(t, err, bad[0])
	}

	got, err := users.Authenticate(ctx, "Misty", "starmie99")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "misty", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "starmie99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsers_RecordGame(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "brock", "onix12345")
	require.NoError(t, err)

	require.NoError(t, users.RecordGame(ctx, u.ID, true))
	require.NoError(t, users.RecordGame(ctx, u.ID, false))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 1, got.Guessed)
}

func TestSessions_Middleware(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "erika", "tangela88")
	require.NoError(t, err)
	sessions := NewSessions(users, "secret", time.Hour, "tok", false)

	tok, exp, err := sessions.Sign(u)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	var seen *User
	protected := sessions.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)

	// A token signed with another secret is rejected.
	other := NewSessions(users, "other", time.Hour, "tok", false)
	forged, _, err := other.Sign(u)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "tok", Value: forged})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Optional never rejects; the user is only set for a valid token.
	seen = nil
	optional := sessions.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "tok", Value: forged})
	rec = httptest.NewRecorder()
	optional.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestSessions_AnonymousID(t *testing.T) {
	sessions := NewSessions(nil, "secret", time.Hour, "tok", false)

	rec := httptest.NewRecorder()
	id := sessions.AnonymousID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, id)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, id, cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	assert.Equal(t, id, sessions.AnonymousID(rec, req))
	assert.Empty(t, rec.Result().Cookies())
}
