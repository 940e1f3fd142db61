// internal/auth/session.go
//
// JWT session cookies and request middleware.
//   - Optional: decorates requests with the user when a valid token is present.
//   - Require:  rejects requests without a valid token (401).
//   - AnonymousID: stable guest identifier cookie.

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const anonCookieName = "pokeguess_anon"

// Sessions signs and checks session tokens.
type Sessions struct {
	users      *Users
	secret     []byte
	expiry     time.Duration
	cookieName string
	secure     bool
}

// NewSessions configures session handling. secure marks cookies Secure and
// SameSite=None (production behind HTTPS). users may be nil when the server
// runs without a database: every request is then a guest.
func NewSessions(users *Users, secret string, expiry time.Duration, cookieName string, secure bool) *Sessions {
	return &Sessions{users: users, secret: []byte(secret), expiry: expiry, cookieName: cookieName, secure: secure}
}

func (s *Sessions) Users() *Users { return s.users }

type ctxUserKey struct{}

// CurrentUser returns the authenticated user placed in ctx by the middleware.
func CurrentUser(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}

// Sign creates an HS256 JWT with id/username.
func (s *Sessions) Sign(u *User) (string, time.Time, error) {
	exp := time.Now().Add(s.expiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// userFromToken validates a token and loads its user.
func (s *Sessions) userFromToken(ctx context.Context, tok string) (*User, bool) {
	if s.users == nil {
		return nil, false
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, false
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, false
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Optional decorates requests with the user if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Sessions) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if u, ok := s.userFromToken(r.Context(), tok); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Require enforces a valid JWT and injects the user into the request context.
func (s *Sessions) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		u, ok := s.userFromToken(r.Context(), tok)
		if !ok {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
	})
}

func (s *Sessions) sameSite() http.SameSite {
	if s.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// AnonymousID returns an existing anon cookie or sets a new one.
func (s *Sessions) AnonymousID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// bearerOrCookie extracts a bearer token from the Authorization header or auth cookie.
func (s *Sessions) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cookieName); err == nil {
		return c.Value
	}
	return ""
}
