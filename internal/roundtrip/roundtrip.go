// internal/roundtrip/roundtrip.go
//
// Signed game state carried between stateless requests.
//
// The server keeps no session: every question response embeds the game's
// Snapshot plus the pending question ID in an HS256 JWT. The next request
// hands the token back and the engine rebuilds the game from it. The
// signature stops clients from editing the candidate set or history; an
// expired or altered token means the game must be restarted.

package roundtrip

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/pokeguess/internal/game"
)

// ErrInvalidToken is returned for any token that cannot be trusted.
var ErrInvalidToken = errors.New("roundtrip: invalid state token")

const issuer = "pokeguess"

// State is everything a game needs between two requests.
type State struct {
	GameID   string        `json:"gid"`
	Snapshot game.Snapshot `json:"state"`
	Pending  string        `json:"q"`               // question awaiting an answer
	Daily    string        `json:"daily,omitempty"` // date key for daily games
}

type claims struct {
	State
	jwt.RegisteredClaims
}

// Signer issues and verifies state tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer using an HMAC secret. A zero ttl means tokens
// never expire.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewGameID returns a fresh game identifier.
func NewGameID() string { return uuid.NewString() }

// Sign encodes st into a token.
func (s *Signer) Sign(st State) (string, error) {
	if st.GameID == "" {
		st.GameID = NewGameID()
	}
	now := s.now()
	c := claims{
		State: st,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("roundtrip: sign: %w", err)
	}
	return tok, nil
}

// Parse verifies a token and returns the state inside.
func (s *Signer) Parse(token string) (State, error) {
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.GameID == "" || c.Pending == "" {
		return State{}, fmt.Errorf("%w: incomplete state", ErrInvalidToken)
	}
	return c.State, nil
}
