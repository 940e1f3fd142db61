// internal/daily/daily.go
//
// Daily mode: everybody playing on the same UTC day gets the same
// question sequence for the same answers.
//
// The engine's top-K tie-break normally draws from the process-wide random
// source; daily games instead seed it from HMAC(salt, date|step), so the
// pick at each step is reproducible without any server-side session.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ValidDateKey reports whether s is a YYYY-MM-DD date.
func ValidDateKey(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Seed derives a deterministic seed for one step of a daily game.
func Seed(date, salt string, step int) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(step)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64
	return binary.BigEndian.Uint64(sum[:8])
}

// Rand returns the random source for one step of a daily game.
func Rand(date, salt string, step int) *rand.Rand {
	seed := Seed(date, salt, step)
	return rand.New(rand.NewPCG(seed, ^seed))
}
