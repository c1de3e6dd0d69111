// Package password provides one-way credential hashing and verification
// backed by bcrypt. The produced hash embeds its own salt and cost, so
// verification needs no side channel.
package password

import (
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies plaintext passwords.
type Hasher struct {
	cost int
	log  zerolog.Logger
}

// NewHasher returns a Hasher with the given bcrypt cost. A cost outside
// bcrypt's valid range falls back to bcrypt.DefaultCost.
func NewHasher(cost int, log zerolog.Logger) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost, log: log}
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash. It never returns an error:
// a malformed hash is logged and treated as a verification failure so that
// hash-format details never reach callers.
func (h *Hasher) Verify(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true
	}
	if err != bcrypt.ErrMismatchedHashAndPassword {
		h.log.Error().Err(err).Msg("password verification failed")
	}
	return false
}
