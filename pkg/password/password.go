// Package password wraps bcrypt for credential hashing. bcrypt generates a
// fresh random salt on every call and CompareHashAndPassword re-derives the
// hash in constant time, so two equal plaintexts never share a stored hash.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// saltPrefixLen is the length of the "$2a$NN$<22-char-salt>" prefix of a
// bcrypt hash. The credential schema stores it in its own column.
const saltPrefixLen = 29

// ErrInvalidCost marks a cost outside bcrypt's supported range.
var ErrInvalidCost = errors.New("password: cost out of range")

// Hasher hashes and verifies passwords with a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher. A cost of 0 selects DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidCost
	}
	return &Hasher{cost: cost}, nil
}

// Hash derives a bcrypt hash from plain with a fresh random salt and returns
// the hash plus its salt prefix.
func (h *Hasher) Hash(plain string) (hash, salt string, err error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", "", err
	}
	s := string(b)
	if len(s) < saltPrefixLen {
		return "", "", errors.New("password: unexpected hash length")
	}
	return s, s[:saltPrefixLen], nil
}

// Verify reports whether plain matches hash. It fails closed: a malformed
// stored hash or any other internal error yields false, never a panic.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
