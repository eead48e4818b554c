package utils

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds in bytes.  bcrypt reads at most 72.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// HashPassword returns bcrypt hash using the given cost.  A cost below
// bcrypt.MinCost falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(plain) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var (
	dummyMu     sync.Mutex
	dummyHashes = map[int]string{}
)

// DummyHash returns a hash of a throwaway password at the given cost,
// computed once per cost.  Verifying against it costs the same as a real
// check, for paths where no stored hash exists.
func DummyHash(cost int) string {
	dummyMu.Lock()
	defer dummyMu.Unlock()
	if h, ok := dummyHashes[cost]; ok {
		return h
	}
	h, err := HashPassword("no-such-user-password", cost)
	if err != nil {
		return ""
	}
	dummyHashes[cost] = h
	return h
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
