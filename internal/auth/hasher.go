// Package auth implements account registration, login checks and the
// credential hashing schemes behind them.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kotoba-school/kotoba/internal/config"
)

// Hasher turns plaintext passwords into storable digests and verifies
// login attempts against them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// NewHasher returns the hasher for a configured scheme name. Unknown
// schemes fall back to sha256 so existing accounts keep working.
func NewHasher(scheme string) Hasher {
	switch scheme {
	case config.HashSchemeBcrypt:
		return &BcryptHasher{Cost: bcrypt.DefaultCost}
	case config.HashSchemeSHA256:
		return &SHA256Hasher{}
	default:
		return &SHA256Hasher{}
	}
}

// SHA256Hasher produces unsalted hex digests. It matches the digests of
// accounts imported from the previous site, so those users can still log
// in without a password reset.
type SHA256Hasher struct{}

func (h *SHA256Hasher) Hash(plain string) (string, error) {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

func (h *SHA256Hasher) Verify(plain, digest string) bool {
	sum := sha256.Sum256([]byte(plain))
	candidate := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// BcryptHasher is the opt-in scheme for fresh deployments without
// imported accounts. Digests are salted and cost-tunable.
type BcryptHasher struct {
	Cost int
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
