// Package secret hashes and verifies link passwords with bcrypt. An adaptive
// hash with a per-hash embedded salt keeps stored secrets one-way from the
// moment of storage onward.
package secret

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for all new hashes.
const Cost = 10

// Gate verifies visitor-supplied secrets against stored hashes.
type Gate struct{}

// NewGate creates a password gate.
func NewGate() *Gate {
	return &Gate{}
}

// Hash produces a salted one-way hash of the plaintext.
func (g *Gate) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// Check compares a plaintext against a stored hash. A clean mismatch returns
// (false, nil); a non-nil error means the comparison itself failed, e.g. the
// stored value is not a valid hash, which callers must surface as operational
// trouble rather than a wrong password.
func (g *Gate) Check(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("comparing password hash: %w", err)
}
