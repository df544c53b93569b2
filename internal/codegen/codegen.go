// Package codegen produces short alphanumeric identifiers. Codes avoid
// collisions by being drawn from a large space, not by being secret; the
// caller is responsible for check-and-retry against the store.
package codegen

import "github.com/jaevor/go-nanoid"

// Alphabet is the 62-character alphanumeric code alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the length of auto-generated short codes. Caller-supplied
// codes may be any non-empty length.
const DefaultLength = 6

// KeyLength is the length of generated API key secrets.
const KeyLength = 32

// Generator produces a fresh identifier per call.
type Generator func() string

// New returns a generator producing codes of the given length.
func New(length int) (Generator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return Generator(gen), nil
}

// MustNew is New for lengths known to be valid at construction time.
func MustNew(length int) Generator {
	gen, err := New(length)
	if err != nil {
		panic(err)
	}

	return gen
}
