package nexus

import "errors"

var (
	// ErrNotFound is returned when no record exists for a short code.
	ErrNotFound = errors.New("nexus not found")

	// ErrCodeTaken is returned when a create collides with a live record.
	ErrCodeTaken = errors.New("shortened URL already taken")

	// ErrCodeExhausted is returned when the bounded generate-and-insert loop
	// fails to find a free code.
	ErrCodeExhausted = errors.New("could not allocate a free short code")

	// ErrInactive, ErrTooEarly, and ErrExpired are lifecycle rejections
	// produced by the expiry evaluator.
	ErrInactive = errors.New("nexus is inactive")
	ErrTooEarly = errors.New("nexus not yet visitable")
	ErrExpired  = errors.New("nexus expired")

	// ErrPasswordRequired is returned when resolving a protected record
	// without supplying a password.
	ErrPasswordRequired = errors.New("password required")

	// ErrPasswordIncorrect is returned on a clean password mismatch.
	ErrPasswordIncorrect = errors.New("incorrect password")

	// ErrNotOwner is returned when a mutation is attempted by an identity
	// other than the record owner.
	ErrNotOwner = errors.New("not the owner of this nexus")
)
