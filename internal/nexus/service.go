package nexus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// maxGenerateAttempts bounds the generate-and-insert loop for auto codes.
// The code space at the default length is large enough that hitting this
// bound means something is wrong with the store, not bad luck.
const maxGenerateAttempts = 5

// SecretGate hashes and verifies link passwords.
type SecretGate interface {
	Hash(plaintext string) (string, error)
	Check(plaintext, hash string) (bool, error)
}

// Generate produces a fresh candidate short code per call.
type Generate func() string

// Service orchestrates validation, expiry evaluation, the password gate, and
// storage into the create/resolve/update/delete operations.
type Service struct {
	repo     Repository
	gate     SecretGate
	generate Generate
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a nexus service with injected collaborators.
func NewService(repo Repository, gate SecretGate, generate Generate, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		generate: generate,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the service clock. Tests use this to pin time.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

// Create validates the payload and stores a new record. Owner may be nil for
// anonymous creation. A caller-supplied code that collides with a live record
// fails with ErrCodeTaken; an omitted code is generated with a bounded
// check-and-retry loop.
func (s *Service) Create(ctx context.Context, p *Payload, owner *string) (*Nexus, error) {
	if verr := Validate(p, ModeCreate); verr != nil {
		return nil, verr
	}

	p = Sanitize(p, ModeCreate)

	n := &Nexus{
		Owner:       owner,
		Destination: *p.Destination,
		Status:      StatusActive,
		Expiry:      *p.Expiry,
		CreatedAt:   s.now(),
	}

	if p.Password != nil {
		hash, err := s.gate.Hash(*p.Password)
		if err != nil {
			return nil, err
		}

		n.Password = &hash
	}

	if p.Shortened != nil {
		n.Shortened = *p.Shortened

		if err := s.repo.Create(ctx, n); err != nil {
			return nil, err
		}

		return n, nil
	}

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		n.Shortened = s.generate()

		err := s.repo.Create(ctx, n)
		if err == nil {
			return n, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}

		s.logger.Warn("generated code collided",
			zap.String("code", n.Shortened),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrCodeExhausted, maxGenerateAttempts)
}

// Visit resolves a short code to its record. Lifecycle rejections come back
// as ErrInactive, ErrTooEarly, or ErrExpired; a protected record requires the
// correct password. On success the record's lastVisited stamp is refreshed,
// which slides a dynamic window forward.
func (s *Service) Visit(ctx context.Context, code string, password *string) (*Nexus, error) {
	n, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if d := Evaluate(n, now); d != DecisionAllowed {
		if d == DecisionExpired {
			s.deactivate(ctx, code)
		}

		return nil, d.Err()
	}

	if n.Protected() {
		if password == nil {
			return nil, ErrPasswordRequired
		}

		matched, err := s.gate.Check(*password, *n.Password)
		if err != nil {
			return nil, err
		}

		if !matched {
			return nil, ErrPasswordIncorrect
		}
	}

	if err := s.repo.SetLastVisited(ctx, code, now); err != nil {
		return nil, err
	}

	n.LastVisited = &now

	return n, nil
}

// deactivate is the lazy, visit-triggered expiry transition. Best effort: a
// failed write is logged and must not change the rejection returned to the
// caller.
func (s *Service) deactivate(ctx context.Context, code string) {
	if err := s.repo.SetStatusIf(ctx, code, StatusActive, StatusInactive); err != nil {
		s.logger.Error("failed to deactivate expired nexus",
			zap.String("code", code),
			zap.Error(err),
		)
	}
}

// Update merges a validated partial payload over an existing record. Only the
// record owner may update; a supplied password is hashed before storage.
func (s *Service) Update(ctx context.Context, code string, p *Payload, owner string) (*Nexus, error) {
	n, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !n.OwnedBy(owner) {
		return nil, ErrNotOwner
	}

	if verr := Validate(p, ModeUpdate); verr != nil {
		return nil, verr
	}

	p = Sanitize(p, ModeUpdate)

	if p.Destination != nil {
		n.Destination = *p.Destination
	}

	if p.Shortened != nil {
		n.Shortened = *p.Shortened
	}

	if p.Status != nil {
		n.Status = *p.Status
	}

	if p.Expiry != nil {
		n.Expiry = *p.Expiry
	}

	if p.Password != nil {
		hash, err := s.gate.Hash(*p.Password)
		if err != nil {
			return nil, err
		}

		n.Password = &hash
	}

	now := s.now()
	n.UpdatedAt = &now

	if err := s.repo.Save(ctx, code, n); err != nil {
		return nil, err
	}

	return n, nil
}

// Delete removes a record. Only the record owner may delete.
func (s *Service) Delete(ctx context.Context, code string, owner string) error {
	n, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if !n.OwnedBy(owner) {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, code)
}
