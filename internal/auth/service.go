package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KeyGenerate produces a fresh API key secret per call.
type KeyGenerate func() string

// KeyService issues and rotates API keys.
type KeyService struct {
	keys     KeyRepository
	generate KeyGenerate
	now      func() time.Time
}

// NewKeyService creates an API key service.
func NewKeyService(keys KeyRepository, generate KeyGenerate) *KeyService {
	return &KeyService{
		keys:     keys,
		generate: generate,
		now:      time.Now,
	}
}

// Issue creates a new API key for the owner, replacing any existing one. The
// returned plaintext secret is shown exactly once; only its hash is retained.
func (s *KeyService) Issue(ctx context.Context, owner string) (string, error) {
	secret := s.generate()

	key := &APIKey{
		ID:        uuid.NewString(),
		Owner:     owner,
		Key:       HashKey(secret),
		CreatedAt: s.now(),
	}

	if err := s.keys.Upsert(ctx, key); err != nil {
		return "", err
	}

	return secret, nil
}
