// Package auth authenticates bearer credentials to owner identities. A
// credential is either a federated identity token or a long-lived API key,
// disambiguated syntactically: identity tokens are dot-delimited, API keys
// are flat opaque strings.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnauthorized is the single rejection for every credential failure:
// missing header, malformed header, failed verification, or unknown key. The
// caller cannot tell these apart, matching the resolver contract.
var ErrUnauthorized = errors.New("invalid JWT or API key")

// Resolver authenticates an authorization header to an owner identity.
type Resolver struct {
	verifier TokenVerifier
	keys     KeyRepository
	now      func() time.Time
	logger   *zap.Logger
}

// NewResolver creates a credential resolver.
func NewResolver(verifier TokenVerifier, keys KeyRepository, logger *zap.Logger) *Resolver {
	return &Resolver{
		verifier: verifier,
		keys:     keys,
		now:      time.Now,
		logger:   logger,
	}
}

// Resolve authenticates the bearer credential in an Authorization header
// value and returns the owner identity it belongs to. All failure modes
// collapse to ErrUnauthorized.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (string, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return "", ErrUnauthorized
	}

	if strings.Contains(token, ".") {
		subject, err := r.verifier.Verify(token)
		if err != nil {
			r.logger.Debug("identity token rejected", zap.Error(err))

			return "", ErrUnauthorized
		}

		return subject, nil
	}

	return r.resolveKey(ctx, token)
}

func (r *Resolver) resolveKey(ctx context.Context, token string) (string, error) {
	key, err := r.keys.GetByHash(ctx, HashKey(token))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Error("api key lookup failed", zap.Error(err))
		}

		return "", ErrUnauthorized
	}

	// Usage stamping is best effort; a failed stamp must not reject a valid
	// credential.
	if err := r.keys.StampLastUsed(ctx, key.ID, r.now()); err != nil {
		r.logger.Error("failed to stamp api key usage",
			zap.String("owner", key.Owner),
			zap.Error(err),
		)
	}

	return key.Owner, nil
}

// HashKey produces the stored form of an API key secret.
func HashKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return hex.EncodeToString(sum[:])
}

func bearerToken(authorization string) (string, bool) {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
