package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/nexus/internal/auth"
	"go.uber.org/zap"
)

// KeyHandler exposes API key issuing over HTTP.
type KeyHandler struct {
	resolver *auth.Resolver
	keys     *auth.KeyService
	logger   *zap.Logger
}

// NewKeyHandler creates an API key handler.
func NewKeyHandler(resolver *auth.Resolver, keys *auth.KeyService, logger *zap.Logger) *KeyHandler {
	return &KeyHandler{
		resolver: resolver,
		keys:     keys,
		logger:   logger,
	}
}

// IssueKey issues a fresh API key for the authenticated caller, replacing
// any existing key. The plaintext is returned exactly once.
func (h *KeyHandler) IssueKey(ctx context.Context, req *IssueKeyRequest) (*IssueKeyResponse, error) {
	owner, err := h.resolver.Resolve(ctx, req.Authorization)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid JWT or API key")
	}

	secret, err := h.keys.Issue(ctx, owner)
	if err != nil {
		h.logger.Error("failed to issue api key",
			zap.String("owner", owner),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("Error creating API key")
	}

	resp := &IssueKeyResponse{}
	resp.Body.Key = secret

	return resp, nil
}
