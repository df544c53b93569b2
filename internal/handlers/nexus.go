package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/nexus/internal/analytics"
	"github.com/serroba/nexus/internal/auth"
	"github.com/serroba/nexus/internal/messaging"
	"github.com/serroba/nexus/internal/nexus"
	"go.uber.org/zap"
)

// NexusHandler exposes the nexus lifecycle operations over HTTP.
type NexusHandler struct {
	service        *nexus.Service
	resolver       *auth.Resolver
	baseURL        string
	publishCreated messaging.Publish[analytics.NexusCreatedEvent]
	publishVisited messaging.Publish[analytics.NexusVisitedEvent]
	logger         *zap.Logger
}

// NewNexusHandler creates a nexus handler with injected collaborators.
func NewNexusHandler(
	service *nexus.Service,
	resolver *auth.Resolver,
	baseURL string,
	publishCreated messaging.Publish[analytics.NexusCreatedEvent],
	publishVisited messaging.Publish[analytics.NexusVisitedEvent],
	logger *zap.Logger,
) *NexusHandler {
	return &NexusHandler{
		service:        service,
		resolver:       resolver,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishVisited: publishVisited,
		logger:         logger,
	}
}

// CreateNexus creates a record. A resolvable credential binds the record to
// its owner; no credential, or one that does not resolve, creates it
// anonymously.
func (h *NexusHandler) CreateNexus(ctx context.Context, req *CreateNexusRequest) (*CreateNexusResponse, error) {
	var owner *string

	if req.Authorization != "" {
		if identity, err := h.resolver.Resolve(ctx, req.Authorization); err == nil {
			owner = &identity
		}
	}

	n, err := h.service.Create(ctx, payloadToDomain(&req.Body), owner)
	if err != nil {
		return nil, h.mapError(err, "create")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.NexusCreatedEvent{
		Code:       n.Shortened,
		Owned:      n.Owner != nil,
		Protected:  n.Protected(),
		ExpiryType: string(n.Expiry.Type),
		CreatedAt:  n.CreatedAt,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateNexusResponse{Body: recordFromDomain(n)}
	resp.Headers.Location = fmt.Sprintf("%s/%s", h.baseURL, n.Shortened)

	return resp, nil
}

// GetNexus resolves a record without a password. Protected records reject
// with password-required; the destination is never revealed on a rejection.
func (h *NexusHandler) GetNexus(ctx context.Context, req *GetNexusRequest) (*NexusResponse, error) {
	return h.visit(ctx, req.ID, nil)
}

// VisitNexus resolves a record, checking a supplied password against the
// stored hash when the record is protected.
func (h *NexusHandler) VisitNexus(ctx context.Context, req *VisitNexusRequest) (*NexusResponse, error) {
	return h.visit(ctx, req.ID, req.Body.Password)
}

func (h *NexusHandler) visit(ctx context.Context, code string, password *string) (*NexusResponse, error) {
	n, err := h.service.Visit(ctx, code, password)
	if err != nil {
		return nil, h.mapError(err, "visit")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.NexusVisitedEvent{
		Code:      n.Shortened,
		VisitedAt: *n.LastVisited,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visited event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &NexusResponse{Body: recordFromDomain(n)}, nil
}

// UpdateNexus merges a partial payload over a record owned by the caller.
func (h *NexusHandler) UpdateNexus(ctx context.Context, req *UpdateNexusRequest) (*NexusResponse, error) {
	owner, err := h.resolver.Resolve(ctx, req.Authorization)
	if err != nil {
		return nil, h.mapError(err, "update")
	}

	n, err := h.service.Update(ctx, req.ID, payloadToDomain(&req.Body), owner)
	if err != nil {
		return nil, h.mapError(err, "update")
	}

	return &NexusResponse{Body: recordFromDomain(n)}, nil
}

// DeleteNexus removes a record owned by the caller.
func (h *NexusHandler) DeleteNexus(ctx context.Context, req *DeleteNexusRequest) (*DeleteNexusResponse, error) {
	owner, err := h.resolver.Resolve(ctx, req.Authorization)
	if err != nil {
		return nil, h.mapError(err, "delete")
	}

	if err := h.service.Delete(ctx, req.ID, owner); err != nil {
		return nil, h.mapError(err, "delete")
	}

	resp := &DeleteNexusResponse{}
	resp.Body.Message = "Nexus successfully deleted"

	return resp, nil
}

// mapError translates domain errors into HTTP rejections. Validation and
// lifecycle errors pass through with their reason; storage and hashing
// failures are logged with context and mapped to a generic message.
func (h *NexusHandler) mapError(err error, op string) error {
	var verr *nexus.ValidationError
	if errors.As(err, &verr) {
		return huma.Error400BadRequest(verr.Reason)
	}

	switch {
	case errors.Is(err, nexus.ErrCodeTaken):
		return huma.Error400BadRequest("Shortened URL already taken")
	case errors.Is(err, nexus.ErrNotFound):
		return huma.Error404NotFound("Nexus not found")
	case errors.Is(err, nexus.ErrInactive):
		return huma.Error404NotFound("Nexus is inactive")
	case errors.Is(err, nexus.ErrExpired):
		return huma.Error401Unauthorized("Nexus expired")
	case errors.Is(err, nexus.ErrTooEarly):
		return huma.Error401Unauthorized("Too early")
	case errors.Is(err, nexus.ErrPasswordRequired):
		return huma.Error401Unauthorized("Password required")
	case errors.Is(err, nexus.ErrPasswordIncorrect):
		return huma.Error401Unauthorized("Incorrect password")
	case errors.Is(err, nexus.ErrNotOwner):
		return huma.Error401Unauthorized("You are not the owner of this nexus")
	case errors.Is(err, auth.ErrUnauthorized):
		return huma.Error401Unauthorized("Invalid JWT or API key")
	}

	h.logger.Error("operation failed",
		zap.String("op", op),
		zap.Error(err),
	)

	return huma.Error500InternalServerError("Something went wrong")
}
