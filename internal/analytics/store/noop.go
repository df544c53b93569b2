package store

import (
	"context"

	"github.com/serroba/nexus/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveNexusCreated(_ context.Context, event *analytics.NexusCreatedEvent) error {
	n.logger.Info("nexus created event received",
		zap.String("code", event.Code),
		zap.String("expiryType", event.ExpiryType),
		zap.Bool("owned", event.Owned),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveNexusVisited(_ context.Context, event *analytics.NexusVisitedEvent) error {
	n.logger.Info("nexus visited event received",
		zap.String("code", event.Code),
		zap.Time("visitedAt", event.VisitedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
