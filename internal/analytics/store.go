package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveNexusCreated(ctx context.Context, event *NexusCreatedEvent) error
	SaveNexusVisited(ctx context.Context, event *NexusVisitedEvent) error
}
