// Package analytics defines the events emitted by the nexus API and the
// store that the consumer persists them into. Publishing is fire-and-forget
// plumbing; there is no aggregation or query surface here.
package analytics

import "time"

// Topic names for the event stream.
const (
	TopicNexusCreated = "nexus.created"
	TopicNexusVisited = "nexus.visited"
)

// NexusCreatedEvent is emitted when a record is created.
type NexusCreatedEvent struct {
	Code       string    `json:"code"`
	Owned      bool      `json:"owned"`
	Protected  bool      `json:"protected"`
	ExpiryType string    `json:"expiryType"`
	CreatedAt  time.Time `json:"createdAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}

// NexusVisitedEvent is emitted on every successful resolution.
type NexusVisitedEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}
