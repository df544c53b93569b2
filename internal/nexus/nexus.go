package nexus

import (
	"math"
	"time"
)

// Status is the lifecycle state of a nexus record.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}

	return false
}

// ExpiryType selects which expiry variant a record carries.
type ExpiryType string

const (
	ExpiryDynamic ExpiryType = "DYNAMIC"
	ExpiryStatic  ExpiryType = "STATIC"
	ExpiryEndless ExpiryType = "ENDLESS"
)

// ValidExpiryType reports whether t is a recognized expiry variant.
func ValidExpiryType(t ExpiryType) bool {
	switch t {
	case ExpiryDynamic, ExpiryStatic, ExpiryEndless:
		return true
	}

	return false
}

// Timestamp is the wire form of an instant or duration: a seconds/nanoseconds
// pair. Untrusted layers never see native time values.
type Timestamp struct {
	Seconds     int64 `doc:"Seconds component"     json:"seconds"`
	Nanoseconds int32 `doc:"Nanoseconds component" json:"nanoseconds"`
}

// Time converts a Timestamp holding an absolute instant to time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds))
}

// MaxDurationSeconds is the largest seconds component a duration Timestamp
// may carry without overflowing time.Duration.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// Duration converts a Timestamp holding a duration to time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Seconds)*time.Second + time.Duration(t.Nanoseconds)
}

// ValidDuration reports whether the Timestamp is usable as a sliding-window
// duration: non-negative components with a seconds value that still fits in
// time.Duration.
func (t Timestamp) ValidDuration() bool {
	return t.Seconds >= 0 && t.Nanoseconds >= 0 && t.Seconds <= MaxDurationSeconds
}

// TimestampOf converts a time.Time to its wire form.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int32(t.Nanosecond()),
	}
}

// Expiry is a tagged union: exactly the payload selected by Type is set.
// Value carries the sliding-window duration for DYNAMIC; Start and End carry
// the absolute window for STATIC; ENDLESS has no payload.
type Expiry struct {
	Type  ExpiryType `doc:"Expiry variant" enum:"DYNAMIC,STATIC,ENDLESS" json:"type"`
	Value *Timestamp `doc:"Sliding window duration (DYNAMIC only)"       json:"value,omitempty"`
	Start *Timestamp `doc:"Window start instant (STATIC only)"           json:"start,omitempty"`
	End   *Timestamp `doc:"Window end instant (STATIC only)"             json:"end,omitempty"`
}

// DynamicExpiry builds a DYNAMIC expiry with the given sliding window.
func DynamicExpiry(value Timestamp) Expiry {
	return Expiry{Type: ExpiryDynamic, Value: &value}
}

// StaticExpiry builds a STATIC expiry with the given absolute window.
func StaticExpiry(start, end Timestamp) Expiry {
	return Expiry{Type: ExpiryStatic, Start: &start, End: &end}
}

// EndlessExpiry builds an ENDLESS expiry.
func EndlessExpiry() Expiry {
	return Expiry{Type: ExpiryEndless}
}

// Nexus is a short-link record: a short key mapped to a destination URL plus
// lifecycle and protection metadata. Password, when non-nil, is always a
// bcrypt hash, never plaintext.
type Nexus struct {
	Owner       *string    // nil for anonymously created records
	Destination string
	Shortened   string
	Status      Status
	Expiry      Expiry
	Password    *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	LastVisited *time.Time
}

// OwnedBy reports whether the record is owned by the given identity.
// Anonymous records are owned by nobody.
func (n *Nexus) OwnedBy(owner string) bool {
	return n.Owner != nil && *n.Owner == owner
}

// Protected reports whether the record requires a password to resolve.
func (n *Nexus) Protected() bool {
	return n.Password != nil
}
