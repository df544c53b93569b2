package nexus

import "time"

// Decision is the outcome of evaluating a record's accessibility.
type Decision int

const (
	// DecisionAllowed means the record is currently accessible.
	DecisionAllowed Decision = iota
	// DecisionInactive means the record's status forbids access.
	DecisionInactive
	// DecisionTooEarly means a static window has not opened yet.
	DecisionTooEarly
	// DecisionExpired means the record's validity window has passed. The
	// caller must attempt the lazy flip to INACTIVE.
	DecisionExpired
)

// Err maps a rejection to its sentinel error. Allowed maps to nil.
func (d Decision) Err() error {
	switch d {
	case DecisionInactive:
		return ErrInactive
	case DecisionTooEarly:
		return ErrTooEarly
	case DecisionExpired:
		return ErrExpired
	}

	return nil
}

// Evaluate computes whether a record is accessible at the given instant.
// Pure and deterministic: no clock reads, no side effects.
//
// INACTIVE takes precedence over every expiry variant. A DYNAMIC window
// slides from the last visit, or from creation if never visited. A STATIC
// window is a fixed start/end pair. ENDLESS is always accessible. ARCHIVED
// is a management state and is not rejected here.
func Evaluate(n *Nexus, now time.Time) Decision {
	if n.Status == StatusInactive {
		return DecisionInactive
	}

	switch n.Expiry.Type {
	case ExpiryDynamic:
		anchor := n.CreatedAt
		if n.LastVisited != nil {
			anchor = *n.LastVisited
		}

		validUntil := anchor.Add(n.Expiry.Value.Duration())
		if now.After(validUntil) {
			return DecisionExpired
		}

	case ExpiryStatic:
		if now.Before(n.Expiry.Start.Time()) {
			return DecisionTooEarly
		}

		if now.After(n.Expiry.End.Time()) {
			return DecisionExpired
		}

	case ExpiryEndless:
		// No temporal bound.
	}

	return DecisionAllowed
}
