package handlers

import "github.com/serroba/nexus/internal/nexus"

// ExpiryPayload is the wire form of the expiry union. Fields are loose on
// purpose: the schema validator owns the taxonomy and its first-error-wins
// order, so the transport layer must not reject shapes before it runs.
type ExpiryPayload struct {
	Type  string           `doc:"Expiry variant (DYNAMIC, STATIC, ENDLESS)" json:"type,omitempty"`
	Value *nexus.Timestamp `doc:"Sliding window duration (DYNAMIC)"         json:"value,omitempty"`
	Start *nexus.Timestamp `doc:"Window start instant (STATIC)"             json:"start,omitempty"`
	End   *nexus.Timestamp `doc:"Window end instant (STATIC)"               json:"end,omitempty"`
}

// NexusPayload is a partial record as supplied by a caller.
type NexusPayload struct {
	Destination *string        `doc:"Redirect target"            json:"destination,omitempty"`
	Shortened   *string        `doc:"Caller-supplied short code" json:"shortened,omitempty"`
	Status      *string        `doc:"Lifecycle status"           json:"status,omitempty"`
	Expiry      *ExpiryPayload `doc:"Expiry configuration"       json:"expiry,omitempty"`
	Password    *string        `doc:"Plaintext password"         json:"password,omitempty"`
}

// NexusRecord is the wire form of a stored record. The password hash is
// never serialized.
type NexusRecord struct {
	Owner       *string          `doc:"Owner identity, null if anonymous" json:"owner"`
	Destination string           `doc:"Redirect target"                   json:"destination"`
	Shortened   string           `doc:"Short code"                        json:"shortened"`
	Status      string           `doc:"Lifecycle status"                  json:"status"`
	Expiry      ExpiryPayload    `doc:"Expiry configuration"              json:"expiry"`
	Protected   bool             `doc:"Whether a password is required"    json:"protected"`
	CreatedAt   nexus.Timestamp  `doc:"Creation instant"                  json:"createdAt"`
	UpdatedAt   *nexus.Timestamp `doc:"Last owner update instant"         json:"updatedAt,omitempty"`
	LastVisited *nexus.Timestamp `doc:"Last successful resolution"        json:"lastVisited,omitempty"`
}

// CreateNexusRequest is the request for creating a record. The credential is
// optional: anonymous creation is permitted.
type CreateNexusRequest struct {
	Authorization string `doc:"Optional bearer credential" header:"Authorization" required:"false"`
	Body          NexusPayload
}

// CreateNexusResponse is the response for a successfully created record.
type CreateNexusResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body NexusRecord
}

// GetNexusRequest is the request for resolving a record without a password.
type GetNexusRequest struct {
	ID string `doc:"The short code" example:"promo" path:"id"`
}

// VisitNexusRequest is the request for resolving a record, optionally
// supplying the password of a protected record.
type VisitNexusRequest struct {
	ID   string `doc:"The short code" path:"id"`
	Body struct {
		Password *string `doc:"Plaintext password for protected records" json:"password,omitempty"`
	}
}

// NexusResponse wraps a resolved or mutated record.
type NexusResponse struct {
	Body NexusRecord
}

// UpdateNexusRequest is the request for an owner-initiated partial update.
type UpdateNexusRequest struct {
	ID            string `doc:"The short code"    path:"id"`
	Authorization string `doc:"Bearer credential" header:"Authorization" required:"false"`
	Body          NexusPayload
}

// DeleteNexusRequest is the request for an owner-initiated delete.
type DeleteNexusRequest struct {
	ID            string `doc:"The short code"    path:"id"`
	Authorization string `doc:"Bearer credential" header:"Authorization" required:"false"`
}

// DeleteNexusResponse confirms a delete.
type DeleteNexusResponse struct {
	Body struct {
		Message string `doc:"Confirmation message" json:"message"`
	}
}

// IssueKeyRequest is the request for issuing or rotating an API key.
type IssueKeyRequest struct {
	Authorization string `doc:"Bearer credential" header:"Authorization" required:"false"`
}

// IssueKeyResponse carries the plaintext key, shown exactly once.
type IssueKeyResponse struct {
	Body struct {
		Key string `doc:"The API key secret; only a hash is retained" json:"key"`
	}
}

func payloadToDomain(p *NexusPayload) *nexus.Payload {
	out := &nexus.Payload{
		Destination: p.Destination,
		Shortened:   p.Shortened,
		Password:    p.Password,
	}

	if p.Status != nil {
		status := nexus.Status(*p.Status)
		out.Status = &status
	}

	if p.Expiry != nil {
		out.Expiry = &nexus.Expiry{
			Type:  nexus.ExpiryType(p.Expiry.Type),
			Value: p.Expiry.Value,
			Start: p.Expiry.Start,
			End:   p.Expiry.End,
		}
	}

	return out
}

func recordFromDomain(n *nexus.Nexus) NexusRecord {
	rec := NexusRecord{
		Owner:       n.Owner,
		Destination: n.Destination,
		Shortened:   n.Shortened,
		Status:      string(n.Status),
		Protected:   n.Protected(),
		CreatedAt:   nexus.TimestampOf(n.CreatedAt),
		Expiry: ExpiryPayload{
			Type:  string(n.Expiry.Type),
			Value: n.Expiry.Value,
			Start: n.Expiry.Start,
			End:   n.Expiry.End,
		},
	}

	if n.UpdatedAt != nil {
		at := nexus.TimestampOf(*n.UpdatedAt)
		rec.UpdatedAt = &at
	}

	if n.LastVisited != nil {
		at := nexus.TimestampOf(*n.LastVisited)
		rec.LastVisited = &at
	}

	return rec
}
