package nexus

// Mode selects which validation rules apply to a payload.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Payload is a partial nexus record as supplied by a caller. Nil fields were
// not supplied. Password here is plaintext; the service hashes it before the
// record is stored.
type Payload struct {
	Destination *string
	Shortened   *string
	Status      *Status
	Expiry      *Expiry
	Password    *string
}

// ValidationError is a single first-matching rejection from the fixed
// taxonomy. Validation never aggregates: the first violation, in declared
// field order, wins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Rejection reasons, matching the field order they are checked in.
const (
	ReasonDestinationMissing  = "Missing destination"
	ReasonDestinationInvalid  = "Invalid destination"
	ReasonShortenedMissing    = "Missing shortened URL"
	ReasonStatusInvalid       = "Invalid nexus status"
	ReasonExpiryMissing       = "Missing expiry"
	ReasonExpiryTypeInvalid   = "Invalid expiry type"
	ReasonExpiryValueMissing  = "Missing expiry value"
	ReasonExpiryValueInvalid  = "Invalid expiry value"
	ReasonExpiryWindowMissing = "Missing expiry start/end"
	ReasonPasswordInvalid     = "Invalid password"
)

// Validate checks a partial payload against the rules for the given mode and
// returns a single rejection, or nil if the payload is acceptable. Checks run
// in fixed order (destination, shortened, status, expiry, password) and
// short-circuit on the first violation.
func Validate(p *Payload, mode Mode) *ValidationError {
	if err := validateDestination(p, mode); err != nil {
		return err
	}

	if err := validateShortened(p, mode); err != nil {
		return err
	}

	if p.Status != nil && !ValidStatus(*p.Status) {
		return &ValidationError{Field: "status", Reason: ReasonStatusInvalid}
	}

	if err := validateExpiry(p, mode); err != nil {
		return err
	}

	// Password is free-form; nil means untouched (update) or unprotected
	// (create). An empty string is not a usable secret.
	if p.Password != nil && *p.Password == "" {
		return &ValidationError{Field: "password", Reason: ReasonPasswordInvalid}
	}

	return nil
}

func validateDestination(p *Payload, mode Mode) *ValidationError {
	if p.Destination == nil {
		if mode == ModeCreate {
			return &ValidationError{Field: "destination", Reason: ReasonDestinationMissing}
		}

		return nil
	}

	if *p.Destination == "" {
		return &ValidationError{Field: "destination", Reason: ReasonDestinationInvalid}
	}

	return nil
}

func validateShortened(p *Payload, mode Mode) *ValidationError {
	// Renaming to an empty code is rejected; on create an empty code means
	// "generate one for me" and is pruned by the service.
	if mode == ModeUpdate && p.Shortened != nil && *p.Shortened == "" {
		return &ValidationError{Field: "shortened", Reason: ReasonShortenedMissing}
	}

	return nil
}

func validateExpiry(p *Payload, mode Mode) *ValidationError {
	if p.Expiry == nil {
		if mode == ModeCreate {
			return &ValidationError{Field: "expiry", Reason: ReasonExpiryMissing}
		}

		return nil
	}

	e := p.Expiry

	if !ValidExpiryType(e.Type) {
		return &ValidationError{Field: "expiry", Reason: ReasonExpiryTypeInvalid}
	}

	switch e.Type {
	case ExpiryDynamic:
		if e.Value == nil {
			return &ValidationError{Field: "expiry", Reason: ReasonExpiryValueMissing}
		}

		if !e.Value.ValidDuration() {
			return &ValidationError{Field: "expiry", Reason: ReasonExpiryValueInvalid}
		}
	case ExpiryStatic:
		if e.Start == nil || e.End == nil {
			return &ValidationError{Field: "expiry", Reason: ReasonExpiryWindowMissing}
		}
	case ExpiryEndless:
		// No payload.
	}

	return nil
}

// Sanitize returns a copy of the payload with only usable fields retained:
// empty shortened codes are pruned on create, and expiry payloads not
// selected by the variant tag are dropped. Validate must have accepted the
// payload first.
func Sanitize(p *Payload, mode Mode) *Payload {
	out := *p

	if mode == ModeCreate && out.Shortened != nil && *out.Shortened == "" {
		out.Shortened = nil
	}

	if out.Expiry != nil {
		e := *out.Expiry

		switch e.Type {
		case ExpiryDynamic:
			e.Start, e.End = nil, nil
		case ExpiryStatic:
			e.Value = nil
		case ExpiryEndless:
			e.Value, e.Start, e.End = nil, nil, nil
		}

		out.Expiry = &e
	}

	return &out
}
