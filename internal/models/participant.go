package models

import (
	"errors"
	"strings"
)

// ErrNotAPair is returned when a Pair cannot be built from the given
// identities (missing, duplicated, or more/fewer than two).
var ErrNotAPair = errors.New("a pair requires exactly two distinct participants")

// Participant is one of the two people sharing the ledger, identified by
// a stable email address.
type Participant struct {
	// Email is the stable identity of the participant.
	Email string `json:"email"`

	// DisplayName is the human-readable name shown in the UI.
	DisplayName string `json:"display_name"`

	// Photo is an avatar URL. May be empty.
	Photo string `json:"photo,omitempty"`
}

// Pair is the fixed two-person allow-list of a ledger instance.
//
// The ledger engine's zero-sum invariant depends on there being exactly two
// participants, so Pair is constructed through NewPair and never grows.
type Pair struct {
	A Participant `json:"a"`
	B Participant `json:"b"`
}

// NewPair builds a Pair from two participant emails.
// Both must be non-empty and distinct (case-insensitive).
func NewPair(a, b string) (Pair, error) {
	a = NormalizeEmail(a)
	b = NormalizeEmail(b)
	if a == "" || b == "" || a == b {
		return Pair{}, ErrNotAPair
	}
	return Pair{A: Participant{Email: a}, B: Participant{Email: b}}, nil
}

// ParsePair builds a Pair from a comma-separated email list, e.g. the
// PAIR_EMAILS environment variable.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Pair{}, ErrNotAPair
	}
	return NewPair(parts[0], parts[1])
}

// Contains reports whether email identifies one of the two participants.
func (p Pair) Contains(email string) bool {
	email = NormalizeEmail(email)
	return email != "" && (email == p.A.Email || email == p.B.Email)
}

// Other returns the participant opposite to email.
// ok is false when email is not part of the pair.
func (p Pair) Other(email string) (Participant, bool) {
	switch NormalizeEmail(email) {
	case p.A.Email:
		return p.B, true
	case p.B.Email:
		return p.A, true
	default:
		return Participant{}, false
	}
}

// Emails returns both participant emails in configuration order.
func (p Pair) Emails() [2]string {
	return [2]string{p.A.Email, p.B.Email}
}

// NormalizeEmail canonicalizes an email for identity comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
