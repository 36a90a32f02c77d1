package models

import "time"

// RefreshToken is one persisted issuance of an opaque refresh token.
type RefreshToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// State of a refresh token at a given instant.
type RefreshTokenState int

const (
	RefreshTokenActive RefreshTokenState = iota
	RefreshTokenRevoked
	RefreshTokenExpired
)

func (s RefreshTokenState) String() string {
	switch s {
	case RefreshTokenActive:
		return "active"
	case RefreshTokenRevoked:
		return "revoked"
	case RefreshTokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// StateAt derives the state at now. Expiry is never written to storage;
// a token is already expired at the exact instant ExpiresAt.
func (t *RefreshToken) StateAt(now time.Time) RefreshTokenState {
	if t.RevokedAt != nil {
		return RefreshTokenRevoked
	}
	if !t.ExpiresAt.After(now) {
		return RefreshTokenExpired
	}
	return RefreshTokenActive
}

// IsActive reports whether the token can still be exchanged at now.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.StateAt(now) == RefreshTokenActive
}
