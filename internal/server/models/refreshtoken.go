package models

import "time"

// RefreshToken is the server-side record of an issued refresh token.
// TokenHash is the hex SHA-256 of the raw token; the raw value is never stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Usable reports whether the record can still back a refresh exchange at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
