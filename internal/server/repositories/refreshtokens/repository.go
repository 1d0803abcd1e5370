// Package refreshtokens declares the server-side repository contract for
// managing refresh token records in persistent storage.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// Repository defines operations for recording, retrieving, and revoking refresh tokens.
// Records are keyed by the hash of the token; raw tokens never reach storage.
type Repository interface {
	// Create stores token and fills in its ID and CreatedAt.
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByHash returns the record with the given token hash, or
	// common.ErrorNotFound when there is none.
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)

	// Revoke marks the record as revoked. It reports false when the record
	// was already revoked or does not exist.
	Revoke(ctx context.Context, id string) (bool, error)

	// RevokeAllForUser revokes every live record of userID and returns how many changed.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
}
