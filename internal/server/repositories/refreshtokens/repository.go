// Package refreshtokens declares the refresh token store contract and its
// PostgreSQL, Redis and in-memory implementations.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
)

// Repository defines operations for issuing, resolving and revoking refresh tokens.
// Rows are never deleted here; expiry is derived at read time.
type Repository interface {
	// Create stores token for userID with expiry now+ttl. It reports false,
	// without error and without touching the existing row, when token is taken.
	Create(ctx context.Context, token string, userID string, ttl time.Duration) (bool, error)

	// FindActive returns the owner of token if it exists, is not revoked and
	// has not expired. Every miss returns common.ErrorNotFound.
	FindActive(ctx context.Context, token string) (*models.User, error)

	// Revoke marks token revoked. The first revocation time is kept on
	// repeated calls. An unknown token returns common.ErrorNotFound.
	Revoke(ctx context.Context, token string) error

	// Lookup returns the stored record for token whatever its state.
	Lookup(ctx context.Context, token string) (*models.RefreshToken, error)
}

// UserLookup resolves token owners for stores that do not hold users themselves.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Generate returns a fresh 64-character hex token from 32 random bytes.
func Generate() (string, error) {
	return common.MakeRandHexString(common.RefreshTokenBytes)
}
