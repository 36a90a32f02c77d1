// Package users declares the user repository contract and its PostgreSQL
// and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/chirpy/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, email, hashedPassword string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
