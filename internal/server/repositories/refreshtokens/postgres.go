package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/dbx"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
)

// PostgresRepository stores refresh tokens in the refresh_tokens table over
// dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// Create relies on the primary key for uniqueness; a conflicting insert
// affects no rows.
func (r *PostgresRepository) Create(ctx context.Context, token string, userID string, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO refresh_tokens (token, user_id, created_at, updated_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $3, $4, NULL)
		ON CONFLICT (token) DO NOTHING
	`
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx, query, token, userID, now, now.Add(ttl))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

// FindActive joins the token to its owner in one statement.
func (r *PostgresRepository) FindActive(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.created_at, u.updated_at
		FROM users u
		INNER JOIN refresh_tokens rt ON rt.user_id = u.id
		WHERE rt.token = $1 AND rt.revoked_at IS NULL AND rt.expires_at > $2
		LIMIT 1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token, r.now().UTC()).
		Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Revoke is a single UPDATE; revoked_at and updated_at keep their first
// revocation values.
func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = COALESCE(revoked_at, $2), updated_at = COALESCE(revoked_at, $2)
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token, r.now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Lookup(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT token, user_id, created_at, updated_at, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token = $1
	`
	rt := &models.RefreshToken{}
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&rt.Token, &rt.UserID, &rt.CreatedAt, &rt.UpdatedAt, &rt.ExpiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if revokedAt.Valid {
		rt.RevokedAt = &revokedAt.Time
	}
	return rt, nil
}
