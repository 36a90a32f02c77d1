package refreshtokens

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
)

// InMemoryRepository keeps refresh tokens in a mutex-guarded map.
type InMemoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]*models.RefreshToken
	users  UserLookup
	now    func() time.Time
}

func NewInMemoryRepository(users UserLookup, now func() time.Time) *InMemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &InMemoryRepository{
		tokens: make(map[string]*models.RefreshToken),
		users:  users,
		now:    now,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, token string, userID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return false, nil
	}

	now := r.now().UTC()
	r.tokens[token] = &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

func (r *InMemoryRepository) FindActive(ctx context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	rt, ok := r.tokens[token]
	active := ok && rt.IsActive(r.now())
	var userID string
	if ok {
		userID = rt.UserID
	}
	r.mu.RUnlock()

	if !active {
		return nil, common.ErrorNotFound
	}

	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *InMemoryRepository) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return common.ErrorNotFound
	}
	if rt.RevokedAt == nil {
		now := r.now().UTC()
		rt.RevokedAt = &now
		rt.UpdatedAt = now
	}
	return nil
}

func (r *InMemoryRepository) Lookup(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	if rt.RevokedAt != nil {
		revokedAt := *rt.RevokedAt
		cp.RevokedAt = &revokedAt
	}
	return &cp, nil
}
