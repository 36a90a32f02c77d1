package repomanager

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/dbx"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/users"
)

// InMemoryRepositoryManager holds process-local repositories. The db
// argument of its factories is ignored and may be nil.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

// NewInMemoryRepositoryManager builds empty stores sharing one clock.
// A nil now uses time.Now.
func NewInMemoryRepositoryManager(now func() time.Time) *InMemoryRepositoryManager {
	u := users.NewInMemoryRepository(now)
	return &InMemoryRepositoryManager{
		users:         u,
		refreshTokens: refreshtokens.NewInMemoryRepository(u, now),
	}
}
