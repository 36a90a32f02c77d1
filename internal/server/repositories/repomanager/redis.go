package repomanager

import (
	"github.com/dmitrijs2005/chirpy/internal/dbx"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
)

// RedisRepositoryManager keeps users and the schema in PostgreSQL and
// refresh tokens in Redis.
type RedisRepositoryManager struct {
	PostgresRepositoryManager
	rdb redis.Cmdable
}

func NewRedisRepositoryManager(rdb redis.Cmdable) *RedisRepositoryManager {
	return &RedisRepositoryManager{rdb: rdb}
}

func (m *RedisRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewRedisRepository(m.rdb, users.NewPostgresRepository(db))
}
