package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rt:"

const createTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "user_id", ARGV[1], "created_at", ARGV[2], "updated_at", ARGV[2], "expires_at", ARGV[3])
return 1
`

var createTokenLua = redis.NewScript(createTokenScript)

const revokeTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
if redis.call("HEXISTS", KEYS[1], "revoked_at") == 0 then
  redis.call("HSET", KEYS[1], "revoked_at", ARGV[1], "updated_at", ARGV[1])
end
return 1
`

var revokeTokenLua = redis.NewScript(revokeTokenScript)

// RedisRepository keeps each token in a hash at rt:<token>. Timestamps are
// unix nanoseconds. Owners are resolved through users.
type RedisRepository struct {
	rdb   redis.Cmdable
	users UserLookup
	now   func() time.Time
}

func NewRedisRepository(rdb redis.Cmdable, users UserLookup) *RedisRepository {
	return &RedisRepository{rdb: rdb, users: users, now: time.Now}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisRepository) Create(ctx context.Context, token string, userID string, ttl time.Duration) (bool, error) {
	now := r.now()
	created, err := createTokenLua.Run(ctx, r.rdb, []string{redisKey(token)},
		userID,
		strconv.FormatInt(now.UnixNano(), 10),
		strconv.FormatInt(now.Add(ttl).UnixNano(), 10),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return created == 1, nil
}

func (r *RedisRepository) FindActive(ctx context.Context, token string) (*models.User, error) {
	vals, err := r.rdb.HMGet(ctx, redisKey(token), "user_id", "expires_at", "revoked_at").Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	userID, _ := vals[0].(string)
	expires, _ := vals[1].(string)
	if userID == "" || vals[2] != nil {
		return nil, common.ErrorNotFound
	}

	expiresAt, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis error: corrupt expires_at for token: %w", err)
	}
	if expiresAt <= r.now().UnixNano() {
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

func (r *RedisRepository) Revoke(ctx context.Context, token string) error {
	found, err := revokeTokenLua.Run(ctx, r.rdb, []string{redisKey(token)},
		strconv.FormatInt(r.now().UnixNano(), 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if found == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *RedisRepository) Lookup(ctx context.Context, token string) (*models.RefreshToken, error) {
	vals, err := r.rdb.HGetAll(ctx, redisKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(vals) == 0 {
		return nil, common.ErrorNotFound
	}

	rt := &models.RefreshToken{Token: token, UserID: vals["user_id"]}
	for field, dst := range map[string]*time.Time{
		"created_at": &rt.CreatedAt,
		"updated_at": &rt.UpdatedAt,
		"expires_at": &rt.ExpiresAt,
	} {
		n, err := strconv.ParseInt(vals[field], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis error: corrupt %s for token: %w", field, err)
		}
		*dst = time.Unix(0, n).UTC()
	}
	if v, ok := vals["revoked_at"]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis error: corrupt revoked_at for token: %w", err)
		}
		revokedAt := time.Unix(0, n).UTC()
		rt.RevokedAt = &revokedAt
	}
	return rt, nil
}
