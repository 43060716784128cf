package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis so multiple API replicas can share them.
// Entries are hashes keyed by token; no TTL is set because sessions do not
// expire in this design.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("redis client is required")
	}
	return &RedisStore{client: client}
}

func (s *RedisStore) Issue(ctx context.Context, principalID int64) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		Token:       token,
		PrincipalID: principalID,
		IssuedAt:    time.Now().UTC(),
	}

	fields := map[string]interface{}{
		"principal_id": sess.PrincipalID,
		"issued_at":    sess.IssuedAt.Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, keyPrefix+token, fields).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}

	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	values, err := s.client.HGetAll(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if len(values) == 0 {
		return Session{}, ErrNotFound
	}

	principalID, err := strconv.ParseInt(values["principal_id"], 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("corrupt session %q: %w", token, err)
	}

	issuedAt, err := time.Parse(time.RFC3339Nano, values["issued_at"])
	if err != nil {
		return Session{}, fmt.Errorf("corrupt session %q: %w", token, err)
	}

	return Session{Token: token, PrincipalID: principalID, IssuedAt: issuedAt}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

// Ensure interface compliance.
var _ Store = (*RedisStore)(nil)
