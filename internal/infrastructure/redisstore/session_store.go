package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/apperror"
)

var (
	ErrSessionNotFound = apperror.Unauthenticated("session not found")
	ErrSessionRevoked  = apperror.Unauthenticated("session revoked")
)

// SessionStore keeps one active session per user as a Redis hash. A nil
// store (Redis not configured) accepts every token and stores nothing.
// A configured store that cannot reach Redis fails closed: Validate returns
// a 500 rather than letting an unchecked token through.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if rdb == nil {
		return nil
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Save records sid as the user's current session, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, u *entity.User, sid string) error {
	if s == nil {
		return nil
	}
	key := sessionKey(u.ID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"is_admin":   strconv.FormatBool(u.IsAdmin),
		"sid":        sid,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Validate checks that sid is the user's current session.
func (s *SessionStore) Validate(ctx context.Context, userID, sid string) error {
	if s == nil {
		return nil
	}
	current, err := s.rdb.HGet(ctx, sessionKey(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return apperror.Wrap(apperror.KindUnexpected, "session store unavailable", err)
	}
	if current != sid {
		return ErrSessionRevoked
	}
	return nil
}

// Revoke drops the user's session; tokens issued for it stop working.
func (s *SessionStore) Revoke(ctx context.Context, userID string) error {
	if s == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}
