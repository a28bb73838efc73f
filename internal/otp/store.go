// Package otp stores one-time passwords with a TTL, keyed by mobile number
// and role so a citizen OTP cannot verify a collector login.
package otp

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "otp:"

// Store issues and consumes one-time passwords.
type Store interface {
	Save(ctx context.Context, mobile, role, code string, ttl time.Duration) error
	// Consume checks the code and deletes it on a match, so an OTP verifies
	// at most once.
	Consume(ctx context.Context, mobile, role, code string) (bool, error)
}

// RedisStore is the redis-backed Store used in production.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(mobile, role string) string {
	return keyPrefix + role + ":" + mobile
}

// Save stores the code under the mobile/role key with the given TTL,
// replacing any previous code.
func (s *RedisStore) Save(ctx context.Context, mobile, role, code string, ttl time.Duration) error {
	return s.client.Set(ctx, key(mobile, role), code, ttl).Err()
}

// Consume fetches and deletes the stored code, returning whether it matched.
func (s *RedisStore) Consume(ctx context.Context, mobile, role, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, key(mobile, role)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}
