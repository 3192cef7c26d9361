// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stockify/internal/platform/constants"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// RedisRevocationStore keeps revoked tokens in Redis until they would have expired.
//
// # Keys
//
//   - auth:revoked:<sha256(token)>  -> "1", TTL = remaining token lifetime
//   - auth:revoked_before:<userId>  -> unix seconds, TTL = token lifetime
//
// It satisfies both [SessionRevoker] and the middleware revocation check.
type RedisRevocationStore struct {
	client   redis.UniversalClient
	tokenTTL time.Duration
}

// NewRevocationStore creates a Redis-backed revocation list. tokenTTL is the
// longest lifetime an issued token can have.
func NewRevocationStore(client redis.UniversalClient, tokenTTL time.Duration) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, tokenTTL: tokenTTL}
}

func revokedTokenKey(token string) string {
	return constants.RedisPrefixRevokedToken + sec.HashToken(token)
}

func revokedBeforeKey(userID int64) string {
	return constants.RedisPrefixRevokedBefore + strconv.FormatInt(userID, 10)
}

/*
Revoke blocks a single token until its natural expiry.

Description: Tokens that are already expired need no entry and are skipped.
*/
func (repository *RedisRevocationStore) Revoke(context context.Context, token string, expiresAt time.Time) error {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedTokenKey(token), "1", remaining).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	return nil
}

/*
RevokeAllBefore blocks every token of userID issued at or before at.

Description: The watermark outlives the longest possible token, after which
every token it could match has expired anyway.
*/
func (repository *RedisRevocationStore) RevokeAllBefore(context context.Context, userID int64, at time.Time) error {
	value := strconv.FormatInt(at.Unix(), 10)
	if err := repository.client.Set(context, revokedBeforeKey(userID), value, repository.tokenTTL).Err(); err != nil {
		return fmt.Errorf("redis_revocation_watermark_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether a verified token has been revoked.

Description: Both keys are read in a single round trip. Token issue times
have second precision, so a token issued in the same second as a watermark
counts as revoked.
*/
func (repository *RedisRevocationStore) IsRevoked(context context.Context, token string, claims *sec.AuthClaims) (bool, error) {
	values, err := repository.client.MGet(context, revokedTokenKey(token), revokedBeforeKey(claims.UserID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis_revocation_get_failed: %w", err)
	}

	if len(values) > 0 && values[0] != nil {
		return true, nil
	}

	if len(values) > 1 && values[1] != nil {
		raw, _ := values[1].(string)
		watermark, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return false, fmt.Errorf("redis_revocation_watermark_corrupt: %w", parseErr)
		}
		if claims.IssuedAt == nil || claims.IssuedAt.Unix() <= watermark {
			return true, nil
		}
	}

	return false, nil
}

// RedisResetThrottle is a fixed-window counter of reset requests per email.
//
// # Keys
//
//   - auth:reset_requests:<sha256(email)> -> count, TTL = window
type RedisResetThrottle struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
}

// NewResetThrottle allows limit requests per email in each window.
func NewResetThrottle(client redis.UniversalClient, limit int, window time.Duration) *RedisResetThrottle {
	return &RedisResetThrottle{client: client, limit: int64(limit), window: window}
}

/*
AllowReset increments the counter for email and reports whether it is within
the limit.

Description: INCR and the first EXPIRE run in one pipeline, so a counter
never outlives its window.
*/
func (throttle *RedisResetThrottle) AllowReset(context context.Context, email string) (bool, error) {
	key := constants.RedisPrefixResetRequests + sec.HashToken(email)

	pipe := throttle.client.TxPipeline()
	count := pipe.Incr(context, key)
	pipe.ExpireNX(context, key, throttle.window)
	if _, err := pipe.Exec(context); err != nil {
		return false, fmt.Errorf("redis_reset_throttle_failed: %w", err)
	}

	return count.Val() <= throttle.limit, nil
}
