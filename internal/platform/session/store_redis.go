// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/wanderlust/internal/platform/constants"
)

// # Redis Store

// RedisStore implements [Store] using Redis.
//
// # Key Layout
//
//   - session:<token>           JSON [Record]
//   - session:<token>:flash     list of JSON [Flash]
//   - session:<token>:redirect  pending redirect URL
//
// All three keys share the session TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store whose keys expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: constants.RedisPrefixSession,
		ttl:    ttl,
	}
}

func (store *RedisStore) key(token string) string         { return store.prefix + token }
func (store *RedisStore) flashKey(token string) string    { return store.prefix + token + ":flash" }
func (store *RedisStore) redirectKey(token string) string { return store.prefix + token + ":redirect" }

// Load retrieves the session record for token.
func (store *RedisStore) Load(ctx context.Context, token string) (*Record, error) {
	raw, err := store.client.Get(ctx, store.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	record := &Record{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	record.Token = token

	return record, nil
}

// Save persists record under its token with the store TTL.
func (store *RedisStore) Save(ctx context.Context, record *Record) error {
	if record == nil || record.Token == "" {
		return fmt.Errorf("redis_session_save_failed: missing token")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, store.key(record.Token), data, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

// Delete removes every key belonging to token.
func (store *RedisStore) Delete(ctx context.Context, token string) error {
	err := store.client.Del(ctx, store.key(token), store.flashKey(token), store.redirectKey(token)).Err()
	if err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// PushFlash appends flash to the session queue and refreshes the queue TTL.
func (store *RedisStore) PushFlash(ctx context.Context, token string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("redis_flash_encode_failed: %w", err)
	}

	key := store.flashKey(token)
	_, err = store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, store.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_flash_push_failed: %w", err)
	}

	return nil
}

// DrainFlashes reads and clears the queue inside one MULTI/EXEC block, so two
// concurrent renders can never both deliver the same message.
func (store *RedisStore) DrainFlashes(ctx context.Context, token string) ([]Flash, error) {
	key := store.flashKey(token)

	var entries *redis.StringSliceCmd
	_, err := store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis_flash_drain_failed: %w", err)
	}

	raw := entries.Val()
	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		var flash Flash
		if err := json.Unmarshal([]byte(entry), &flash); err != nil {
			return nil, fmt.Errorf("redis_flash_decode_failed: %w", err)
		}
		flashes = append(flashes, flash)
	}

	return flashes, nil
}

// SetRedirect overwrites the pending redirect for token.
func (store *RedisStore) SetRedirect(ctx context.Context, token, url string) error {
	if err := store.client.Set(ctx, store.redirectKey(token), url, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_redirect_set_failed: %w", err)
	}
	return nil
}

// TakeRedirect atomically reads and deletes the pending redirect.
func (store *RedisStore) TakeRedirect(ctx context.Context, token string) (string, error) {
	url, err := store.client.GetDel(ctx, store.redirectKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_redirect_take_failed: %w", err)
	}
	return url, nil
}
