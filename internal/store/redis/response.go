package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BibleBot/backend/internal/httpcache"
)

// Response-cache operations; Store satisfies httpcache.Store.

// GetResponse retrieves a cached upstream response by cache key.
func (s *Store) GetResponse(ctx context.Context, key string) (*httpcache.Entry, bool, error) {
	data, err := s.client.Get(ctx, ResponseKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}

	var entry httpcache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &entry, true, nil
}

// SetResponse stores a cached upstream response with the given TTL.
func (s *Store) SetResponse(ctx context.Context, key string, entry *httpcache.Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.client.Set(ctx, ResponseKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// DeleteResponse removes one cached response.
func (s *Store) DeleteResponse(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, ResponseKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached response: %w", err)
	}
	return nil
}

// SweepResponses deletes cached responses past their expiry. Entries
// written with a TTL age out on their own; the sweep catches entries left
// behind by older deployments or clobbered TTLs.
func (s *Store) SweepResponses(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixResponse+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var entry httpcache.Entry
		if err := json.Unmarshal(data, &entry); err == nil && now.Before(entry.ExpiresAt) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete expired response: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to sweep responses: %w", err)
	}
	return removed, nil
}
