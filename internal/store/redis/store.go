// Package redis persists the slow-to-rebuild state shared across restarts:
// the merged book-name table, version records, and the upstream response
// cache. The in-memory snapshot is always the primary source; every write
// here is best effort.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BibleBot/backend/internal/domain"
)

const (
	// DefaultVersionTTL is the TTL for persisted version records.
	DefaultVersionTTL = 7 * 24 * time.Hour
)

// Store handles redis operations for metadata and the response cache.
type Store struct {
	client *redis.Client
}

// NewStore creates a redis-backed store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveBookNames persists the merged synonym table and default-name list.
// The table survives restarts with no TTL; it is replaced wholesale on the
// next metadata reload.
func (s *Store) SaveBookNames(ctx context.Context, names map[string]string, defaults []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal book names: %w", err)
	}
	if err := s.client.Set(ctx, KeyBookNames, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save book names: %w", err)
	}

	defaultsData, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal default names: %w", err)
	}
	if err := s.client.Set(ctx, KeyDefaultNames, defaultsData, 0).Err(); err != nil {
		return fmt.Errorf("failed to save default names: %w", err)
	}
	return nil
}

// GetBookNames loads the persisted synonym table. A missing table is a
// cache miss, not an error.
func (s *Store) GetBookNames(ctx context.Context) (map[string]string, bool, error) {
	data, err := s.client.Get(ctx, KeyBookNames).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get book names: %w", err)
	}

	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal book names: %w", err)
	}
	return names, true, nil
}

// GetDefaultNames loads the persisted default-name list.
func (s *Store) GetDefaultNames(ctx context.Context) ([]string, bool, error) {
	data, err := s.client.Get(ctx, KeyDefaultNames).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get default names: %w", err)
	}

	var defaults []string
	if err := json.Unmarshal(data, &defaults); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal default names: %w", err)
	}
	return defaults, true, nil
}

// SaveVersionsMany stores version records in one pipeline.
func (s *Store) SaveVersionsMany(ctx context.Context, versions []*domain.Version) error {
	pipe := s.client.Pipeline()

	for _, v := range versions {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal version %s: %w", v.Abbreviation, err)
		}
		pipe.Set(ctx, VersionKey(v.Abbreviation), data, DefaultVersionTTL)
		pipe.SAdd(ctx, KeyAllVersions, v.Abbreviation)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save versions: %w", err)
	}
	return nil
}

// GetAllVersions retrieves every persisted version record, skipping
// entries that can no longer be read.
func (s *Store) GetAllVersions(ctx context.Context) ([]*domain.Version, error) {
	abbrs, err := s.client.SMembers(ctx, KeyAllVersions).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get version abbreviations: %w", err)
	}

	versions := make([]*domain.Version, 0, len(abbrs))
	for _, abbr := range abbrs {
		data, err := s.client.Get(ctx, VersionKey(abbr)).Bytes()
		if err != nil {
			continue
		}
		var v domain.Version
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		versions = append(versions, &v)
	}
	return versions, nil
}
