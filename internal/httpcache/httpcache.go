// Package httpcache is the shared outbound-HTTP layer for every content
// provider: a response cache with distinct freshness and expiry windows,
// plus a trimming stage that runs once at population time to keep only the
// fragment a provider actually reads.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BibleBot/backend/internal/logger"
)

const (
	// DefaultExpiry is how long a cached response stays servable.
	DefaultExpiry = 120 * time.Minute
	// DefaultStaleAfter is the max-age rewritten onto cached responses;
	// beyond it an entry is served but reported stale.
	DefaultStaleAfter = 60 * time.Minute
)

// Entry is one cached upstream response after trimming.
type Entry struct {
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetchedAt"`
	StaleAt   time.Time `json:"staleAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	// MaxAge is the rewritten Cache-Control max-age, in seconds.
	MaxAge int `json:"maxAge"`
}

// Store persists cache entries. The redis store implements this in
// production; an in-process map serves tests and dry-run deployments.
// Concurrent misses may race to populate the same key; last write wins.
type Store interface {
	GetResponse(ctx context.Context, key string) (*Entry, bool, error)
	SetResponse(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	DeleteResponse(ctx context.Context, key string) error
}

// Trimmer discards everything outside the relevant content fragment before
// an entry is stored. Trimming is a storage optimization only: it must not
// change what callers see, so a failing trim stores the full body instead.
type Trimmer func(body []byte) ([]byte, error)

// Client is a caching HTTP client shared by all providers.
type Client struct {
	http       *http.Client
	store      Store
	expiry     time.Duration
	staleAfter time.Duration
	log        logger.Logger
}

// Options configures a Client. Zero durations take the defaults.
type Options struct {
	HTTPClient *http.Client
	Expiry     time.Duration
	StaleAfter time.Duration
}

// New creates a caching client over the given store.
func New(store Store, log logger.Logger, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	expiry := opts.Expiry
	if expiry == 0 {
		expiry = DefaultExpiry
	}
	staleAfter := opts.StaleAfter
	if staleAfter == 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Client{
		http:       httpClient,
		store:      store,
		expiry:     expiry,
		staleAfter: staleAfter,
		log:        log,
	}
}

// Get returns the response body for url, from cache when a live entry
// exists, fetching and populating otherwise. The second return reports
// whether the served entry was past its freshness window.
func (c *Client) Get(ctx context.Context, url string, header http.Header, trim Trimmer) ([]byte, bool, error) {
	key := Key(url)

	if entry, ok, err := c.store.GetResponse(ctx, key); err != nil {
		c.log.Warn("response cache read failed", logger.String("url", url), logger.Error(err))
	} else if ok && time.Now().Before(entry.ExpiresAt) {
		stale := time.Now().After(entry.StaleAt)
		return entry.Body, stale, nil
	}

	body, err := c.fetch(ctx, url, header)
	if err != nil {
		return nil, false, err
	}

	stored := body
	if trim != nil {
		trimmed, err := trim(body)
		if err != nil {
			c.log.Debug("response trim failed, caching full body",
				logger.String("url", url), logger.Error(err))
		} else {
			stored = trimmed
			body = trimmed
		}
	}

	now := time.Now()
	entry := &Entry{
		Body:      stored,
		FetchedAt: now,
		StaleAt:   now.Add(c.staleAfter),
		ExpiresAt: now.Add(c.expiry),
		MaxAge:    int(c.staleAfter.Seconds()),
	}
	if err := c.store.SetResponse(ctx, key, entry, c.expiry); err != nil {
		c.log.Warn("response cache write failed", logger.String("url", url), logger.Error(err))
	}

	return body, false, nil
}

func (c *Client) fetch(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned %s for %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}
	return body, nil
}

// Key derives the cache key for a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
