// Package providers defines the content-fetch contract implemented once
// per upstream Bible data source, and the registry that binds a Version's
// source key to its implementation.
package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/BibleBot/backend/internal/domain"
)

var (
	// ErrNotFound covers every per-reference upstream failure: network
	// errors, unexpected responses, zero results. One bad fetch never
	// aborts sibling references.
	ErrNotFound = errors.New("verse not found")

	// ErrUnsupported marks an operation the provider cannot perform.
	ErrUnsupported = errors.New("operation not supported by provider")

	// ErrProviderNotFound is a configuration-level failure: a version
	// names a source no provider registered for. It is surfaced, never
	// swallowed into an ordinary not-found.
	ErrProviderNotFound = errors.New("no provider registered for source")
)

// FetchOptions controls content rendering.
type FetchOptions struct {
	TitlesEnabled       bool
	VerseNumbersEnabled bool
}

// SearchResult is one keyword-search hit.
type SearchResult struct {
	Reference string `json:"reference"`
	Excerpt   string `json:"excerpt"`
}

// Provider is the contract every upstream source implements.
type Provider interface {
	// Name is the two-letter source key matched against Version.Source.
	Name() string

	// Verse fetches and renders the content for a resolved reference.
	Verse(ctx context.Context, ref *domain.Reference, opts FetchOptions) (*domain.VerseResult, error)

	// VerseFromString is the trusted-string variant, bypassing the
	// mention scanner. Only internally-generated reference strings may
	// be passed here, never user input.
	VerseFromString(ctx context.Context, raw string, version *domain.Version, opts FetchOptions) (*domain.VerseResult, error)

	// Search performs a keyword search.
	Search(ctx context.Context, query string, version *domain.Version) ([]SearchResult, error)

	// BookNames fetches the version-specific book list from the
	// source's own book-list endpoint, for the metadata merge.
	BookNames(ctx context.Context, version *domain.Version) ([]domain.Book, error)

	// ResolvesExpando reports whether the source can serve an
	// open-ended "read to end of chapter" range itself. When false, the
	// concrete ending verse must be resolved before dispatch.
	ResolvesExpando() bool
}

// Registry maps source keys to providers.
type Registry struct {
	byName map[string]Provider
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.byName[p.Name()] = p
	}
	return r
}

// Get returns the provider for a source key. A miss is a fatal
// configuration error, not a fallback.
func (r *Registry) Get(source string) (Provider, error) {
	p, ok := r.byName[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, source)
	}
	return p, nil
}

// All returns every registered provider.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.byName))
	for _, p := range r.byName {
		out = append(out, p)
	}
	return out
}
