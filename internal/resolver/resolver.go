// Package resolver runs the full pipeline from raw message text to fetched
// verse content: purify, scan, parse, validate, dispatch.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/BibleBot/backend/internal/books"
	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/providers"
	"github.com/BibleBot/backend/internal/purify"
	"github.com/BibleBot/backend/internal/refparse"
	"github.com/BibleBot/backend/internal/scanner"
)

// fetchConcurrency bounds parallel upstream fetches for one message.
const fetchConcurrency = 4

// Failure records one reference that parsed but could not be fetched.
// A message mentioning five passages where one upstream call fails still
// returns the other four.
type Failure struct {
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// Result carries everything a single message produced.
type Result struct {
	Results  []*domain.VerseResult `json:"results"`
	Failures []Failure             `json:"failures,omitempty"`
}

// Resolver wires the pipeline stages together.
type Resolver struct {
	tables         *books.Tables
	registry       *providers.Registry
	idx            *index.NameIndex
	defaultVersion string
	log            logger.Logger
}

// New creates a Resolver.
func New(tables *books.Tables, registry *providers.Registry, idx *index.NameIndex, defaultVersion string, log logger.Logger) *Resolver {
	return &Resolver{
		tables:         tables,
		registry:       registry,
		idx:            idx,
		defaultVersion: defaultVersion,
		log:            log,
	}
}

// References runs the text stages only: purify, scan, parse, validate.
// Mentions that fail to parse are dropped silently; references whose canon
// the target version cannot serve come back as Failures. versionAbbr
// overrides the configured default when non-empty; an in-text version
// suffix still wins over both. Callers that honor a configured ignore
// syntax pass the extra bracket pairs whose enclosed text is discarded
// before scanning.
func (r *Resolver) References(text, versionAbbr string, extra ...purify.BracketPair) ([]*domain.Reference, []Failure, error) {
	snap := r.idx.Current()

	if versionAbbr == "" {
		versionAbbr = r.defaultVersion
	}
	fallback, ok := snap.ResolveVersion(versionAbbr)
	if !ok {
		return nil, nil, fmt.Errorf("version %q is not loaded", versionAbbr)
	}

	purified := purify.Text(text, extra...)
	tokens := scanner.Tokenize(purified, snap)
	mentions := scanner.FindBooks(purified, snap)

	var (
		refs     []*domain.Reference
		failures []Failure
		seen     = make(map[string]struct{})
	)
	for _, mention := range mentions {
		ref, ok := refparse.Parse(tokens, mention, fallback, snap)
		if !ok {
			continue
		}

		if canon, ok := r.tables.Classify(ref.Book); ok {
			ref.Canon = canon
		}

		key := ref.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := books.ValidateSupport(ref, ref.Version); err != nil {
			failures = append(failures, Failure{Reference: ref.AsString(), Reason: err.Error()})
			continue
		}

		refs = append(refs, ref)
	}
	return refs, failures, nil
}

// Resolve runs the whole pipeline and fetches every surviving reference.
// Fetches run concurrently but results keep first-mention order. A version
// naming an unregistered source aborts the call: that is a configuration
// error, not an upstream hiccup.
func (r *Resolver) Resolve(ctx context.Context, text, versionAbbr string, opts providers.FetchOptions, extra ...purify.BracketPair) (*Result, error) {
	refs, failures, err := r.References(text, versionAbbr, extra...)
	if err != nil {
		return nil, err
	}

	out := &Result{Failures: failures}
	if len(refs) == 0 {
		return out, nil
	}

	var (
		mu      sync.Mutex
		fetched = make([]*domain.VerseResult, len(refs))
		failed  = make([]*Failure, len(refs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			result, err := r.fetch(gctx, ref, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, providers.ErrProviderNotFound) {
					return err
				}
				r.log.Warn("reference fetch failed",
					logger.String("reference", ref.AsString()), logger.Error(err))
				failed[i] = &Failure{Reference: ref.AsString(), Reason: err.Error()}
				return nil
			}
			fetched[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range refs {
		if fetched[i] != nil {
			out.Results = append(out.Results, fetched[i])
		}
		if failed[i] != nil {
			out.Failures = append(out.Failures, *failed[i])
		}
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, ref *domain.Reference, opts providers.FetchOptions) (*domain.VerseResult, error) {
	provider, err := r.registry.Get(ref.Version.Source)
	if err != nil {
		return nil, err
	}
	return provider.Verse(ctx, ref, opts)
}
