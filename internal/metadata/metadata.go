// Package metadata builds the merged book-name table the mention scanner
// matches against: hand-curated abbreviations, canonical English defaults,
// and version-specific synonym lists fetched from each upstream source's
// own book-list endpoint.
package metadata

import (
	"context"
	"strings"
	"sync"

	"github.com/BibleBot/backend/internal/books"
	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/providers"
	"github.com/BibleBot/backend/internal/purify"
	redisstore "github.com/BibleBot/backend/internal/store/redis"
)

// Service owns the book-name merge and the snapshot it publishes.
type Service struct {
	tables   *books.Tables
	registry *providers.Registry
	store    *redisstore.Store // nil in dry-run deployments
	idx      *index.NameIndex
	log      logger.Logger
	dryRun   bool

	mu       sync.Mutex
	names    map[string]string
	defaults []string
}

// New creates the metadata service.
func New(tables *books.Tables, registry *providers.Registry, store *redisstore.Store, idx *index.NameIndex, log logger.Logger, dryRun bool) *Service {
	return &Service{
		tables:   tables,
		registry: registry,
		store:    store,
		idx:      idx,
		log:      log,
		dryRun:   dryRun,
	}
}

// Reload rebuilds the merged table for the given versions and publishes a
// fresh snapshot. Per-version upstream failures reduce matching ability
// but never abort the reload. A version naming an unregistered source is
// dropped from the published catalog with a warning, so a seed that lists
// versions for an optional backend (one gated on an API key) still reloads
// cleanly when that backend is disabled.
func (s *Service) Reload(ctx context.Context, versions []*domain.Version) error {
	active := make([]*domain.Version, 0, len(versions))
	disabled := make(map[string]bool)
	merged := s.baseNames()

	for _, v := range versions {
		if v.AliasOf != "" {
			// Aliases defer book-name lookups to the aliased version;
			// they are admitted after their targets are known.
			continue
		}

		provider, err := s.registry.Get(v.Source)
		if err != nil {
			s.log.Warn("version source has no registered provider, version disabled",
				logger.String("version", v.Abbreviation), logger.String("source", v.Source))
			disabled[strings.ToLower(v.Abbreviation)] = true
			continue
		}
		active = append(active, v)

		fetched, err := provider.BookNames(ctx, v)
		if err != nil {
			s.log.Warn("book-name fetch failed, matching reduced for version",
				logger.String("version", v.Abbreviation), logger.Error(err))
			continue
		}

		v.Books = s.anchorBooks(fetched)
		for _, b := range v.Books {
			if b.DataName == "" {
				continue
			}
			s.mergeSynonym(merged, b.PreferredName, b.DataName)
		}

		s.log.Info("merged version book names",
			logger.String("version", v.Abbreviation), logger.Int("books", len(v.Books)))
	}

	for _, v := range versions {
		if v.AliasOf == "" {
			continue
		}
		if disabled[strings.ToLower(v.AliasOf)] {
			s.log.Warn("alias target disabled, alias disabled",
				logger.String("version", v.Abbreviation), logger.String("target", v.AliasOf))
			continue
		}
		active = append(active, v)
	}

	defaults := append([]string(nil), s.tables.DefaultNames...)

	if s.store != nil {
		if err := s.store.SaveBookNames(ctx, merged, defaults); err != nil {
			s.log.Warn("failed to persist book names", logger.Error(err))
		}
	}

	proper := make(map[string]string)
	for _, key := range s.tables.Keys() {
		name, _ := s.tables.ProperName(key)
		proper[key] = name
	}

	s.idx.Swap(index.Build(merged, defaults, proper, active))

	s.mu.Lock()
	s.names = merged
	s.defaults = defaults
	s.mu.Unlock()

	s.log.Info("book-name index rebuilt",
		logger.Int("synonyms", len(merged)), logger.Int("versions", len(active)))
	return nil
}

// baseNames seeds the merge with the embedded abbreviation table and the
// canonical display names.
func (s *Service) baseNames() map[string]string {
	merged := make(map[string]string, 512)
	for key, synonyms := range s.tables.Abbreviations {
		for _, syn := range synonyms {
			s.mergeSynonym(merged, syn, key)
		}
	}
	for _, key := range s.tables.Keys() {
		if name, ok := s.tables.ProperName(key); ok {
			s.mergeSynonym(merged, name, key)
		}
	}
	return merged
}

// mergeSynonym adds one (synonym, key) pair, deduplicating
// case-insensitively. The hand-curated table wins on conflict, and of two
// surface forms collapsing to the same normalized string the longer one is
// kept so a short form never shadows a more specific long one.
func (s *Service) mergeSynonym(merged map[string]string, surface, key string) {
	norm := purify.Text(surface)
	if norm == "" || s.tables.IsNuisance(norm) {
		return
	}
	if existing, ok := merged[norm]; ok && existing != key {
		return
	}
	merged[norm] = key
}

// anchorBooks resolves each fetched book's data name by matching its
// preferred name through the tables already known. Books that cannot be
// anchored stay in the list (the booklist surface still shows them) but
// contribute no synonyms.
func (s *Service) anchorBooks(fetched []domain.Book) []domain.Book {
	lookup := s.baseNames()
	out := make([]domain.Book, 0, len(fetched))
	for _, b := range fetched {
		key, ok := s.anchor(lookup, b.PreferredName)
		if ok {
			b.DataName = key
			if name, ok := s.tables.ProperName(key); ok {
				b.ProperName = name
			}
		}
		out = append(out, b)
	}
	return out
}

func (s *Service) anchor(lookup map[string]string, name string) (string, bool) {
	norm := purify.Text(name)
	if key, ok := lookup[norm]; ok {
		return key, true
	}

	// Scraped names often carry noise words ("The Book of Genesis").
	kept := make([]string, 0, 4)
	for _, word := range strings.Fields(norm) {
		if !s.tables.IsNuisance(word) {
			kept = append(kept, word)
		}
	}
	if key, ok := lookup[strings.Join(kept, " ")]; ok {
		return key, true
	}
	return "", false
}

// GetBookNames returns the merged synonym table, loading the persisted
// copy once if no reload has run in this process.
func (s *Service) GetBookNames(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.names != nil {
		return s.names, nil
	}
	if s.store != nil {
		names, ok, err := s.store.GetBookNames(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			s.names = names
			return names, nil
		}
	}
	s.names = s.baseNames()
	return s.names, nil
}

// GetDefaultBookNames returns the default-name list, read through the
// persisted copy the same way.
func (s *Service) GetDefaultBookNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaults != nil {
		return s.defaults, nil
	}
	if s.store != nil {
		defaults, ok, err := s.store.GetDefaultNames(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			s.defaults = defaults
			return defaults, nil
		}
	}
	s.defaults = append([]string(nil), s.tables.DefaultNames...)
	return s.defaults, nil
}
