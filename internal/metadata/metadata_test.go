package metadata

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/BibleBot/backend/internal/books"
	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/providers"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

// fakeProvider serves canned book lists and fails on demand.
type fakeProvider struct {
	name  string
	books []domain.Book
	err   error
}

func (f *fakeProvider) Name() string          { return f.name }
func (f *fakeProvider) ResolvesExpando() bool { return false }

func (f *fakeProvider) BookNames(context.Context, *domain.Version) ([]domain.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.books, nil
}

func (f *fakeProvider) Verse(context.Context, *domain.Reference, providers.FetchOptions) (*domain.VerseResult, error) {
	return nil, providers.ErrUnsupported
}

func (f *fakeProvider) VerseFromString(context.Context, string, *domain.Version, providers.FetchOptions) (*domain.VerseResult, error) {
	return nil, providers.ErrUnsupported
}

func (f *fakeProvider) Search(context.Context, string, *domain.Version) ([]providers.SearchResult, error) {
	return nil, providers.ErrUnsupported
}

func loadTables(t *testing.T) *books.Tables {
	t.Helper()
	tables, err := books.Load()
	if err != nil {
		t.Fatalf("books.Load failed: %v", err)
	}
	return tables
}

func testVersion(source string) *domain.Version {
	return &domain.Version{
		Abbreviation:         "TST",
		Name:                 "Test Version",
		Source:               source,
		SupportsOldTestament: true,
		SupportsNewTestament: true,
	}
}

func TestReloadMergesFetchedNames(t *testing.T) {
	tables := loadTables(t)
	fake := &fakeProvider{name: "bg", books: []domain.Book{
		{InternalName: "Gen", PreferredName: "The Book of Genesis"},
		{InternalName: "Phil", PreferredName: "Philippians"},
		{InternalName: "Zzz", PreferredName: "Completely Unknown Scroll"},
	}}
	idx := index.NewNameIndex()
	svc := New(tables, providers.NewRegistry(fake), nil, idx, nopLogger{}, true)

	v := testVersion("bg")
	if err := svc.Reload(context.Background(), []*domain.Version{v}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	snap := idx.Current()
	if key, ok := snap.BookKey("the book of genesis"); !ok || key != "gen" {
		t.Errorf("BookKey(the book of genesis) = %q, %v; want gen via nuisance-stripped anchor", key, ok)
	}
	if key, ok := snap.BookKey("genesis"); !ok || key != "gen" {
		t.Errorf("BookKey(genesis) = %q, %v", key, ok)
	}

	// Anchored books gain data names; the unknown one stays but unanchored.
	byInternal := make(map[string]domain.Book)
	for _, b := range v.Books {
		byInternal[b.InternalName] = b
	}
	if byInternal["Gen"].DataName != "gen" {
		t.Errorf("Gen anchored to %q, want gen", byInternal["Gen"].DataName)
	}
	if byInternal["Phil"].DataName != "phil" {
		t.Errorf("Phil anchored to %q, want phil", byInternal["Phil"].DataName)
	}
	if byInternal["Zzz"].DataName != "" {
		t.Errorf("unknown book anchored to %q, want unanchored", byInternal["Zzz"].DataName)
	}
	if _, ok := snap.BookKey("completely unknown scroll"); ok {
		t.Error("unanchored book leaked a synonym into the index")
	}
}

func TestReloadSkipsAliases(t *testing.T) {
	tables := loadTables(t)
	fake := &fakeProvider{name: "bg", err: errors.New("must not be called")}
	idx := index.NewNameIndex()
	svc := New(tables, providers.NewRegistry(fake), nil, idx, nopLogger{}, true)

	alias := &domain.Version{Abbreviation: "AKJV", Source: "bg", AliasOf: "KJV"}
	if err := svc.Reload(context.Background(), []*domain.Version{alias}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if alias.Books != nil {
		t.Errorf("alias got books %v, want none fetched", alias.Books)
	}
}

func TestReloadToleratesFetchFailure(t *testing.T) {
	tables := loadTables(t)
	fake := &fakeProvider{name: "bg", err: errors.New("upstream down")}
	idx := index.NewNameIndex()
	svc := New(tables, providers.NewRegistry(fake), nil, idx, nopLogger{}, true)

	if err := svc.Reload(context.Background(), []*domain.Version{testVersion("bg")}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	// Hand-curated names still serve matching.
	if key, ok := idx.Current().BookKey("genesis"); !ok || key != "gen" {
		t.Errorf("BookKey(genesis) = %q, %v after failed fetch", key, ok)
	}
}

func TestReloadDropsVersionsWithUnregisteredSource(t *testing.T) {
	tables := loadTables(t)
	fake := &fakeProvider{name: "bg", books: []domain.Book{
		{InternalName: "Gen", PreferredName: "Genesis"},
	}}
	idx := index.NewNameIndex()
	svc := New(tables, providers.NewRegistry(fake), nil, idx, nopLogger{}, true)

	// A seed routinely lists versions for a backend that registers only
	// when its API key is configured. Those versions are dropped, their
	// aliases with them, and the reload still publishes a snapshot.
	kjv := &domain.Version{Abbreviation: "KJV", Source: "bg", SupportsOldTestament: true, SupportsNewTestament: true}
	keyed := &domain.Version{Abbreviation: "ASV", Source: "ab", SupportsOldTestament: true, SupportsNewTestament: true}
	keyedAlias := &domain.Version{Abbreviation: "ASV1901", AliasOf: "ASV"}
	akjv := &domain.Version{Abbreviation: "AKJV", AliasOf: "KJV"}

	err := svc.Reload(context.Background(), []*domain.Version{kjv, keyed, keyedAlias, akjv})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if idx.LastReload().IsZero() {
		t.Fatal("no snapshot published")
	}

	snap := idx.Current()
	if v, ok := snap.Version("KJV"); !ok || v != kjv {
		t.Errorf("Version(KJV) = %+v, %v; want the registered version kept", v, ok)
	}
	if v, ok := snap.ResolveVersion("AKJV"); !ok || v != kjv {
		t.Errorf("ResolveVersion(AKJV) = %+v, %v; want alias to kept target", v, ok)
	}
	if _, ok := snap.Version("ASV"); ok {
		t.Error("version with unregistered source survived the reload")
	}
	if _, ok := snap.ResolveVersion("ASV1901"); ok {
		t.Error("alias of a dropped version survived the reload")
	}
}

func TestHandCuratedNameWinsOnConflict(t *testing.T) {
	tables := loadTables(t)
	// A scraped name that collides with a curated synonym for a different
	// book must not steal the mapping.
	fake := &fakeProvider{name: "bg", books: []domain.Book{
		{InternalName: "Gen", PreferredName: "Genesis"},
	}}
	idx := index.NewNameIndex()
	svc := New(tables, providers.NewRegistry(fake), nil, idx, nopLogger{}, true)

	if err := svc.Reload(context.Background(), []*domain.Version{testVersion("bg")}); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if key, _ := idx.Current().BookKey("genesis"); key != "gen" {
		t.Errorf("BookKey(genesis) = %q, want gen", key)
	}
}

func TestGetBookNamesFallsBackToEmbedded(t *testing.T) {
	tables := loadTables(t)
	svc := New(tables, providers.NewRegistry(), nil, index.NewNameIndex(), nopLogger{}, true)

	names, err := svc.GetBookNames(context.Background())
	if err != nil {
		t.Fatalf("GetBookNames failed: %v", err)
	}
	if names["genesis"] != "gen" {
		t.Errorf("names[genesis] = %q", names["genesis"])
	}

	defaults, err := svc.GetDefaultBookNames(context.Background())
	if err != nil {
		t.Fatalf("GetDefaultBookNames failed: %v", err)
	}
	if len(defaults) == 0 {
		t.Fatal("no default names")
	}
}

func TestVersionBookListPartitions(t *testing.T) {
	tables := loadTables(t)
	svc := New(tables, providers.NewRegistry(), nil, index.NewNameIndex(), nopLogger{}, true)

	v := &domain.Version{
		Abbreviation: "TST",
		Books: []domain.Book{
			{DataName: "gen", PreferredName: "Genesis"},
			{DataName: "matt", PreferredName: "Matthew"},
			{DataName: "tob", PreferredName: "Tobit"},
			{DataName: "", PreferredName: "Unanchored"},
		},
	}

	list := svc.VersionBookList(v)
	if len(list.OT) != 1 || list.OT[0].Name != "Genesis" {
		t.Errorf("OT = %+v", list.OT)
	}
	if len(list.NT) != 1 || list.NT[0].DataName != "matt" {
		t.Errorf("NT = %+v", list.NT)
	}
	if len(list.Deu) != 1 || list.Deu[0].DataName != "tob" {
		t.Errorf("Deu = %+v", list.Deu)
	}
}

func TestVersionBookListEzraNehemiahMerge(t *testing.T) {
	tables := loadTables(t)
	svc := New(tables, providers.NewRegistry(), nil, index.NewNameIndex(), nopLogger{}, true)

	combined := &domain.Version{Books: []domain.Book{
		{DataName: "ezra", PreferredName: "Ezra"},
	}}
	list := svc.VersionBookList(combined)
	if len(list.OT) != 1 || list.OT[0].Name != "Ezra/Nehemiah" {
		t.Errorf("OT = %+v, want combined Ezra/Nehemiah", list.OT)
	}

	separate := &domain.Version{Books: []domain.Book{
		{DataName: "ezra", PreferredName: "Ezra"},
		{DataName: "neh", PreferredName: "Nehemiah"},
	}}
	list = svc.VersionBookList(separate)
	if len(list.OT) != 2 || list.OT[0].Name != "Ezra" {
		t.Errorf("OT = %+v, want separate books", list.OT)
	}
}

func TestVersionBookListPsalm151Marker(t *testing.T) {
	tables := loadTables(t)
	svc := New(tables, providers.NewRegistry(), nil, index.NewNameIndex(), nopLogger{}, true)

	chapters := make([]domain.Chapter, 151)
	for i := range chapters {
		chapters[i] = domain.Chapter{Number: i + 1}
	}
	v := &domain.Version{Books: []domain.Book{
		{DataName: "ps", PreferredName: "Psalms", Chapters: chapters},
	}}

	list := svc.VersionBookList(v)
	if len(list.OT) != 1 || list.OT[0].Name != "Psalms (with Psalm 151)" {
		t.Errorf("OT = %+v, want Psalm 151 marker", list.OT)
	}
}
