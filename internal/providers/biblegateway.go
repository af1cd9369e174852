package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/httpcache"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/refparse"
)

// BibleGateway serves versions sourced from an HTML passage site. It is
// the only source that can serve an open-ended range itself: the page it
// returns for "C:V-" simply runs to the end of the chapter.
type BibleGateway struct {
	baseURL string
	client  *httpcache.Client
	log     logger.Logger
}

var bibleGatewayRules = renderRules{
	VerseNumClasses:   []string{"versenum"},
	ChapterNumClasses: []string{"chapternum"},
	HeadingTags:       []string{"h3", "h4"},
	PsalmTitleClasses: []string{"psalm-title"},
	SkipClasses:       []string{"footnote", "footnotes", "crossreference", "crossrefs", "full-chap-link"},
}

// NewBibleGateway creates the HTML-scraping provider.
func NewBibleGateway(baseURL string, client *httpcache.Client, log logger.Logger) *BibleGateway {
	return &BibleGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log,
	}
}

func (p *BibleGateway) Name() string { return "bg" }

func (p *BibleGateway) ResolvesExpando() bool { return true }

func (p *BibleGateway) Verse(ctx context.Context, ref *domain.Reference, opts FetchOptions) (*domain.VerseResult, error) {
	return p.fetchPassage(ctx, ref, ref.AsString(), opts)
}

func (p *BibleGateway) VerseFromString(ctx context.Context, raw string, version *domain.Version, opts FetchOptions) (*domain.VerseResult, error) {
	ref, ok := refparse.ParseTrusted(raw, version)
	if !ok {
		return nil, fmt.Errorf("%w: unparseable trusted reference %q", ErrNotFound, raw)
	}
	return p.fetchPassage(ctx, ref, raw, opts)
}

func (p *BibleGateway) fetchPassage(ctx context.Context, ref *domain.Reference, query string, opts FetchOptions) (*domain.VerseResult, error) {
	passageURL := fmt.Sprintf("%s/passage/?search=%s&version=%s",
		p.baseURL, url.QueryEscape(query), url.QueryEscape(ref.Version.Abbreviation))

	body, _, err := p.client.Get(ctx, passageURL, nil, trimToClass("passage-text"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse passage page: %v", ErrNotFound, err)
	}

	passage := findByClass(doc, "passage-text")
	if passage == nil {
		return nil, fmt.Errorf("%w: no passage content for %q", ErrNotFound, query)
	}

	out := renderHTML(passage, bibleGatewayRules, opts)
	if out.Text == "" {
		return nil, fmt.Errorf("%w: empty passage for %q", ErrNotFound, query)
	}

	result := &domain.VerseResult{
		Reference:  ref,
		PsalmTitle: out.PsalmTitle,
		Text:       out.Text,
	}
	if opts.TitlesEnabled {
		result.Title = strings.Join(out.Titles, " / ")
	}
	return result, nil
}

func (p *BibleGateway) Search(ctx context.Context, query string, version *domain.Version) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/quicksearch/?quicksearch=%s&version=%s",
		p.baseURL, url.QueryEscape(query), url.QueryEscape(version.Abbreviation))

	body, _, err := p.client.Get(ctx, searchURL, nil, trimToClass("search-result-list"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse search page: %v", ErrNotFound, err)
	}

	var results []SearchResult
	for _, item := range findAllByClass(doc, "bible-item") {
		refNode := findByClass(item, "bible-item-title")
		textNode := findByClass(item, "bible-item-text")
		if refNode == nil || textNode == nil {
			continue
		}
		results = append(results, SearchResult{
			Reference: strings.TrimSpace(nodeText(refNode)),
			Excerpt:   strings.TrimSpace(nodeText(textNode)),
		})
	}
	return results, nil
}

func (p *BibleGateway) BookNames(ctx context.Context, version *domain.Version) ([]domain.Book, error) {
	listURL := fmt.Sprintf("%s/versions/%s/#booklist", p.baseURL, url.QueryEscape(version.Abbreviation))

	body, _, err := p.client.Get(ctx, listURL, nil, trimToClass("chapterlinks"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book list: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse book list: %w", err)
	}

	var books []domain.Book
	for _, cell := range findAllByClass(doc, "book-name") {
		name := strings.TrimSpace(nodeText(cell))
		if name == "" {
			continue
		}
		books = append(books, domain.Book{
			InternalName:  attrValue(cell, "data-osis"),
			PreferredName: name,
		})
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("no books found in book list for %s", version.Abbreviation)
	}
	return books, nil
}

// trimToClass keeps only the subtree carrying the given class when a
// response is cached; the semantic content callers see is unchanged.
func trimToClass(class string) httpcache.Trimmer {
	return func(body []byte) ([]byte, error) {
		doc, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		node := findByClass(doc, class)
		if node == nil {
			return nil, fmt.Errorf("no %q fragment in response", class)
		}
		return renderFragment(node)
	}
}
