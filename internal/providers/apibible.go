package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/httpcache"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/refparse"
)

// expandoFallbackVerse caps an open-ended range when the chapter's verse
// count cannot be determined. The API tolerates over-long ranges by
// clamping to the last verse of the chapter.
const expandoFallbackVerse = 200

// APIBible serves versions sourced from a fixed JSON API. The API has no
// "read to end of chapter" notion, so open-ended ranges are resolved to a
// concrete ending verse before dispatch.
type APIBible struct {
	baseURL string
	apiKey  string
	client  *httpcache.Client
	log     logger.Logger
}

var apiBibleRules = renderRules{
	VerseNumClasses:   []string{"v"},
	ChapterNumClasses: []string{"c"},
	HeadingTags:       []string{"h3"},
	PsalmTitleClasses: []string{"d"},
	SkipClasses:       []string{"f", "x", "fr", "ft"},
}

// apiBookCodes maps book data names to the API's book identifiers.
var apiBookCodes = map[string]string{
	"gen": "GEN", "exod": "EXO", "lev": "LEV", "num": "NUM", "deut": "DEU",
	"josh": "JOS", "judg": "JDG", "ruth": "RUT", "1sam": "1SA", "2sam": "2SA",
	"1kgs": "1KI", "2kgs": "2KI", "1chr": "1CH", "2chr": "2CH", "ezra": "EZR",
	"neh": "NEH", "esth": "EST", "job": "JOB", "ps": "PSA", "prov": "PRO",
	"eccl": "ECC", "song": "SNG", "isa": "ISA", "jer": "JER", "lam": "LAM",
	"ezek": "EZK", "dan": "DAN", "hos": "HOS", "joel": "JOL", "amos": "AMO",
	"obad": "OBA", "jonah": "JON", "mic": "MIC", "nah": "NAM", "hab": "HAB",
	"zeph": "ZEP", "hag": "HAG", "zech": "ZEC", "mal": "MAL",
	"matt": "MAT", "mark": "MRK", "luke": "LUK", "john": "JHN", "acts": "ACT",
	"rom": "ROM", "1cor": "1CO", "2cor": "2CO", "gal": "GAL", "eph": "EPH",
	"phil": "PHP", "col": "COL", "1thess": "1TH", "2thess": "2TH",
	"1tim": "1TI", "2tim": "2TI", "titus": "TIT", "phlm": "PHM", "heb": "HEB",
	"jas": "JAS", "1pet": "1PE", "2pet": "2PE", "1john": "1JN", "2john": "2JN",
	"3john": "3JN", "jude": "JUD", "rev": "REV",
	"tob": "TOB", "jdt": "JDT", "gkesth": "ESG", "addesth": "ADE", "wis": "WIS",
	"sir": "SIR", "bar": "BAR", "epjer": "LJE", "praz": "S3Y", "sus": "SUS",
	"bel": "BEL", "sgthree": "S3Y", "1macc": "1MA", "2macc": "2MA",
	"3macc": "3MA", "4macc": "4MA", "1esd": "1ES", "2esd": "2ES",
	"prman": "MAN", "ps151": "PS2",
}

// NewAPIBible creates the JSON API provider.
func NewAPIBible(baseURL, apiKey string, client *httpcache.Client, log logger.Logger) *APIBible {
	return &APIBible{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		log:     log,
	}
}

func (p *APIBible) Name() string { return "ab" }

func (p *APIBible) ResolvesExpando() bool { return false }

func (p *APIBible) header() http.Header {
	h := http.Header{}
	h.Set("api-key", p.apiKey)
	h.Set("Accept", "application/json")
	return h
}

func bibleID(v *domain.Version) string {
	if v.SourceID != "" {
		return v.SourceID
	}
	return v.Abbreviation
}

func (p *APIBible) Verse(ctx context.Context, ref *domain.Reference, opts FetchOptions) (*domain.VerseResult, error) {
	code, ok := apiBookCodes[ref.Book]
	if !ok {
		return nil, fmt.Errorf("%w: no book code for %q", ErrNotFound, ref.Book)
	}

	// The resolved chapter end feeds the passage span only; the reference
	// itself stays as parsed so its identity is stable for callers.
	endVerse := ref.EndingVerse
	if ref.IsExpandoVerse && endVerse == 0 {
		endVerse = p.resolveChapterEnd(ctx, ref.Version, code, ref.StartingChapter)
	}

	spans := [][2][2]int{{
		{ref.StartingChapter, ref.StartingVerse},
		{ref.EndingChapter, endVerse},
	}}
	for _, ap := range ref.AppendedVerses {
		spans = append(spans, [2][2]int{
			{ref.StartingChapter, ap.Start},
			{ref.StartingChapter, ap.End},
		})
	}

	var (
		pieces []string
		titles []string
		psalm  string
	)
	for _, span := range spans {
		passageID := fmt.Sprintf("%s.%d.%d-%s.%d.%d",
			code, span[0][0], span[0][1], code, span[1][0], span[1][1])
		out, err := p.fetchPassage(ctx, ref.Version, passageID, opts)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, out.Text)
		titles = append(titles, out.Titles...)
		if psalm == "" {
			psalm = out.PsalmTitle
		}
	}

	result := &domain.VerseResult{
		Reference:  ref,
		PsalmTitle: psalm,
		Text:       strings.Join(pieces, "\n"),
	}
	if opts.TitlesEnabled {
		result.Title = strings.Join(titles, " / ")
	}
	return result, nil
}

func (p *APIBible) VerseFromString(ctx context.Context, raw string, version *domain.Version, opts FetchOptions) (*domain.VerseResult, error) {
	ref, ok := refparse.ParseTrusted(raw, version)
	if !ok {
		return nil, fmt.Errorf("%w: unparseable trusted reference %q", ErrNotFound, raw)
	}

	// Trusted strings carry display names; recover the book code from the
	// API's own book list.
	books, err := p.BookNames(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	for _, b := range books {
		if strings.EqualFold(b.PreferredName, ref.ProperName) {
			for key, c := range apiBookCodes {
				if c == b.InternalName {
					ref.Book = key
					break
				}
			}
			break
		}
	}
	if ref.Book == "" {
		return nil, fmt.Errorf("%w: unknown book %q", ErrNotFound, ref.ProperName)
	}
	return p.Verse(ctx, ref, opts)
}

// fetchPassage retrieves one passage span and renders its HTML content.
func (p *APIBible) fetchPassage(ctx context.Context, version *domain.Version, passageID string, opts FetchOptions) (rendered, error) {
	passageURL := fmt.Sprintf("%s/v1/bibles/%s/passages/%s?content-type=html&include-titles=%t&include-verse-numbers=%t",
		p.baseURL, url.PathEscape(bibleID(version)), url.PathEscape(passageID),
		opts.TitlesEnabled, opts.VerseNumbersEnabled)

	body, _, err := p.client.Get(ctx, passageURL, p.header(), trimToDataField)
	if err != nil {
		return rendered{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var payload struct {
		Data struct {
			Reference string `json:"reference"`
			Content   string `json:"content"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rendered{}, fmt.Errorf("%w: malformed passage payload: %v", ErrNotFound, err)
	}
	if payload.Data.Content == "" {
		return rendered{}, fmt.Errorf("%w: empty passage %s", ErrNotFound, passageID)
	}

	doc, err := html.Parse(bytes.NewReader([]byte(payload.Data.Content)))
	if err != nil {
		return rendered{}, fmt.Errorf("%w: malformed passage content: %v", ErrNotFound, err)
	}
	out := renderHTML(doc, apiBibleRules, opts)
	if out.Text == "" {
		return rendered{}, fmt.Errorf("%w: empty passage %s", ErrNotFound, passageID)
	}
	return out, nil
}

// resolveChapterEnd determines the last verse of a chapter via the verse
// list endpoint, falling back to a safe upper bound.
func (p *APIBible) resolveChapterEnd(ctx context.Context, version *domain.Version, code string, chapter int) int {
	versesURL := fmt.Sprintf("%s/v1/bibles/%s/chapters/%s.%d/verses",
		p.baseURL, url.PathEscape(bibleID(version)), url.PathEscape(code), chapter)

	body, _, err := p.client.Get(ctx, versesURL, p.header(), trimToDataField)
	if err != nil {
		p.log.Debug("verse count lookup failed, using fallback bound",
			logger.String("chapter", fmt.Sprintf("%s.%d", code, chapter)), logger.Error(err))
		return expandoFallbackVerse
	}

	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Data) == 0 {
		return expandoFallbackVerse
	}
	return len(payload.Data)
}

func (p *APIBible) Search(ctx context.Context, query string, version *domain.Version) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/v1/bibles/%s/search?query=%s",
		p.baseURL, url.PathEscape(bibleID(version)), url.QueryEscape(query))

	body, _, err := p.client.Get(ctx, searchURL, p.header(), trimToDataField)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var payload struct {
		Data struct {
			Verses []struct {
				Reference string `json:"reference"`
				Text      string `json:"text"`
			} `json:"verses"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed search payload: %v", ErrNotFound, err)
	}

	results := make([]SearchResult, 0, len(payload.Data.Verses))
	for _, v := range payload.Data.Verses {
		results = append(results, SearchResult{Reference: v.Reference, Excerpt: v.Text})
	}
	return results, nil
}

func (p *APIBible) BookNames(ctx context.Context, version *domain.Version) ([]domain.Book, error) {
	booksURL := fmt.Sprintf("%s/v1/bibles/%s/books", p.baseURL, url.PathEscape(bibleID(version)))

	body, _, err := p.client.Get(ctx, booksURL, p.header(), trimToDataField)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book list: %w", err)
	}

	var payload struct {
		Data []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed book list payload: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("no books found in book list for %s", version.Abbreviation)
	}

	books := make([]domain.Book, 0, len(payload.Data))
	for _, b := range payload.Data {
		books = append(books, domain.Book{
			InternalName:  b.ID,
			PreferredName: b.Name,
		})
	}
	return books, nil
}

// trimToDataField keeps only the data field of a JSON response when it is
// cached; everything else (metadata, usage beacons) is storage waste.
func trimToDataField(body []byte) ([]byte, error) {
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("no data field in response")
	}
	trimmed, err := json.Marshal(struct {
		Data json.RawMessage `json:"data"`
	}{Data: payload.Data})
	if err != nil {
		return nil, err
	}
	return trimmed, nil
}
