package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/providers"
)

// Verse fetches a single passage from an exact, pre-formed reference
// string like "Genesis 1:1-3". No scanning or purification is applied.
func Verse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refStr := strings.TrimSpace(r.URL.Query().Get("ref"))
		if refStr == "" {
			writeError(w, http.StatusBadRequest, "ref is required")
			return
		}

		abbr := strings.TrimSpace(r.URL.Query().Get("version"))
		if abbr == "" {
			abbr = d.DefaultVersion
		}
		version, ok := d.NameIndex.Current().ResolveVersion(abbr)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown version "+strconv.Quote(abbr))
			return
		}

		provider, err := d.Registry.Get(version.Source)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "source not configured")
			return
		}

		opts := providers.FetchOptions{
			TitlesEnabled:       queryBool(r, "titles", true),
			VerseNumbersEnabled: queryBool(r, "verseNumbers", true),
		}

		result, err := provider.VerseFromString(r.Context(), refStr, version, opts)
		if err != nil {
			switch {
			case errors.Is(err, providers.ErrNotFound):
				writeError(w, http.StatusNotFound, "passage not found")
			case errors.Is(err, providers.ErrUnsupported):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusBadGateway, "upstream fetch failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func queryBool(r *http.Request, key string, def bool) bool {
	if v := r.URL.Query().Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
