package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/providers"
)

type searchResponse struct {
	Version string                   `json:"version"`
	Results []providers.SearchResult `json:"results"`
}

// Search runs a keyword search against the version's upstream source.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
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

		results, err := provider.Search(r.Context(), query, version)
		if err != nil {
			if errors.Is(err, providers.ErrUnsupported) {
				writeError(w, http.StatusBadRequest, "search not supported for version "+version.Abbreviation)
				return
			}
			d.Logger.Warn("search failed",
				logger.String("query", query), logger.Error(err))
			writeError(w, http.StatusBadGateway, "upstream search failed")
			return
		}

		if results == nil {
			results = []providers.SearchResult{}
		}
		writeJSON(w, http.StatusOK, searchResponse{Version: version.Abbreviation, Results: results})
	}
}
