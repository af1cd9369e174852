package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/providers"
	"github.com/BibleBot/backend/internal/purify"
)

// maxResolveBody caps the request body; chat messages are small.
const maxResolveBody = 64 << 10

type resolveRequest struct {
	Text         string `json:"text"`
	Version      string `json:"version,omitempty"`
	Titles       *bool  `json:"titles,omitempty"`
	VerseNumbers *bool  `json:"verseNumbers,omitempty"`
	// IgnoringBrackets is an optional two-character open/close pair, e.g.
	// "[]"; text enclosed in it is skipped during reference detection.
	IgnoringBrackets string `json:"ignoringBrackets,omitempty"`
}

func (req *resolveRequest) bracketPairs() ([]purify.BracketPair, bool) {
	if req.IgnoringBrackets == "" {
		return nil, true
	}
	runes := []rune(req.IgnoringBrackets)
	if len(runes) != 2 {
		return nil, false
	}
	return []purify.BracketPair{{Open: string(runes[0]), Close: string(runes[1])}}, true
}

// Resolve takes raw message text and returns every scripture passage it
// mentions, fetched from the appropriate source.
func Resolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxResolveBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		extra, ok := req.bracketPairs()
		if !ok {
			writeError(w, http.StatusBadRequest, "ignoringBrackets must be a two-character pair")
			return
		}

		opts := providers.FetchOptions{TitlesEnabled: true, VerseNumbersEnabled: true}
		if req.Titles != nil {
			opts.TitlesEnabled = *req.Titles
		}
		if req.VerseNumbers != nil {
			opts.VerseNumbersEnabled = *req.VerseNumbers
		}

		result, err := d.Resolver.Resolve(r.Context(), req.Text, req.Version, opts, extra...)
		if err != nil {
			if errors.Is(err, providers.ErrProviderNotFound) {
				d.Logger.Error("resolve hit an unregistered source", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "source not configured")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
