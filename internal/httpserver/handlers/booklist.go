package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BibleBot/backend/internal/httpserver/deps"
)

// Booklist returns the version's books partitioned by canon section.
func Booklist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		abbr := strings.TrimSpace(r.URL.Query().Get("version"))
		if abbr == "" {
			abbr = d.DefaultVersion
		}
		version, ok := d.NameIndex.Current().ResolveVersion(abbr)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown version "+strconv.Quote(abbr))
			return
		}

		writeJSON(w, http.StatusOK, d.Metadata.VersionBookList(version))
	}
}
