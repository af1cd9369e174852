package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BibleBot/backend/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	SynonymsLoaded *int   `json:"synonyms_loaded,omitempty"`
	VersionsLoaded *int   `json:"versions_loaded,omitempty"`
	SourcesLoaded  *int   `json:"sources_loaded,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports component health: the book-name index, Redis, and the
// registered upstream sources.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		snap := d.NameIndex.Current()
		synonyms := len(snap.Synonyms())
		versions := len(snap.Versions())

		lastReload := d.NameIndex.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"index": {
				OK:             synonyms > 0,
				SynonymsLoaded: &synonyms,
				VersionsLoaded: &versions,
				LastReload:     lastReloadStr,
			},
			"redis":   checkRedis(d),
			"sources": checkSources(d),
		}

		response := infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineServingMode(components map[string]componentStatus) string {
	// No index means nothing can resolve
	if idx, exists := components["index"]; exists && !idx.OK {
		return "critical"
	}

	// Redis down is survivable, cache falls back to memory
	if rc, exists := components["redis"]; exists && !rc.OK {
		return "degraded"
	}

	return "full"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		mode := "dry-run"
		if !d.DryRun {
			mode = "degraded"
		}
		return componentStatus{
			OK:     d.DryRun,
			Mode:   mode,
			Impact: "response-cache-in-memory-only",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "response-cache-in-memory-only",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "response-cache-persistent",
		Error:  "none",
	}
}

func checkSources(d deps.Deps) componentStatus {
	n := len(d.Registry.All())
	return componentStatus{
		OK:            n > 0,
		Mode:          "registered",
		SourcesLoaded: &n,
	}
}
