package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/httpserver/handlers"
	"github.com/BibleBot/backend/internal/httpserver/mw"
)

func init() { Register(registerResolve) }

func registerResolve(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             20,
		RefillPerIPPerMin: 60,
		MaxEntries:        4096,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/resolve", handlers.Resolve(d))
}
