package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/httpserver/handlers"
)

func init() { Register(registerVerse) }

func registerVerse(r chi.Router, d deps.Deps) {
	r.Get("/api/verse", handlers.Verse(d))
}
