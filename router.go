package main

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"public-notes/db"
	"public-notes/handlers"
	appmw "public-notes/middleware"
	"public-notes/repository"
	"public-notes/templates"
)

func newRouter(gw *db.Gateway, log zerolog.Logger) (*chi.Mux, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	notes := handlers.NewNotes(repository.NewNoteRepository(gw, log))
	pages := handlers.NewPages(renderer)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(appmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(appmw.CORS)

	r.Get("/", pages.CreatePage)
	r.Get("/search", pages.SearchPage)
	r.Get("/notesperuser", pages.UserPage)
	r.Get("/health", handlers.Health(gw))

	r.Post("/create_note", notes.CreateNote)
	r.Delete("/remove_notes_by_tag", notes.DeleteNotesByTag)
	r.Get("/get_all_notes", notes.GetAllNotes)
	r.Post("/get_notes_per_tag", notes.GetNotesPerTag)
	r.Post("/get_notes_per_email", notes.GetNotesPerEmail)

	return r, nil
}
