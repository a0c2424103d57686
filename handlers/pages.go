package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"public-notes/templates"
)

type Pages struct {
	renderer *templates.Renderer
}

func NewPages(renderer *templates.Renderer) *Pages {
	return &Pages{renderer: renderer}
}

func (h *Pages) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, templates.CreatePage)
}

func (h *Pages) SearchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, templates.SearchPage)
}

func (h *Pages) UserPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, templates.UserPage)
}

func (h *Pages) render(w http.ResponseWriter, r *http.Request, page string) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("Rendering page failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"status":        "unhealthy",
				"db_connection": "failed",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":        "healthy",
			"db_connection": "ok",
		})
	}
}
