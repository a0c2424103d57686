package handlers

import (
	"context"
	"fmt"
	"net/http"

	"public-notes/models"
	"public-notes/repository"
	"public-notes/validation"
)

// NoteStore is what the note handlers need from the repository.
type NoteStore interface {
	Create(ctx context.Context, note models.Note) (models.Note, error)
	DeleteByTag(ctx context.Context, tag int64) (int64, error)
	ListAll(ctx context.Context, limit int) ([]models.Note, error)
	FindByTag(ctx context.Context, tag int64, limit int) ([]models.Note, error)
	FindByEmail(ctx context.Context, email string, limit int) ([]models.Note, error)
}

type Notes struct {
	store NoteStore
}

func NewNotes(store NoteStore) *Notes {
	return &Notes{store: store}
}

func (h *Notes) CreateNote(w http.ResponseWriter, r *http.Request) {
	var payload models.NotePayload
	if !decode(w, r, &payload) {
		return
	}

	note, err := validation.Validate(payload)
	if err != nil {
		fail(w, r, "create_note", err)
		return
	}

	note, err = h.store.Create(r.Context(), note)
	if err != nil {
		fail(w, r, "create_note", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Note created with tag %d", note.Tag),
		"tag":     note.Tag,
	})
}

func (h *Notes) DeleteNotesByTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRequest
	if !decode(w, r, &req) {
		return
	}

	tag, err := validation.ParseTag(req.Tag)
	if err != nil {
		fail(w, r, "remove_notes_by_tag", err)
		return
	}

	deleted, err := h.store.DeleteByTag(r.Context(), tag)
	if err != nil {
		fail(w, r, "remove_notes_by_tag", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Deleted %d note(s) with tag %d", deleted, tag),
		"deleted": deleted,
	})
}

func (h *Notes) GetAllNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.ListAll(r.Context(), repository.DefaultLimit)
	if err != nil {
		fail(w, r, "get_all_notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Notes) GetNotesPerTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRequest
	if !decode(w, r, &req) {
		return
	}

	tag, err := validation.ParseTag(req.Tag)
	if err != nil {
		fail(w, r, "get_notes_per_tag", err)
		return
	}

	notes, err := h.store.FindByTag(r.Context(), tag, repository.DefaultLimit)
	if err != nil {
		fail(w, r, "get_notes_per_tag", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Notes) GetNotesPerEmail(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == nil {
		fail(w, r, "get_notes_per_email", &validation.FieldError{Field: "email", Err: validation.ErrMissingField})
		return
	}

	notes, err := h.store.FindByEmail(r.Context(), *req.Email, repository.DefaultLimit)
	if err != nil {
		fail(w, r, "get_notes_per_email", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
