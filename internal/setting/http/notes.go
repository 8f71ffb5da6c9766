package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

type NotesHandler struct {
	Notes *service.NoteService
	Views *views
}

type notesPage struct {
	service.NoteListing
	Error string
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionx.FromContext(r.Context())
	patient := r.URL.Query().Get("patient")

	listing, err := h.Notes.List(r.Context(), sess.OrganizationID, patient)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list notes", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Views.render(w, http.StatusOK, "session_mode", notesPage{NoteListing: listing})
}

func (h *NotesHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := h.Notes.Add(ctx, sess.OrganizationID, sess.UserID,
		r.FormValue("patient_alias"), r.FormValue("stage"), r.FormValue("content"))
	if err != nil {
		h.noteError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, "/modo-sessao")
}

func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := h.Notes.Update(ctx, sess.OrganizationID, r.FormValue("note_id"),
		r.FormValue("patient_alias"), r.FormValue("stage"), r.FormValue("content"))
	if err != nil {
		h.noteError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, "/modo-sessao")
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.Notes.Delete(ctx, sess.OrganizationID, r.FormValue("note_id")); err != nil {
		h.noteError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, "/modo-sessao")
}

func (h *NotesHandler) noteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrInvalidStage):
		http.Error(w, "invalid stage", http.StatusBadRequest)
	default:
		slogx.FromContext(r.Context()).Error("note operation failed", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
