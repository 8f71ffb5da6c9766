package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

type LibraryHandler struct {
	Library *service.LibraryService
	Views   *views
}

type libraryPage struct {
	Items []domain.LibraryItem
	Error string
}

func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *LibraryHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	sess, _ := sessionx.FromContext(r.Context())
	items, err := h.Library.List(r.Context(), sess.OrganizationID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list library items", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Views.render(w, status, "library", libraryPage{Items: items, Error: errMsg})
}

func (h *LibraryHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := h.Library.Add(ctx, sess.OrganizationID, sess.UserID,
		r.FormValue("title"), r.FormValue("filename"), r.FormValue("notes"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidLibraryItem) {
			h.renderList(w, r, http.StatusBadRequest, "Informe um título.")
			return
		}
		slogx.FromContext(ctx).Error("failed to add library item", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/biblioteca")
}

func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.Library.Delete(ctx, sess.OrganizationID, r.FormValue("item_id")); err != nil {
		if errors.Is(err, service.ErrLibraryItemNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(ctx).Error("failed to delete library item", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/biblioteca")
}
