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

type NormsHandler struct {
	Norms *service.NormCardService
	Views *views
}

type normsPage struct {
	Cards []domain.NormCard
	Error string
}

func (h *NormsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *NormsHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	sess, _ := sessionx.FromContext(r.Context())
	cards, err := h.Norms.List(r.Context(), sess.OrganizationID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list norm cards", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Views.render(w, status, "norms", normsPage{Cards: cards, Error: errMsg})
}

func (h *NormsHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := h.Norms.Add(ctx, sess.OrganizationID, sess.UserID,
		r.FormValue("title"), r.FormValue("source"),
		r.FormValue("practical_summary"), r.FormValue("tags"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidNormCard) {
			h.renderList(w, r, http.StatusBadRequest, "Informe um título.")
			return
		}
		slogx.FromContext(ctx).Error("failed to add norm card", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/normas")
}

func (h *NormsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.Norms.Delete(ctx, sess.OrganizationID, r.FormValue("card_id")); err != nil {
		if errors.Is(err, service.ErrNormCardNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(ctx).Error("failed to delete norm card", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/normas")
}
