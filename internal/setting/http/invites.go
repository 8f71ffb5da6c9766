package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

type InvitesHandler struct {
	Invites *service.InviteService
	Views   *views
}

type invitesPage struct {
	Invites []domain.InviteCode
	Error   string
}

func (h *InvitesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *InvitesHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	sess, _ := sessionx.FromContext(r.Context())
	invites, err := h.Invites.List(r.Context(), sess.OrganizationID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list invites", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Views.render(w, status, "invites", invitesPage{Invites: invites, Error: errMsg})
}

func (h *InvitesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionx.FromContext(r.Context())
	code := r.PathValue("code")

	inv, err := h.Invites.Get(r.Context(), sess.OrganizationID, code)
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(r.Context()).Error("failed to fetch invite", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Views.render(w, http.StatusOK, "invite_detail", struct {
		Invite domain.InviteCode
	}{Invite: inv})
}

func (h *InvitesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}

	role := domain.Role(r.FormValue("role"))
	maxUses, err := strconv.Atoi(r.FormValue("max_uses"))
	if err != nil {
		maxUses = 0
	}

	// Zero days is allowed and yields an already-expired code.
	var expiresAt *time.Time
	if days := r.FormValue("expires_days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			h.renderList(w, r, http.StatusBadRequest, "Prazo de expiração inválido.")
			return
		}
		t := time.Now().AddDate(0, 0, n)
		expiresAt = &t
	}

	_, err = h.Invites.Mint(ctx, sess.OrganizationID, role, maxUses, expiresAt, sess.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			h.renderList(w, r, http.StatusBadRequest, "Papel inválido.")
		case errors.Is(err, service.ErrInvalidInvite):
			h.renderList(w, r, http.StatusBadRequest, "Parâmetros do convite inválidos.")
		default:
			log.Error("failed to mint invite", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	httpx.SeeOther(w, r, "/invites")
}

func (h *InvitesHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}

	err := h.Invites.Revoke(ctx, sess.OrganizationID, r.FormValue("invite_id"))
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			h.renderList(w, r, http.StatusNotFound, "Convite não encontrado.")
			return
		}
		slogx.FromContext(ctx).Error("failed to revoke invite", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	httpx.SeeOther(w, r, "/invites")
}
