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

// InviteRequestHandler serves the public "ask for an invite" form.
type InviteRequestHandler struct {
	Requests *service.InviteRequestService
	Views    *views
}

type requestPage struct {
	Name    string
	Email   string
	Message string
	Sent    bool
	Error   string
}

func (h *InviteRequestHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, http.StatusOK, "request_invite", requestPage{})
}

func (h *InviteRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Views.render(w, http.StatusBadRequest, "request_invite", requestPage{Error: "Formulário inválido."})
		return
	}
	page := requestPage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	_, err := h.Requests.Submit(ctx, page.Name, page.Email, page.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			page.Error = "Informe um e-mail válido."
			h.Views.render(w, http.StatusBadRequest, "request_invite", page)
			return
		}
		log.Error("invite request failed", slog.Any("error", err))
		page.Error = "Erro interno. Tente novamente."
		h.Views.render(w, http.StatusInternalServerError, "request_invite", page)
		return
	}

	h.Views.render(w, http.StatusOK, "request_invite", requestPage{Sent: true})
}

// AdminRequestsHandler is the admin queue over the public requests.
type AdminRequestsHandler struct {
	Requests *service.InviteRequestService
	Views    *views
}

type adminRequestsPage struct {
	Requests []domain.InviteRequest
	Error    string
}

func (h *AdminRequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "")
}

func (h *AdminRequestsHandler) renderList(w http.ResponseWriter, r *http.Request, errMsg string) {
	reqs, err := h.Requests.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list invite requests", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusConflict
	}
	h.Views.render(w, status, "admin_requests", adminRequestsPage{Requests: reqs, Error: errMsg})
}

func (h *AdminRequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, "Formulário inválido.")
		return
	}
	requestID := r.FormValue("request_id")

	role := domain.Role(r.FormValue("role"))
	if role == "" {
		role = domain.RoleMember
	}

	maxUses := 1
	if v := r.FormValue("max_uses"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.renderList(w, r, "Parâmetros do convite inválidos.")
			return
		}
		maxUses = n
	}

	expiresDays := 7
	if v := r.FormValue("expires_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.renderList(w, r, "Prazo de expiração inválido.")
			return
		}
		expiresDays = n
	}
	expiresAt := time.Now().AddDate(0, 0, expiresDays)

	_, err := h.Requests.Approve(ctx, sess.OrganizationID, requestID, sess.UserID, role, maxUses, &expiresAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestAlreadyHandled):
			h.renderList(w, r, "Esta solicitação já foi atendida.")
		case errors.Is(err, service.ErrRequestNotFound):
			h.renderList(w, r, "Solicitação não encontrada.")
		case errors.Is(err, service.ErrInvalidRole):
			h.renderList(w, r, "Papel inválido.")
		case errors.Is(err, service.ErrInvalidInvite):
			h.renderList(w, r, "Parâmetros do convite inválidos.")
		default:
			log.Error("approval failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	httpx.SeeOther(w, r, "/admin/solicitacoes")
}
