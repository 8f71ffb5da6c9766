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

type OrgUsersHandler struct {
	Users *service.OrgUserService
	Views *views
}

type orgUserView struct {
	ID    string
	Email string
	Role  string
}

type orgUsersPage struct {
	Users []orgUserView
	Error string
}

func (h *OrgUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *OrgUsersHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	sess, _ := sessionx.FromContext(r.Context())
	users, err := h.Users.List(r.Context(), sess.OrganizationID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list org users", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := orgUsersPage{Error: errMsg}
	for _, u := range users {
		page.Users = append(page.Users, orgUserView{ID: u.ID, Email: u.Email, Role: string(u.Role)})
	}
	h.Views.render(w, status, "org_users", page)
}

func (h *OrgUsersHandler) Promote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}

	err := h.Users.Promote(ctx, sess.OrganizationID, r.FormValue("user_id"))
	if err != nil {
		h.roleChangeError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, "/admin/usuarios")
}

func (h *OrgUsersHandler) Demote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}

	err := h.Users.Demote(ctx, sess.OrganizationID, r.FormValue("user_id"), sess.UserID)
	if err != nil {
		h.roleChangeError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, "/admin/usuarios")
}

func (h *OrgUsersHandler) roleChangeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.renderList(w, r, http.StatusNotFound, "Usuário não encontrado.")
	case errors.Is(err, service.ErrSelfDemotion):
		h.renderList(w, r, http.StatusConflict, "Você não pode remover seu próprio papel de admin.")
	case errors.Is(err, service.ErrLastAdmin):
		h.renderList(w, r, http.StatusConflict, "A clínica precisa de pelo menos um admin.")
	case errors.Is(err, service.ErrAlreadyHasRole):
		h.renderList(w, r, http.StatusConflict, "O usuário já tem esse papel.")
	default:
		slogx.FromContext(r.Context()).Error("role change failed", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
