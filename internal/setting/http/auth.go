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

type LoginHandler struct {
	Auth     *service.AuthService
	Sessions *sessionx.Manager
	Views    *views
}

type loginPage struct {
	Email string
	Error string
}

func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, http.StatusOK, "login", loginPage{})
}

func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Views.render(w, http.StatusBadRequest, "login", loginPage{Error: "Formulário inválido."})
		return
	}
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.Auth.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.Views.render(w, http.StatusUnauthorized, "login", loginPage{
				Email: email,
				Error: "Usuário ou senha inválidos.",
			})
		case errors.Is(err, service.ErrNoOrganization):
			h.Views.render(w, http.StatusForbidden, "login", loginPage{
				Email: email,
				Error: "Conta sem clínica vinculada. Fale com o administrador.",
			})
		default:
			log.Error("login failed", slog.Any("error", err))
			h.Views.render(w, http.StatusInternalServerError, "login", loginPage{
				Email: email,
				Error: "Erro interno. Tente novamente.",
			})
		}
		return
	}

	if err := h.Sessions.Issue(w, sessionx.Session{
		UserID:         user.ID,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
		Role:           string(user.Role),
	}); err != nil {
		log.Error("failed to issue session", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/")
}

func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	httpx.SeeOther(w, r, "/login")
}
