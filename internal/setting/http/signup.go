package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

type SignupHandler struct {
	Invites  *service.InviteService
	Sessions *sessionx.Manager
	Views    *views
}

type signupPage struct {
	Code  string
	Email string
	Error string
}

// ShowForm renders the signup form. When a code is passed in the query it
// is pre-validated so the visitor learns about a dead invite before typing
// anything.
func (h *SignupHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	page := signupPage{Code: code}

	if code != "" {
		switch err := h.Invites.Preview(r.Context(), code); {
		case errors.Is(err, service.ErrInviteRevoked):
			page.Error = "Este convite foi revogado."
		case errors.Is(err, service.ErrInviteExpired):
			page.Error = "Este convite expirou."
		case errors.Is(err, service.ErrInviteExhausted):
			page.Error = "Este convite já foi utilizado."
		case err != nil:
			page.Error = "Convite não encontrado. Verifique o código."
		}
	}

	h.Views.render(w, http.StatusOK, "signup", page)
}

func (h *SignupHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Views.render(w, http.StatusBadRequest, "signup", signupPage{Error: "Formulário inválido."})
		return
	}
	code := r.FormValue("code")
	email := r.FormValue("email")
	password := r.FormValue("password")
	page := signupPage{Code: code, Email: email}

	_, err := h.Invites.Redeem(ctx, code, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			page.Error = "Convite não encontrado."
		case errors.Is(err, service.ErrInviteRevoked):
			page.Error = "Este convite foi revogado."
		case errors.Is(err, service.ErrInviteExpired):
			page.Error = "Este convite expirou."
		case errors.Is(err, service.ErrInviteExhausted):
			page.Error = "Este convite já foi utilizado."
		case errors.Is(err, service.ErrEmailTaken):
			page.Error = "Este e-mail já está cadastrado. Faça login."
		case errors.Is(err, service.ErrInvalidSignup):
			page.Error = "Preencha código, e-mail e senha."
		default:
			log.Error("signup failed", slog.Any("error", err))
			page.Error = "Erro interno. Tente novamente."
			h.Views.render(w, http.StatusInternalServerError, "signup", page)
			return
		}
		h.Views.render(w, http.StatusBadRequest, "signup", page)
		return
	}

	httpx.SeeOther(w, r, "/login")
}
