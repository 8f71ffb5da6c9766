package http

import (
	"net/http"

	"github.com/settingbr/setting/pkg/sessionx"
)

type PagesHandler struct {
	Views *views
}

type homePage struct {
	Email   string
	IsAdmin bool
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionx.FromContext(r.Context())
	h.Views.render(w, http.StatusOK, "home", homePage{
		Email:   sess.Email,
		IsAdmin: sess.Role == "admin",
	})
}
