package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/settingbr/setting/pkg/httpx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageFiles are the content templates, each rendered inside layout.html.
var pageFiles = []string{
	"home",
	"login",
	"signup",
	"request_invite",
	"admin_requests",
	"invites",
	"invite_detail",
	"org_users",
	"session_mode",
	"norms",
	"documents",
	"library",
	"termos",
}

type views struct {
	pages map[string]*template.Template
}

func newViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, name := range pageFiles {
		t, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render writes a page wrapped in the layout. Pages carry session or
// clinical data, so responses are never cacheable.
func (v *views) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := v.pages[page]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, "layout", data)
}
