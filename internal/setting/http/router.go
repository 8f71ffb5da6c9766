// Package http wires the web surface of the application: the router, the
// page handlers and the embedded templates they render.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions  *sessionx.Manager
	views     *views
	startTime time.Time
	version   string
	logger    *slog.Logger

	store                store.Store
	AuthService          *service.AuthService
	InviteService        *service.InviteService
	InviteRequestService *service.InviteRequestService
	OrgUserService       *service.OrgUserService
	NoteService          *service.NoteService
	NormCardService      *service.NormCardService
	DocTemplateService   *service.DocTemplateService
	LibraryService       *service.LibraryService
}

func NewRouter(
	sessions *sessionx.Manager,
	version string,
	st store.Store,
	logger *slog.Logger,
) (*Router, error) {
	v, err := newViews()
	if err != nil {
		return nil, err
	}

	r := &Router{
		Mux:       http.NewServeMux(),
		sessions:  sessions,
		views:     v,
		startTime: time.Now(),
		version:   version,
		store:     st,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r, nil
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerApp()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// registerPublic wires the routes reachable without a session. They skip
// the session middleware entirely, so visiting them never slides the
// inactivity window.
func (r *Router) registerPublic() {
	login := &LoginHandler{Auth: r.AuthService, Sessions: r.sessions, Views: r.views}
	r.Mux.HandleFunc("GET /login", login.ShowForm)
	r.Mux.HandleFunc("POST /login", login.Submit)
	r.Mux.HandleFunc("GET /logout", login.Logout)

	signup := &SignupHandler{Invites: r.InviteService, Sessions: r.sessions, Views: r.views}
	r.Mux.HandleFunc("GET /signup", signup.ShowForm)
	r.Mux.HandleFunc("POST /signup", signup.Submit)

	request := &InviteRequestHandler{Requests: r.InviteRequestService, Views: r.views}
	r.Mux.HandleFunc("GET /solicitar-convite", request.ShowForm)
	r.Mux.HandleFunc("POST /solicitar-convite", request.Submit)

	r.Mux.HandleFunc("GET /termos", func(w http.ResponseWriter, req *http.Request) {
		r.views.render(w, http.StatusOK, "termos", nil)
	})

	r.Mux.Handle("GET /static/", http.FileServerFS(staticFS))
}

// user wraps h with the session chain for signed-in routes.
func (r *Router) user(h http.Handler) http.Handler {
	return httpx.Chain(h, r.sessions.Middleware, sessionx.RequireUser)
}

// admin additionally requires the admin role.
func (r *Router) admin(h http.Handler) http.Handler {
	return httpx.Chain(h, r.sessions.Middleware, sessionx.RequireAdmin)
}

func (r *Router) registerApp() {
	pages := &PagesHandler{Views: r.views}
	r.Mux.Handle("GET /{$}", r.user(http.HandlerFunc(pages.Home)))

	notes := &NotesHandler{Notes: r.NoteService, Views: r.views}
	r.Mux.Handle("GET /modo-sessao", r.user(http.HandlerFunc(notes.List)))
	r.Mux.Handle("POST /modo-sessao/add", r.user(http.HandlerFunc(notes.Add)))
	r.Mux.Handle("POST /modo-sessao/update", r.user(http.HandlerFunc(notes.Update)))
	r.Mux.Handle("POST /modo-sessao/delete", r.user(http.HandlerFunc(notes.Delete)))

	norms := &NormsHandler{Norms: r.NormCardService, Views: r.views}
	r.Mux.Handle("GET /normas", r.user(http.HandlerFunc(norms.List)))
	r.Mux.Handle("POST /normas/add", r.user(http.HandlerFunc(norms.Add)))
	r.Mux.Handle("POST /normas/delete", r.user(http.HandlerFunc(norms.Delete)))

	docs := &DocumentsHandler{Docs: r.DocTemplateService, Views: r.views}
	r.Mux.Handle("GET /documentos", r.user(http.HandlerFunc(docs.List)))
	r.Mux.Handle("POST /documentos/add", r.user(http.HandlerFunc(docs.Add)))
	r.Mux.Handle("POST /documentos/update", r.user(http.HandlerFunc(docs.Update)))
	r.Mux.Handle("POST /documentos/render", r.user(http.HandlerFunc(docs.Render)))

	library := &LibraryHandler{Library: r.LibraryService, Views: r.views}
	r.Mux.Handle("GET /biblioteca", r.user(http.HandlerFunc(library.List)))
	r.Mux.Handle("POST /biblioteca/add", r.user(http.HandlerFunc(library.Add)))
	r.Mux.Handle("POST /biblioteca/delete", r.user(http.HandlerFunc(library.Delete)))
}

func (r *Router) registerAdmin() {
	invites := &InvitesHandler{Invites: r.InviteService, Views: r.views}
	r.Mux.Handle("GET /invites", r.admin(http.HandlerFunc(invites.List)))
	r.Mux.Handle("GET /invites/{code}", r.admin(http.HandlerFunc(invites.Detail)))
	r.Mux.Handle("POST /invites/create", r.admin(http.HandlerFunc(invites.Create)))
	r.Mux.Handle("POST /invites/revoke", r.admin(http.HandlerFunc(invites.Revoke)))

	requests := &AdminRequestsHandler{Requests: r.InviteRequestService, Views: r.views}
	r.Mux.Handle("GET /admin/solicitacoes", r.admin(http.HandlerFunc(requests.List)))
	r.Mux.Handle("POST /admin/solicitacoes/aprovar", r.admin(http.HandlerFunc(requests.Approve)))

	users := &OrgUsersHandler{Users: r.OrgUserService, Views: r.views}
	r.Mux.Handle("GET /admin/usuarios", r.admin(http.HandlerFunc(users.List)))
	r.Mux.Handle("POST /admin/usuarios/tornar-admin", r.admin(http.HandlerFunc(users.Promote)))
	r.Mux.Handle("POST /admin/usuarios/remover-admin", r.admin(http.HandlerFunc(users.Demote)))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.version))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.version, r.store))
}
