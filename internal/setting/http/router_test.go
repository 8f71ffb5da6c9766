package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/internal/setting/store/drivers/sqlite"
	"github.com/settingbr/setting/pkg/cryptox"
	"github.com/settingbr/setting/pkg/idx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "setting-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type fixture struct {
	router *Router
	store  *sqlite.Store
	org    domain.Organization
	admin  domain.User
	member domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sessions := sessionx.NewManager(sessionx.Config{
		Secret:  []byte("0123456789abcdef0123456789abcdef"),
		Timeout: 30 * time.Minute,
		MaxAge:  12 * time.Hour,
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router, err := NewRouter(sessions, "test", st, logger)
	require.NoError(t, err)

	invites := &service.InviteService{Store: st}
	router.AuthService = &service.AuthService{Store: st}
	router.InviteService = invites
	router.InviteRequestService = &service.InviteRequestService{Store: st, Invites: invites}
	router.OrgUserService = &service.OrgUserService{Store: st}
	router.NoteService = &service.NoteService{Store: st}
	router.NormCardService = &service.NormCardService{Store: st}
	router.DocTemplateService = &service.DocTemplateService{Store: st}
	router.LibraryService = &service.LibraryService{Store: st}
	router.ApplyRoutes()

	f := &fixture{router: router, store: st}
	f.org = f.createOrg(t, "Clinica Aurora")
	f.admin = f.createUser(t, f.org.ID, "admin@aurora.test", domain.RoleAdmin)
	f.member = f.createUser(t, f.org.ID, "ana@aurora.test", domain.RoleMember)
	return f
}

func (f *fixture) createOrg(t *testing.T, name string) domain.Organization {
	t.Helper()
	org := domain.Organization{ID: idx.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, f.store.Organizations().CreateOrganization(context.Background(), org))
	return org
}

func (f *fixture) createUser(t *testing.T, orgID, email string, role domain.Role) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	u := domain.User{
		ID:             idx.New().String(),
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), u))
	return u
}

// login runs the real login flow and returns the session cookie.
func (f *fixture) login(t *testing.T, email string) *http.Cookie {
	t.Helper()

	form := url.Values{"email": {email}, "password": {"correct horse battery staple"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func (f *fixture) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) post(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	t.Run("valid login reaches the home page", func(t *testing.T) {
		cookie := f.login(t, "ana@aurora.test")
		rec := f.get(t, "/", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "ana@aurora.test")
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		rec := f.post(t, "/login", url.Values{
			"email":    {"ana@aurora.test"},
			"password": {"wrong"},
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Usuário ou senha inválidos")
	})

	t.Run("anonymous visit to the app redirects to login", func(t *testing.T) {
		rec := f.get(t, "/", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("corrupted cookie fails closed", func(t *testing.T) {
		cookie := f.login(t, "ana@aurora.test")
		cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"
		rec := f.get(t, "/", cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("logout clears the session", func(t *testing.T) {
		cookie := f.login(t, "ana@aurora.test")
		rec := f.get(t, "/logout", cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionx.DefaultCookieName && c.MaxAge < 0 {
				cleared = true
			}
		}
		require.True(t, cleared)
	})
}

func TestAdminGating(t *testing.T) {
	f := newFixture(t)
	adminCookie := f.login(t, "admin@aurora.test")
	memberCookie := f.login(t, "ana@aurora.test")

	t.Run("admin sees the invites page", func(t *testing.T) {
		rec := f.get(t, "/invites", adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member is sent home", func(t *testing.T) {
		rec := f.get(t, "/invites", memberCookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("member cannot post role changes either", func(t *testing.T) {
		rec := f.post(t, "/admin/usuarios/tornar-admin", url.Values{"user_id": {f.member.ID}}, memberCookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestSignupEndToEnd(t *testing.T) {
	f := newFixture(t)
	adminCookie := f.login(t, "admin@aurora.test")

	// Admin mints a single-use invite via the form.
	rec := f.post(t, "/invites/create", url.Values{
		"role":     {"member"},
		"max_uses": {"1"},
	}, adminCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	invites, err := f.router.InviteService.List(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	code := invites[0].Code

	t.Run("new user signs up with the code", func(t *testing.T) {
		rec := f.post(t, "/signup", url.Values{
			"code":     {code},
			"email":    {"novo@aurora.test"},
			"password": {"uma senha razoavel"},
		}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("the code is now spent", func(t *testing.T) {
		rec := f.post(t, "/signup", url.Values{
			"code":     {code},
			"email":    {"outro@aurora.test"},
			"password": {"uma senha razoavel"},
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "já foi utilizado")
	})

	t.Run("signup form pre-validates a dead code", func(t *testing.T) {
		rec := f.get(t, "/signup?code="+code, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "já foi utilizado")
	})
}

func TestCrossTenantIsolation(t *testing.T) {
	f := newFixture(t)
	boreal := f.createOrg(t, "Clinica Boreal")
	f.createUser(t, boreal.ID, "bia@boreal.test", domain.RoleAdmin)

	adminCookie := f.login(t, "admin@aurora.test")
	otherCookie := f.login(t, "bia@boreal.test")

	// Aurora's admin mints an invite.
	rec := f.post(t, "/invites/create", url.Values{"role": {"member"}, "max_uses": {"1"}}, adminCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	invites, err := f.router.InviteService.List(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)

	t.Run("another clinic's admin gets 404 on the detail page", func(t *testing.T) {
		rec := f.get(t, "/invites/"+invites[0].Code, otherCookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("and an empty listing", func(t *testing.T) {
		rec := f.get(t, "/invites", otherCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), invites[0].Code)
	})
}

func TestInviteRequestFlow(t *testing.T) {
	f := newFixture(t)

	t.Run("public form accepts a request", func(t *testing.T) {
		rec := f.post(t, "/solicitar-convite", url.Values{
			"name":    {"Marina"},
			"email":   {"marina@exemplo.com.br"},
			"message": {"Atendo on-line"},
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Recebemos sua solicitação")
	})

	t.Run("bad email re-renders with the error", func(t *testing.T) {
		rec := f.post(t, "/solicitar-convite", url.Values{"email": {"nope"}}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Informe um e-mail válido")
	})

	t.Run("admin approves with terms and a second approval conflicts", func(t *testing.T) {
		adminCookie := f.login(t, "admin@aurora.test")

		reqs, err := f.router.InviteRequestService.List(context.Background())
		require.NoError(t, err)
		require.Len(t, reqs, 1)

		rec := f.post(t, "/admin/solicitacoes/aprovar", url.Values{
			"request_id":   {reqs[0].ID},
			"role":         {"member"},
			"max_uses":     {"2"},
			"expires_days": {"3"},
		}, adminCookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		reqs, err = f.router.InviteRequestService.List(context.Background())
		require.NoError(t, err)
		require.True(t, reqs[0].Handled)

		ctx := context.Background()
		inv, err := f.router.InviteService.Get(ctx, f.org.ID, reqs[0].InviteCode)
		require.NoError(t, err)
		require.Equal(t, 2, inv.MaxUses)
		require.NotNil(t, inv.ExpiresAt)
		require.WithinDuration(t, time.Now().AddDate(0, 0, 3), *inv.ExpiresAt, time.Minute)

		rec = f.post(t, "/admin/solicitacoes/aprovar", url.Values{"request_id": {reqs[0].ID}}, adminCookie)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "já foi atendida")
	})
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = f.get(t, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
