package sessionx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testManager(t *testing.T, now *time.Time) *Manager {
	t.Helper()
	return NewManager(Config{
		Secret:  testSecret,
		Timeout: 30 * time.Minute,
		MaxAge:  12 * time.Hour,
		Now:     func() time.Time { return *now },
	})
}

func issueCookie(t *testing.T, m *Manager, s Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, s))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestIssueAndLoad(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	in := Session{UserID: "u1", Email: "ana@clinic.test", OrganizationID: "o1", Role: "admin"}
	cookie := issueCookie(t, m, in)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	out, err := m.Load(rec, req)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestCookieMaxAge(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})
	require.Equal(t, int((12*time.Hour)/time.Second), cookie.MaxAge)

	// A refresh carries the remaining absolute lifetime, not a fresh 12h.
	now = now.Add(20 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	_, err := m.Load(rec, req)
	require.NoError(t, err)

	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	require.Equal(t, int((12*time.Hour-20*time.Minute)/time.Second), refreshed[0].MaxAge)
}

func TestLoadNoCookie(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSlidingWindow(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})

	// Activity every 20 minutes keeps the session alive well past a single
	// 30 minute window.
	for i := 0; i < 6; i++ {
		now = now.Add(20 * time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()

		_, err := m.Load(rec, req)
		require.NoError(t, err)

		refreshed := rec.Result().Cookies()
		require.Len(t, refreshed, 1)
		cookie = refreshed[0]
	}
}

func TestInactivityTimeout(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})

	now = now.Add(31 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	_, err := m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrExpiredSession)
}

func TestAbsoluteCap(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})

	// Keep touching the session every 25 minutes. The sliding window never
	// lapses, but the exp claim fixed at issue still kills it after 12h.
	deadline := now.Add(12 * time.Hour)
	for now.Before(deadline) {
		now = now.Add(25 * time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()

		_, err := m.Load(rec, req)
		if now.After(deadline) {
			require.ErrorIs(t, err, ErrExpiredSession)
			return
		}
		require.NoError(t, err)
		cookie = rec.Result().Cookies()[0]
	}
	t.Fatal("session survived past the absolute cap")
}

func TestTamperedTokenFailsClosed(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	_, err := m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestWrongKeyRejected(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	other := NewManager(Config{
		Secret: []byte("another-secret-another-secret!!!"),
		Now:    func() time.Time { return now },
	})
	cookie := issueCookie(t, other, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	_, err := m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestAlgNoneRejected(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":           "u1",
		"email":         "a@b.c",
		"org_id":        "o1",
		"role":          "admin",
		"last_activity": now.Unix(),
		"exp":           now.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: signed})

	_, err = m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestMissingClaimsFailClosed(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	// A signed token without an organization claim is not a session we
	// minted. It must not pass.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "u1",
		"last_activity": now.Unix(),
		"exp":           now.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: signed})

	_, err = m.Load(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestMiddlewareGates(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	var seen Session
	handler := m.Middleware(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("anonymous redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("signed in passes through", func(t *testing.T) {
		cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u1", seen.UserID)
	})
}

func TestRequireAdmin(t *testing.T) {
	now := time.Now()
	m := testManager(t, &now)

	handler := m.Middleware(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("member sent home", func(t *testing.T) {
		cookie := issueCookie(t, m, Session{UserID: "u1", Email: "a@b.c", OrganizationID: "o1", Role: "member"})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("admin allowed", func(t *testing.T) {
		cookie := issueCookie(t, m, Session{UserID: "u2", Email: "b@b.c", OrganizationID: "o1", Role: "admin"})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
