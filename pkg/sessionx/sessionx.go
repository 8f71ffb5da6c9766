// Package sessionx implements cookie sessions backed by signed HS256 JWTs.
// The token carries two clocks: the registered exp claim is the absolute
// lifetime cap, fixed at login, and a last-activity claim that slides
// forward on each authenticated request. A request arriving after the
// inactivity window (or after exp) finds a dead session, no server-side
// state needed.
package sessionx

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "setting_session"

var (
	ErrNoSession      = errors.New("sessionx: no session")
	ErrInvalidSession = errors.New("sessionx: invalid session")
	ErrExpiredSession = errors.New("sessionx: session expired")
)

// Session is the authenticated identity carried by a live cookie.
type Session struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           string
}

// claims is the JWT payload. LastActivity is unix seconds and is the only
// claim that changes across refreshes; exp never moves after Issue.
type claims struct {
	jwt.RegisteredClaims

	Email          string `json:"email"`
	OrganizationID string `json:"org_id"`
	Role           string `json:"role"`
	LastActivity   int64  `json:"last_activity"`
}

// Config tunes a Manager. Zero durations fall back to the defaults used by
// the application (30 minute inactivity window, 12 hour absolute cap).
type Config struct {
	Secret     []byte
	CookieName string

	// Timeout is the sliding inactivity window.
	Timeout time.Duration

	// MaxAge is the absolute session lifetime, measured from Issue.
	MaxAge time.Duration

	// Secure marks the cookie Secure; off for plain-HTTP development.
	Secure bool

	// Now overrides the clock in tests.
	Now func() time.Time
}

type Manager struct {
	secret     []byte
	cookieName string
	timeout    time.Duration
	maxAge     time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(cfg Config) *Manager {
	m := &Manager{
		secret:     cfg.Secret,
		cookieName: cfg.CookieName,
		timeout:    cfg.Timeout,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
		now:        cfg.Now,
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	if m.timeout <= 0 {
		m.timeout = 30 * time.Minute
	}
	if m.maxAge <= 0 {
		m.maxAge = 12 * time.Hour
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Issue signs a fresh session token and sets it as an HTTP-only cookie.
// Login is the only caller; everything else just refreshes.
func (m *Manager) Issue(w http.ResponseWriter, s Session) error {
	now := m.now()
	token, err := m.sign(s, now, now.Add(m.maxAge))
	if err != nil {
		return err
	}
	m.setCookie(w, token, m.maxAge)
	return nil
}

// Clear expires the session cookie. Logout and any malformed token both
// land here.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load extracts and validates the session from the request cookie. On
// success it re-signs the token with a fresh last-activity stamp and sets
// the refreshed cookie, keeping the original absolute expiry.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}

	now := m.now()
	c, err := m.parse(cookie.Value, now)
	if err != nil {
		return Session{}, err
	}

	// Inactivity check against the sliding stamp. exp was already enforced
	// by the parser.
	last := time.Unix(c.LastActivity, 0)
	if c.LastActivity <= 0 || now.Sub(last) > m.timeout {
		return Session{}, ErrExpiredSession
	}

	s := Session{
		UserID:         c.Subject,
		Email:          c.Email,
		OrganizationID: c.OrganizationID,
		Role:           c.Role,
	}
	// Anything missing means a token we did not mint in this shape. Fail
	// closed rather than guess.
	if s.UserID == "" || s.OrganizationID == "" || s.Role == "" {
		return Session{}, ErrInvalidSession
	}

	if c.ExpiresAt == nil {
		return Session{}, ErrInvalidSession
	}
	refreshed, err := m.sign(s, now, c.ExpiresAt.Time)
	if err != nil {
		return Session{}, err
	}
	m.setCookie(w, refreshed, c.ExpiresAt.Time.Sub(now))
	return s, nil
}

func (m *Manager) sign(s Session, now, expiresAt time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:          s.Email,
		OrganizationID: s.OrganizationID,
		Role:           s.Role,
		LastActivity:   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *Manager) parse(token string, now time.Time) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}
	return &c, nil
}

// setCookie writes the session cookie with the remaining absolute
// lifetime as Max-Age, so it is not a browser-session cookie. Server-side
// exp and last-activity checks remain the source of truth.
func (m *Manager) setCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	secs := int(maxAge / time.Second)
	if secs < 1 {
		secs = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   secs,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
