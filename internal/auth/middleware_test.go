package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	failGet  error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]*Session{}}
}

func (m *memSessions) Create(_ context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{ID: "sid-" + userID, UserID: userID, CreatedAt: time.Now()}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memSessions) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type memUsers map[string]*domain.User

func (u memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func errorHandler(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	return c.Status(de.HTTPStatus).SendString(de.Code)
}

type fixture struct {
	app      *fiber.App
	sessions *memSessions
	signer   *CookieSigner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sessions := newMemSessions()
	signer := NewCookieSigner("secret", "connect.sid", false, time.Hour)
	users := memUsers{
		"u1":    {ID: "u1", Email: "a@x.com"},
		"admin": {ID: "admin", Email: "ops@x.com", IsAdmin: true},
	}
	mw := NewSessionMiddleware(sessions, signer, users, zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(mw.Handle)
	app.Get("/me", Require(RoleUser), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.UserID())
	})
	app.Get("/admin", Require(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return &fixture{app: app, sessions: sessions, signer: signer}
}

func (f *fixture) request(t *testing.T, path, userID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		session, err := f.sessions.Create(context.Background(), userID)
		require.NoError(t, err)
		value, err := f.signer.Sign(session.ID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "connect.sid", Value: value})
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequire(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		userID string
		want   int
	}{
		{name: "anonymous user route", path: "/me", want: http.StatusUnauthorized},
		{name: "user route", path: "/me", userID: "u1", want: http.StatusOK},
		{name: "anonymous admin route", path: "/admin", want: http.StatusUnauthorized},
		{name: "non-admin admin route", path: "/admin", userID: "u1", want: http.StatusForbidden},
		{name: "admin route", path: "/admin", userID: "admin", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.request(t, tt.path, tt.userID)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSessionMiddleware_TamperedCookieIsAnonymous(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "connect.sid", Value: "garbage"})
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, strings.Contains(resp.Header.Get("Set-Cookie"), "connect.sid=;"))
}

func TestSessionMiddleware_UnknownUserDestroysSession(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, "/me", "ghost")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err := f.sessions.Get(context.Background(), "sid-ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionMiddleware_StoreOutageIs500(t *testing.T) {
	f := newFixture(t)
	session, err := f.sessions.Create(context.Background(), "u1")
	require.NoError(t, err)
	value, err := f.signer.Sign(session.ID)
	require.NoError(t, err)
	f.sessions.failGet = errors.New("redis down")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "connect.sid", Value: value})
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
