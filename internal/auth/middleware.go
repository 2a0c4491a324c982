package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SessionID string
	User      *domain.User
}

// UserID returns the caller id, empty for a nil principal.
func (p *Principal) UserID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// IsAdmin reports whether the loaded user record carries the admin flag.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User != nil && p.User.IsAdmin
}

// CanAccess applies the access policy for this caller.
func (p *Principal) CanAccess(resource Resource, action Action) bool {
	return CanAccess(p.UserID(), p.IsAdmin(), resource, action)
}

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionMiddleware resolves the session cookie into a Principal. It never rejects a request:
// anonymous callers pass through and the route gates decide.
type SessionMiddleware struct {
	sessions SessionStore
	cookies  *CookieSigner
	users    UserLookup
	logger   *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions SessionStore, cookies *CookieSigner, users UserLookup, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookies: cookies, users: users, logger: logger}
}

// Handle loads the principal, if any, into the request locals.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := m.cookies.Read(c)
	if raw == "" {
		return c.Next()
	}

	sessionID, err := m.cookies.Parse(raw)
	if err != nil {
		m.cookies.Clear(c)
		return c.Next()
	}

	ctx := c.UserContext()
	session, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			m.cookies.Clear(c)
			return c.Next()
		}
		m.logger.Error("session lookup failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	user, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if derr := m.sessions.Destroy(ctx, sessionID); derr != nil {
				m.logger.Warn("destroy orphan session", zap.Error(derr))
			}
			m.cookies.Clear(c)
			return c.Next()
		}
		return apperrors.NewInternalError(err)
	}

	SetPrincipal(c, &Principal{SessionID: sessionID, User: user})
	return c.Next()
}

// SetPrincipal stores the principal for the rest of the request.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}
