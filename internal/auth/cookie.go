package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

// CookieSigner issues and verifies the session cookie. The cookie value is an HS256 token
// carrying only the session id; expiry is governed by the session store.
type CookieSigner struct {
	secret []byte
	name   string
	secure bool
	ttl    time.Duration
}

// NewCookieSigner builds a new signer.
func NewCookieSigner(secret, name string, secure bool, ttl time.Duration) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), name: name, secure: secure, ttl: ttl}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sign returns the cookie value for a session id.
func (s *CookieSigner) Sign(sessionID string) (string, error) {
	claims := &sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a cookie value and returns the session id it carries.
func (s *CookieSigner) Parse(value string) (string, error) {
	parsed, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.SessionID, nil
}

// Read returns the raw cookie value of the request.
func (s *CookieSigner) Read(c *fiber.Ctx) string {
	return c.Cookies(s.name)
}

// Write sets (or refreshes) the session cookie on the response.
func (s *CookieSigner) Write(c *fiber.Ctx, sessionID string) error {
	value, err := s.Sign(sessionID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		Expires:  time.Now().Add(s.ttl),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *CookieSigner) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
