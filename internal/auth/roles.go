package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

// Role is the privilege a route requires.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// Require gates a route on the given role: no principal is 401, a non-admin on an admin route is 403.
func Require(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("unauthorized")
		}
		if role == RoleAdmin && !principal.IsAdmin() {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
