package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quote-service/internal/api/dto"
	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/service"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.CookieSigner
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.CookieSigner) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return err
	}
	if err := h.cookies.Write(c, session.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.cookies.Write(c, session.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if principal != nil {
		if err := h.auth.Logout(c.UserContext(), principal.SessionID); err != nil {
			return err
		}
	}
	h.cookies.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// CurrentUser handles GET /api/auth/user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	user, err := h.auth.CurrentUser(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
