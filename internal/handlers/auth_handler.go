package handlers

import (
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for the session store.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/session", h.HandleSession)
}

// RegisterRequest represents the request body for registration. Phone is
// accepted in place of Username when accounts are keyed by phone number.
type RegisterRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func identifier(username, phone string) string {
	if username != "" {
		return username
	}
	return phone
}

// HandleRegister creates an account and signs it in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	session, err := h.authService.Register(c.UserContext(), identifier(req.Username, req.Phone), req.DisplayName, req.Password)
	if err != nil {
		logger.Get().Info("registration rejected", zap.Error(err))
		return fail(c, err)
	}
	return h.signedIn(c, fiber.StatusCreated, session)
}

// HandleLogin signs a user in and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	session, err := h.authService.Login(c.UserContext(), identifier(req.Username, req.Phone), req.Password)
	if err != nil {
		logger.Get().Info("login rejected", zap.Error(err))
		return fail(c, err)
	}
	return h.signedIn(c, fiber.StatusOK, session)
}

func (h *AuthHandler) signedIn(c *fiber.Ctx, status int, session *models.Session) error {
	token, err := h.authService.IssueToken(*session)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"session": session,
		"token":   token,
	})
}

// HandleLogout ends the session. It succeeds even when nobody is signed in.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.authService.Logout(c.UserContext())
	return c.JSON(fiber.Map{"success": true})
}

// HandleSession reports the session state and, when active, the session.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state":   h.authService.State().String(),
		"session": h.authService.Current(),
	})
}
