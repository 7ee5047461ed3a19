package middleware

import (
	"strings"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionLocal is the fiber.Ctx locals key holding the *models.Session.
const SessionLocal = "session"

// SessionRequired is a Fiber middleware that checks the session token and
// that it still belongs to the active session.
func SessionRequired(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header format must be 'Bearer <token>'",
			})
		}

		session, err := auth.ValidateToken(parts[1])
		if err != nil {
			logger.Get().Debug("session token rejected", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Your session has expired. Please sign in again.",
			})
		}

		c.Locals(SessionLocal, session)
		return c.Next()
	}
}

// CurrentSession returns the session stored by SessionRequired, or nil.
func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(SessionLocal).(*models.Session)
	return session
}
