package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"storefront/internal/logger"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// parseBody decodes and validates the request body into req. On failure it
// has already written the 400 response and returns false.
func parseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		logger.Get().Debug("invalid request body", zap.String("path", c.Path()), zap.Error(err))
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   fmt.Sprintf("Invalid %s", name),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrDuplicateUser), errors.Is(err, services.ErrTransitionNotAllowed):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAuthentication), errors.Is(err, services.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrRemoteUnavailable):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// messageFor renders err for display next to a form.
func messageFor(err error) string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	switch {
	case errors.Is(err, services.ErrDuplicateUser):
		return "Username already taken. Please choose another."
	case errors.Is(err, services.ErrUserNotFound):
		return "No account found. Please register first."
	case errors.Is(err, services.ErrAuthentication):
		return "Incorrect password."
	case errors.Is(err, services.ErrNoSession):
		return "Please sign in to continue."
	case errors.Is(err, services.ErrNotFound):
		return "Not found."
	case errors.Is(err, services.ErrRemoteUnavailable):
		return "The catalog is temporarily unavailable. Please try again later."
	case errors.Is(err, services.ErrTransitionNotAllowed):
		return "That status change is not allowed."
	}
	return "Something went wrong."
}

// fail writes the {success:false, error} body for err.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Get().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   messageFor(err),
	})
}
