package handlers

import (
	"errors"
	"fmt"
	"log"

	"todoapp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidCredential):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrAlreadyComplete):
		return fiber.StatusNotAcceptable
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes err with the status statusFor picks. detail is sent
// for known errors; internal errors only expose a generic message.
func errorResponse(c *fiber.Ctx, err error, detail string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		detail = "Internal server error"
	}
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// parseBody decodes and validates the request body into dst. It writes the
// 400 or 422 response itself and reports whether the handler may continue.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		log.Printf("Error parsing request body on %s: %v", c.Path(), err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "Validation failed",
			"errors": errorMessages,
		})
	}
	return true, nil
}

// todoID parses the :id route parameter.
func todoID(c *fiber.Ctx) (uint, bool, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": fmt.Sprintf("invalid todo id %q", c.Params("id")),
		})
	}
	return uint(id), true, nil
}
