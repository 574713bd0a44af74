package handlers

import (
	"errors"
	"strconv"

	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/anjiri1684/pickleball_coach/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// writeError maps engine errors to HTTP statuses. Anything unrecognised goes to the app ErrorHandler.
func writeError(c *fiber.Ctx, err error) error {
	var (
		validationErr   *services.ValidationError
		notFoundErr     *services.NotFoundError
		illegalErr      *services.IllegalStateError
		unauthorizedErr *services.UnauthorizedError
		forbiddenErr    *services.ForbiddenError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Reason})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	case errors.As(err, &illegalErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": illegalErr.Reason})
	case errors.As(err, &unauthorizedErr):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": unauthorizedErr.Reason})
	case errors.As(err, &forbiddenErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, storage.ErrUnknownCategory),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrTooLarge),
		errors.Is(err, storage.ErrEmptyFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return err
}

// ErrorHandler renders *fiber.Error values as {"error": message}. Other errors are logged and hidden.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID format")
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
