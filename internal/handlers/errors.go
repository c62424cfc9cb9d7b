package handlers

import (
	"context"
	"errors"
	"strconv"

	"tokopos/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrTooManyRequests):
		return fiber.StatusTooManyRequests
	case errors.Is(err, context.Canceled):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal errors are logged
// and their detail is withheld from the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, message string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"error":   "internal server error",
		})
	}
	logger.Debug(message, zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// paramID reads a positive numeric id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(id), nil
}
