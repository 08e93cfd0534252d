package handlers

import (
	"github.com/gofiber/fiber/v2"

	"camdencare/reference-checker/internal/models"
)

// respondError maps domain error kinds onto HTTP statuses so callers can
// branch without parsing message text.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch models.KindOf(err) {
	case models.KindValidation:
		status = fiber.StatusBadRequest
	case models.KindNotFound:
		status = fiber.StatusNotFound
	case models.KindConflict:
		status = fiber.StatusConflict
	case models.KindCollaborator, models.KindPartialDispatch:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  string(models.KindOf(err)),
	})
}
