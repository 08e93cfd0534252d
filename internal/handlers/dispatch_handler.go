package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/services"
)

type DispatchHandler struct {
	dispatcher services.DispatchService
}

func NewDispatchHandler(dispatcher services.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatcher: dispatcher}
}

// HandleDispatch handles POST /applications/:id/send-reference-requests.
// The response reports the outcome per reference; a batch where nothing
// could be sent comes back as an upstream failure with the same detail.
func (h *DispatchHandler) HandleDispatch(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid application ID format"))
	}

	var req models.DispatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, models.NewValidationError("invalid request payload"))
		}
	}

	result, err := h.dispatcher.Dispatch(c.Context(), appID, req.Resend)
	if err != nil {
		if result != nil && models.KindOf(err) == models.KindPartialDispatch {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"result":  result,
			})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}
