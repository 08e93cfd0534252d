package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
	"camdencare/reference-checker/internal/services"
)

// ProcessHandler serves the synchronous relay contract: the caller supplies
// the resume location and identifiers, and gets the extracted fields back in
// one round trip.
type ProcessHandler struct {
	appRepo   repositories.ApplicationRepository
	processor services.ResumeProcessorService
}

func NewProcessHandler(
	appRepo repositories.ApplicationRepository,
	processor services.ResumeProcessorService,
) *ProcessHandler {
	return &ProcessHandler{
		appRepo:   appRepo,
		processor: processor,
	}
}

// HandleProcessResume handles POST /process-resume
func (h *ProcessHandler) HandleProcessResume(c *fiber.Ctx) error {
	var req models.ProcessResumeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request payload",
		})
	}

	if req.ResumeURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "resume_url is required"})
	}
	if req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "role is required"})
	}
	if req.Organization == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "organization is required"})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "user_id is required"})
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid application_id format"})
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}

	if app.UserID != req.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Application not found"})
	}

	// The caller supplies the resume location; processing reads it off the
	// application row, so a newer URL has to land there first.
	if req.ResumeURL != app.ResumeURL {
		if err := h.appRepo.UpdateResumeURL(appID, req.ResumeURL); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
		}
	}

	updated, err := h.processor.ProcessApplication(c.Context(), appID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if models.KindOf(err) == models.KindConflict {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	return c.JSON(models.ProcessResumeResponse{
		Success:       true,
		ApplicationID: updated.ID.String(),
		Status:        string(updated.Status),
		Data:          &updated.ExtractedData,
	})
}
