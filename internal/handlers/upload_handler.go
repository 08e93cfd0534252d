package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
	"camdencare/reference-checker/internal/services"
)

type UploadHandler struct {
	appRepo        repositories.ApplicationRepository
	eventRepo      repositories.EventRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewUploadHandler(
	appRepo repositories.ApplicationRepository,
	eventRepo repositories.EventRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		appRepo:        appRepo,
		eventRepo:      eventRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /applications: resume upload plus role and
// organization selection. The application starts in processing and the
// extraction job is queued.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	role := c.FormValue("role")
	organization := c.FormValue("organization")
	userID := c.FormValue("user_id")

	if role == "" {
		return respondError(c, models.NewValidationError("role is required"))
	}
	if organization == "" {
		return respondError(c, models.NewValidationError("organization is required"))
	}
	if userID == "" {
		return respondError(c, models.NewValidationError("user_id is required"))
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return respondError(c, models.NewValidationError("resume file is required"))
	}

	if file.Size > h.maxFileSize {
		return respondError(c, models.NewValidationError("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	filename, filePath, err := h.storageService.SaveResume(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	app := &models.Application{
		ID:           uuid.New(),
		UserID:       userID,
		Role:         role,
		Organization: organization,
		ResumeURL:    filePath,
		Status:       models.StatusProcessing,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.appRepo.Create(app); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create application record",
		})
	}

	event := &models.ApplicationEvent{
		ApplicationID: app.ID,
		EventType:     "application_created",
		ToStatus:      models.StatusProcessing,
		Details:       fmt.Sprintf("resume %s uploaded for %s at %s", file.Filename, role, organization),
	}
	if err := h.eventRepo.Record(event); err != nil {
		log.Printf("⚠️  Failed to record event application_created for application %s: %v\n", app.ID, err)
	}

	h.worker.EnqueueExtraction(app.ID)

	return c.Status(fiber.StatusCreated).JSON(models.UploadApplicationResponse{
		ApplicationID: app.ID.String(),
		Status:        string(app.Status),
	})
}
