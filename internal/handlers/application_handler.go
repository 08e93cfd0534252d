package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
	"camdencare/reference-checker/internal/services"
)

type ApplicationHandler struct {
	appRepo     repositories.ApplicationRepository
	requestRepo repositories.ReferenceRequestRepository
	eventRepo   repositories.EventRepository
	dispatcher  services.DispatchService
}

func NewApplicationHandler(
	appRepo repositories.ApplicationRepository,
	requestRepo repositories.ReferenceRequestRepository,
	eventRepo repositories.EventRepository,
	dispatcher services.DispatchService,
) *ApplicationHandler {
	return &ApplicationHandler{
		appRepo:     appRepo,
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		dispatcher:  dispatcher,
	}
}

// HandleList handles GET /applications?user_id=. Reads are always scoped to
// the owning user.
func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return respondError(c, models.NewValidationError("user_id is required"))
	}

	apps, err := h.appRepo.FindByUserID(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":        len(apps),
		"applications": apps,
	})
}

// HandleGet handles GET /applications/:id
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid application ID format"))
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		return respondError(c, err)
	}

	requests, err := h.requestRepo.FindByApplicationID(appID)
	if err != nil {
		return respondError(c, err)
	}

	summary := map[models.RequestStatus]int{}
	for _, request := range requests {
		summary[request.Status]++
	}

	return c.JSON(fiber.Map{
		"application": app,
		"reference_requests": fiber.Map{
			"total":     len(requests),
			"pending":   summary[models.RequestPending],
			"sent":      summary[models.RequestSent],
			"completed": summary[models.RequestCompleted],
			"overdue":   summary[models.RequestOverdue],
		},
	})
}

// HandleListRequests handles GET /applications/:id/reference-requests
func (h *ApplicationHandler) HandleListRequests(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid application ID format"))
	}

	if _, err := h.appRepo.FindByID(appID); err != nil {
		return respondError(c, err)
	}

	requests, err := h.requestRepo.FindByApplicationID(appID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":              len(requests),
		"reference_requests": requests,
	})
}

// HandleListEvents handles GET /applications/:id/events
func (h *ApplicationHandler) HandleListEvents(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid application ID format"))
	}

	if _, err := h.appRepo.FindByID(appID); err != nil {
		return respondError(c, err)
	}

	events, err := h.eventRepo.FindByApplicationID(appID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"count":  len(events),
		"events": events,
	})
}

// HandleCompleteRequest handles POST /reference-requests/:id/complete, the
// callback fired when a reference submits their response.
func (h *ApplicationHandler) HandleCompleteRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid reference request ID format"))
	}

	completion, err := h.dispatcher.CompleteRequest(c.Context(), requestID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(completion)
}
