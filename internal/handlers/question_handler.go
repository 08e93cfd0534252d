package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/services"
)

type QuestionHandler struct {
	catalog services.QuestionCatalogService
	review  services.ReviewService
}

func NewQuestionHandler(
	catalog services.QuestionCatalogService,
	review services.ReviewService,
) *QuestionHandler {
	return &QuestionHandler{
		catalog: catalog,
		review:  review,
	}
}

// HandleGetQuestions handles GET /questions?role=&organization=
func (h *QuestionHandler) HandleGetQuestions(c *fiber.Ctx) error {
	role := c.Query("role")
	organization := c.Query("organization")

	questions, fallback, err := h.catalog.QuestionsForRole(role, organization)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.QuestionListResponse{
		Role:         role,
		Organization: organization,
		Questions:    questions,
		Fallback:     fallback,
	})
}

// HandleFinalizeQuestions handles POST /applications/:id/questions. The body
// carries the reviewer's edited list; it becomes the application's immutable
// snapshot and the lifecycle advances to approved.
func (h *QuestionHandler) HandleFinalizeQuestions(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.NewValidationError("invalid application ID format"))
	}

	var req models.FinalizeQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request payload"))
	}

	app, err := h.review.FinalizeQuestions(appID, req.Questions)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"application_id":    app.ID.String(),
		"status":            string(app.Status),
		"question_snapshot": app.QuestionSnapshot,
	})
}
