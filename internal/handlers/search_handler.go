package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/services"
)

type SearchHandler struct {
	indexer services.ResumeIndexService
}

func NewSearchHandler(indexer services.ResumeIndexService) *SearchHandler {
	return &SearchHandler{indexer: indexer}
}

// HandleSearch handles GET /resumes/search?q=&limit=
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return respondError(c, models.NewValidationError("q is required"))
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results, err := h.indexer.Search(c.Context(), query, limit)
	if err != nil {
		return respondError(c, models.NewCollaboratorError("resume search failed", err))
	}

	return c.JSON(fiber.Map{
		"count":   len(results),
		"results": results,
	})
}
