package services

import (
	"strings"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
)

// FallbackQuestions is returned whenever the catalog has no match for a
// (role, organization) pair, so the workflow never stalls on missing data.
var FallbackQuestions = []string{
	"How long have you known the candidate and in what capacity?",
	"What were the candidate's main responsibilities while working with you?",
	"What are the candidate's greatest strengths?",
	"Are there any areas where the candidate could improve?",
	"Would you recommend this candidate for employment?",
}

const draftPlaceholderQuestion = "New question"

type QuestionCatalogService interface {
	// QuestionsForRole returns the catalog questions for a (role,
	// organization) pair, or the fallback list when none match. The second
	// return value reports whether the fallback was used.
	QuestionsForRole(role, organization string) ([]string, bool, error)
}

type questionCatalogService struct {
	questionRepo repositories.QuestionRepository
}

func NewQuestionCatalogService(questionRepo repositories.QuestionRepository) QuestionCatalogService {
	return &questionCatalogService{questionRepo: questionRepo}
}

// QuestionsForRole implements QuestionCatalogService.
func (s *questionCatalogService) QuestionsForRole(role, organization string) ([]string, bool, error) {
	if strings.TrimSpace(role) == "" {
		return nil, false, models.NewValidationError("role is required")
	}
	if strings.TrimSpace(organization) == "" {
		return nil, false, models.NewValidationError("organization is required")
	}

	questions, err := s.questionRepo.FindActive(role, organization)
	if err != nil {
		return nil, false, models.NewCollaboratorError("failed to fetch question catalog", err)
	}

	if len(questions) == 0 {
		return append([]string(nil), FallbackQuestions...), true, nil
	}

	texts := make([]string, 0, len(questions))
	for _, q := range questions {
		texts = append(texts, q.Question)
	}
	return texts, false, nil
}

// QuestionDraft holds the reviewer's in-progress edits, separate from the
// fetched catalog list. Nothing persists until the draft is finalized.
type QuestionDraft struct {
	items []string
}

func NewQuestionDraft(questions []string) *QuestionDraft {
	return &QuestionDraft{items: append([]string(nil), questions...)}
}

func (d *QuestionDraft) Len() int {
	return len(d.items)
}

func (d *QuestionDraft) Edit(index int, text string) error {
	if index < 0 || index >= len(d.items) {
		return models.NewValidationError("question index %d out of range", index)
	}
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("question text cannot be empty")
	}
	d.items[index] = text
	return nil
}

func (d *QuestionDraft) Remove(index int) error {
	if index < 0 || index >= len(d.items) {
		return models.NewValidationError("question index %d out of range", index)
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

func (d *QuestionDraft) Append(text string) {
	if strings.TrimSpace(text) == "" {
		text = draftPlaceholderQuestion
	}
	d.items = append(d.items, text)
}

// Questions returns a copy of the draft, so later edits never leak into a
// finalized snapshot.
func (d *QuestionDraft) Questions() []string {
	return append([]string(nil), d.items...)
}

// ReviewService commits a reviewed question list as the application's
// immutable snapshot and advances the lifecycle.
type ReviewService interface {
	FinalizeQuestions(appID uuid.UUID, questions []string) (*models.Application, error)
}

type reviewService struct {
	lifecycle LifecycleService
}

func NewReviewService(lifecycle LifecycleService) ReviewService {
	return &reviewService{lifecycle: lifecycle}
}

// FinalizeQuestions implements ReviewService.
func (s *reviewService) FinalizeQuestions(appID uuid.UUID, questions []string) (*models.Application, error) {
	if len(questions) == 0 {
		return nil, models.NewValidationError("at least one question is required")
	}

	snapshot := make(models.StringList, 0, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			return nil, models.NewValidationError("question %d is empty", i+1)
		}
		snapshot = append(snapshot, q)
	}

	return s.lifecycle.Transition(appID, models.StatusApproved, "questions_finalized", "", map[string]interface{}{
		"question_snapshot": snapshot,
	})
}
