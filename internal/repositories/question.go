package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"camdencare/reference-checker/internal/models"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	FindActive(role, organization string) ([]models.Question, error)
	CountForRole(role, organization string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *questionRepository) FindActive(role, organization string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Where("role = ? AND organization = ? AND active = ?", role, organization, true).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) CountForRole(role, organization string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).
		Where("role = ? AND organization = ?", role, organization).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
