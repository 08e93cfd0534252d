package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"camdencare/reference-checker/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindByUserID(userID string) ([]models.Application, error)
	// TransitionStatus performs a compare-and-swap status update: the row is
	// only touched when its current status still equals from. Extra column
	// updates (extracted_data, question_snapshot, failure_reason) ride along
	// in the same write.
	TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, extra map[string]interface{}) error
	UpdateResumeURL(id uuid.UUID, resumeURL string) error
	FindStuckProcessing(olderThan time.Time, limit int) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("application %s not found", id)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByUserID(userID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     to,
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	}
	for key, value := range extra {
		updates[key] = value
	}

	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to transition status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return models.NewConflictError("application %s is no longer in status %s", id, from)
	}

	return nil
}

func (r *applicationRepository) UpdateResumeURL(id uuid.UUID, resumeURL string) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_url": resumeURL,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume URL: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return models.NewNotFoundError("application %s not found", id)
	}

	return nil
}

func (r *applicationRepository) FindStuckProcessing(olderThan time.Time, limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("status = ? AND updated_at < ?", models.StatusProcessing, olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stuck applications: %w", err)
	}
	return apps, nil
}
