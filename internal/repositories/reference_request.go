package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"camdencare/reference-checker/internal/models"
)

type ReferenceRequestRepository interface {
	Create(request *models.ReferenceRequest) error
	FindByID(id uuid.UUID) (*models.ReferenceRequest, error)
	FindByApplicationID(applicationID uuid.UUID) ([]models.ReferenceRequest, error)
	MarkSent(id uuid.UUID, at time.Time) error
	MarkCompleted(id uuid.UUID, at time.Time) error
	// MarkOverdue flags sent requests whose dispatch is older than before.
	// Returns the number of rows flagged.
	MarkOverdue(before time.Time) (int64, error)
}

type referenceRequestRepository struct {
	db *gorm.DB
}

func NewReferenceRequestRepository(db *gorm.DB) ReferenceRequestRepository {
	return &referenceRequestRepository{db: db}
}

func (r *referenceRequestRepository) Create(request *models.ReferenceRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create reference request: %w", err)
	}
	return nil
}

func (r *referenceRequestRepository) FindByID(id uuid.UUID) (*models.ReferenceRequest, error) {
	var request models.ReferenceRequest
	if err := r.db.Where("id = ?", id).First(&request).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("reference request %s not found", id)
		}
		return nil, fmt.Errorf("failed to find reference request: %w", err)
	}
	return &request, nil
}

func (r *referenceRequestRepository) FindByApplicationID(applicationID uuid.UUID) ([]models.ReferenceRequest, error) {
	var requests []models.ReferenceRequest
	err := r.db.
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reference requests: %w", err)
	}
	return requests, nil
}

func (r *referenceRequestRepository) MarkSent(id uuid.UUID, at time.Time) error {
	return r.updateStatus(id, models.RequestSent, map[string]interface{}{"sent_at": at})
}

func (r *referenceRequestRepository) MarkCompleted(id uuid.UUID, at time.Time) error {
	return r.updateStatus(id, models.RequestCompleted, map[string]interface{}{"completed_at": at})
}

func (r *referenceRequestRepository) updateStatus(id uuid.UUID, status models.RequestStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	for key, value := range extra {
		updates[key] = value
	}

	result := r.db.Model(&models.ReferenceRequest{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update reference request: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return models.NewNotFoundError("reference request %s not found", id)
	}

	return nil
}

func (r *referenceRequestRepository) MarkOverdue(before time.Time) (int64, error) {
	result := r.db.Model(&models.ReferenceRequest{}).
		Where("status = ? AND sent_at < ?", models.RequestSent, before).
		Updates(map[string]interface{}{
			"status":     models.RequestOverdue,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark overdue requests: %w", result.Error)
	}

	return result.RowsAffected, nil
}
