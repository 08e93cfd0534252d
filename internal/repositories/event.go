package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"camdencare/reference-checker/internal/models"
)

type EventRepository interface {
	Record(event *models.ApplicationEvent) error
	FindByApplicationID(applicationID uuid.UUID) ([]models.ApplicationEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Record(event *models.ApplicationEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

func (r *eventRepository) FindByApplicationID(applicationID uuid.UUID) ([]models.ApplicationEvent, error) {
	var events []models.ApplicationEvent
	err := r.db.
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
