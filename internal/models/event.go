package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationEvent is the audit trail of lifecycle transitions. One row per
// transition, carrying the triggering event name.
type ApplicationEvent struct {
	ID            uint              `gorm:"primary_key;auto_increment" json:"id"`
	ApplicationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"application_id"`
	EventType     string            `gorm:"type:text;not null" json:"event_type"`
	FromStatus    ApplicationStatus `gorm:"type:text" json:"from_status"`
	ToStatus      ApplicationStatus `gorm:"type:text" json:"to_status"`
	Details       string            `gorm:"type:text" json:"details,omitempty"`
	CreatedAt     time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (ApplicationEvent) TableName() string {
	return "application_events"
}
