package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestSent      RequestStatus = "sent"
	RequestCompleted RequestStatus = "completed"
	RequestOverdue   RequestStatus = "overdue"
)

// ReferenceRequest is one dispatched reference check. The reference identity
// and the question list are denormalized copies taken at dispatch time, so
// catalog or extracted-data edits afterwards never alter a sent request.
type ReferenceRequest struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"application_id"`
	ReferenceName         string        `gorm:"type:text;not null" json:"reference_name"`
	ReferenceEmail        string        `gorm:"type:text;not null" json:"reference_email"`
	ReferencePhone        string        `gorm:"type:text" json:"reference_phone,omitempty"`
	ReferenceCompany      string        `gorm:"type:text" json:"reference_company,omitempty"`
	ReferenceRelationship string        `gorm:"type:text" json:"reference_relationship,omitempty"`
	QuestionsSent         StringList    `gorm:"type:jsonb" json:"questions_sent"`
	Status                RequestStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	SentAt                *time.Time    `gorm:"type:timestamp" json:"sent_at,omitempty"`
	CompletedAt           *time.Time    `gorm:"type:timestamp" json:"completed_at,omitempty"`
	CreatedAt             time.Time     `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (ReferenceRequest) TableName() string {
	return "reference_requests"
}
