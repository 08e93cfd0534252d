package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is one screening question in the catalog, keyed by role and
// organization. Applications look questions up by their own role and
// organization at review time; there is no stored foreign key, so later
// catalog edits never touch an already-finalized snapshot.
type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Role         string    `gorm:"type:text;not null;index:idx_questions_role_org" json:"role"`
	Organization string    `gorm:"type:text;not null;index:idx_questions_role_org" json:"organization"`
	Question     string    `gorm:"type:text;not null" json:"question"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
