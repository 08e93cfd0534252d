package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusProcessing   ApplicationStatus = "processing"
	StatusExtracted    ApplicationStatus = "extracted"
	StatusApproved     ApplicationStatus = "approved"
	StatusRequestsSent ApplicationStatus = "reference_requests_sent"
	StatusCompleted    ApplicationStatus = "completed"
	StatusFailed       ApplicationStatus = "failed"
)

// allowedTransitions is the single source of truth for the lifecycle.
// Status only moves forward; there is no edge back to an earlier state.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusProcessing:   {StatusExtracted, StatusFailed},
	StatusExtracted:    {StatusApproved, StatusRequestsSent, StatusFailed},
	StatusApproved:     {StatusRequestsSent},
	StatusRequestsSent: {StatusCompleted},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Reference is one person listed in a candidate's extracted data.
type Reference struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Company      string `json:"company,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	YearsWorked  string `json:"years_worked,omitempty"`
}

// DispatchEligible reports whether this reference can receive an outbound
// request. Email is the only hard requirement.
func (r Reference) DispatchEligible() bool {
	return strings.TrimSpace(r.Email) != ""
}

// ExtractedData is the structured candidate record produced by extraction.
// Stored as a jsonb column on applications.
type ExtractedData struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone"`
	ResumeURL  string      `json:"resume_url,omitempty"`
	References []Reference `json:"references"`
}

func (d ExtractedData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ExtractedData) Scan(value interface{}) error {
	if value == nil {
		*d = ExtractedData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into ExtractedData", value)
	}
}

// StringList is a jsonb-backed ordered list of strings, used for the
// finalized question snapshot.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

type Application struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string            `gorm:"type:text;not null;index" json:"user_id"`
	Role             string            `gorm:"type:text;not null" json:"role"`
	Organization     string            `gorm:"type:text;not null" json:"organization"`
	ResumeURL        string            `gorm:"type:text" json:"resume_url"`
	Status           ApplicationStatus `gorm:"type:text;not null;default:'processing'" json:"status"`
	ExtractedData    ExtractedData     `gorm:"type:jsonb" json:"extracted_data"`
	HasExtractedData bool              `gorm:"not null;default:false" json:"has_extracted_data"`
	QuestionSnapshot StringList        `gorm:"type:jsonb" json:"question_snapshot"`
	FailureReason    *string           `gorm:"type:text" json:"failure_reason,omitempty"`
	Version          int               `gorm:"not null;default:0" json:"version"`
	CreatedAt        time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// EligibleReferences returns the references that carry a non-empty email.
func (a *Application) EligibleReferences() []Reference {
	var eligible []Reference
	for _, ref := range a.ExtractedData.References {
		if ref.DispatchEligible() {
			eligible = append(eligible, ref)
		}
	}
	return eligible
}
