package models

type UploadApplicationResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

// ProcessResumeRequest is the relay contract: the caller supplies the resume
// location plus the identifiers needed to update the application record.
type ProcessResumeRequest struct {
	ResumeURL     string `json:"resume_url" validate:"required"`
	Role          string `json:"role" validate:"required"`
	Organization  string `json:"organization" validate:"required"`
	UserID        string `json:"user_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required,uuid"`
}

type ProcessResumeResponse struct {
	Success       bool           `json:"success"`
	ApplicationID string         `json:"application_id"`
	Status        string         `json:"status"`
	Data          *ExtractedData `json:"data,omitempty"`
}

type FinalizeQuestionsRequest struct {
	Questions []string `json:"questions"`
}

type DispatchRequest struct {
	Resend bool `json:"resend"`
}

type QuestionListResponse struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Questions    []string `json:"questions"`
	Fallback     bool     `json:"fallback"`
}
