package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCandidateExtractionPrompt creates the prompt that turns raw resume
// text into a structured candidate record.
func (pb *PromptBuilder) BuildCandidateExtractionPrompt(resumeText, role, organization string) string {
	return fmt.Sprintf(`You are an expert HR assistant extracting structured data from a resume submitted for a %s position at %s.

RESUME TEXT:
%s

Extract the candidate's contact details and any professional references listed in the resume.

Rules:
- Use only information present in the resume. Never invent names, emails or phone numbers.
- A reference must be a distinct person the candidate lists as a referee, not the candidate themselves.
- If a field is not present, return an empty string for it.
- If no references are listed, return an empty references array.

Return your response in the following JSON format:
{
  "name": "<candidate full name>",
  "email": "<candidate email>",
  "phone": "<candidate phone number>",
  "references": [
    {
      "name": "<reference full name>",
      "email": "<reference email>",
      "phone_number": "<reference phone number>",
      "company": "<reference company>",
      "relationship": "<relationship to candidate, e.g. manager, colleague>",
      "years_worked": "<years they worked together, if stated>"
    }
  ]
}

Return ONLY the JSON object, no commentary.`, role, organization, resumeText)
}
