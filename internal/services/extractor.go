package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"camdencare/reference-checker/internal/models"
)

// CandidateExtractor turns raw resume text into a structured candidate
// record, or fails with a collaborator error. Pluggable so the LLM backend
// can be swapped without touching the workflow core.
type CandidateExtractor interface {
	Extract(ctx context.Context, resumeText, role, organization string) (*models.ExtractedData, error)
}

type llmExtractor struct {
	llm           LLMService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewLLMCandidateExtractor(llm LLMService, maxRetries int) CandidateExtractor {
	return &llmExtractor{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (e *llmExtractor) Extract(ctx context.Context, resumeText, role, organization string) (*models.ExtractedData, error) {
	prompt := e.promptBuilder.BuildCandidateExtractionPrompt(resumeText, role, organization)

	response, err := e.llm.GenerateTextWithRetry(ctx, prompt, 0.2, e.maxRetries)
	if err != nil {
		log.Printf("⚠️  LLM extraction failed, falling back to regex: %v\n", err)
		return regexOnlyExtract(resumeText, err)
	}

	var data models.ExtractedData
	if err := parseJSONResponse(response, &data); err != nil {
		log.Printf("⚠️  Failed to parse LLM extraction response, falling back to regex: %v\n", err)
		return regexOnlyExtract(resumeText, err)
	}

	// The regex pass fills gaps the LLM left empty.
	fallback := regexExtract(resumeText)
	if data.Name == "" {
		data.Name = fallback.Name
	}
	if data.Email == "" {
		data.Email = fallback.Email
	}
	if data.Phone == "" {
		data.Phone = fallback.Phone
	}

	return &data, nil
}

func regexOnlyExtract(resumeText string, cause error) (*models.ExtractedData, error) {
	data := regexExtract(resumeText)
	if data.Name == "" && data.Email == "" && data.Phone == "" {
		return nil, models.NewCollaboratorError("candidate extraction failed", cause)
	}
	return data, nil
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
	namePattern  = regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})[ \t]*$`)
)

// regexExtract is the deterministic fallback extractor. It only looks at the
// first part of the resume for the candidate name.
func regexExtract(resumeText string) *models.ExtractedData {
	data := &models.ExtractedData{References: []models.Reference{}}

	if match := emailPattern.FindString(resumeText); match != "" {
		data.Email = match
	}
	if match := phonePattern.FindString(resumeText); match != "" {
		data.Phone = strings.TrimSpace(match)
	}

	head := resumeText
	if len(head) > 500 {
		head = head[:500]
	}
	if match := namePattern.FindStringSubmatch(head); len(match) > 1 {
		data.Name = strings.TrimSpace(match[1])
	}

	return data
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting.
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
