package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
)

// ResumeProcessorService runs the extraction pipeline for one application:
// fetch resume, parse text, extract the candidate record, persist it and
// advance processing → extracted. Any step failure lands the application in
// failed with a recorded cause.
type ResumeProcessorService interface {
	ProcessApplication(ctx context.Context, appID uuid.UUID) (*models.Application, error)
}

type resumeProcessorService struct {
	appRepo   repositories.ApplicationRepository
	lifecycle LifecycleService
	storage   StorageService
	parser    ResumeParserService
	extractor CandidateExtractor
	indexer   ResumeIndexService
}

func NewResumeProcessorService(
	appRepo repositories.ApplicationRepository,
	lifecycle LifecycleService,
	storage StorageService,
	parser ResumeParserService,
	extractor CandidateExtractor,
	indexer ResumeIndexService,
) ResumeProcessorService {
	return &resumeProcessorService{
		appRepo:   appRepo,
		lifecycle: lifecycle,
		storage:   storage,
		parser:    parser,
		extractor: extractor,
		indexer:   indexer,
	}
}

// ProcessApplication implements ResumeProcessorService.
func (s *resumeProcessorService) ProcessApplication(ctx context.Context, appID uuid.UUID) (*models.Application, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	if app.Status != models.StatusProcessing {
		return nil, models.NewConflictError("application %s is already %s", appID, app.Status)
	}

	log.Printf("🔄 Starting extraction for application %s\n", appID)

	// Step 1: Fetch the resume
	raw, err := s.storage.FetchResume(ctx, app.ResumeURL)
	if err != nil {
		return nil, s.fail(appID, fmt.Sprintf("failed to fetch resume: %v", err), err)
	}

	// Step 2: Parse resume text
	log.Println("📄 Parsing resume...")
	text, err := s.parser.ExtractText(app.ResumeURL, raw)
	if err != nil {
		return nil, s.fail(appID, fmt.Sprintf("failed to parse resume: %v", err), err)
	}

	// Step 3: Extract the candidate record
	log.Println("🤖 Extracting candidate data...")
	data, err := s.extractor.Extract(ctx, text, app.Role, app.Organization)
	if err != nil {
		return nil, s.fail(appID, fmt.Sprintf("extraction failed: %v", err), err)
	}
	data.ResumeURL = app.ResumeURL

	// Step 4: Persist and advance the lifecycle
	log.Println("💾 Saving extracted data...")
	updated, err := s.lifecycle.Transition(appID, models.StatusExtracted, "extraction_completed", "", map[string]interface{}{
		"extracted_data":     *data,
		"has_extracted_data": true,
	})
	if err != nil {
		return nil, err
	}

	// Step 5: Index the resume for similarity search. Best effort; a search
	// outage must not fail an otherwise successful extraction.
	if err := s.indexer.IndexResume(ctx, appID.String(), text); err != nil {
		log.Printf("⚠️  Failed to index resume for %s: %v\n", appID, err)
	}

	log.Printf("✅ Extraction completed for application %s (%d references)\n", appID, len(data.References))
	return updated, nil
}

func (s *resumeProcessorService) fail(appID uuid.UUID, cause string, err error) error {
	if failErr := s.lifecycle.Fail(appID, cause); failErr != nil {
		log.Printf("⚠️  Failed to mark application %s failed: %v\n", appID, failErr)
	}
	return models.NewCollaboratorError(cause, err)
}
