package services

import (
	"context"
	"errors"
	"testing"

	"camdencare/reference-checker/internal/models"
)

type processorFixture struct {
	appRepo   *fakeApplicationRepo
	eventRepo *fakeEventRepo
	storage   *fakeStorage
	extractor *fakeExtractor
	indexer   *fakeIndexer
	svc       ResumeProcessorService
}

func newProcessorFixture() *processorFixture {
	appRepo := newFakeApplicationRepo()
	eventRepo := &fakeEventRepo{}
	storage := &fakeStorage{contents: map[string][]byte{
		"resume_test.pdf": []byte(sampleResume),
	}}
	extractor := &fakeExtractor{data: &models.ExtractedData{
		Name:  "Jordan Smith",
		Email: "jordan.smith@example.com",
		References: []models.Reference{
			{Name: "Alice Brown", Email: "alice.brown@hospital.example.com"},
		},
	}}
	indexer := &fakeIndexer{}
	lifecycle := NewLifecycleService(appRepo, eventRepo)

	return &processorFixture{
		appRepo:   appRepo,
		eventRepo: eventRepo,
		storage:   storage,
		extractor: extractor,
		indexer:   indexer,
		svc:       NewResumeProcessorService(appRepo, lifecycle, storage, &fakeParser{}, extractor, indexer),
	}
}

func TestProcessApplicationSuccess(t *testing.T) {
	f := newProcessorFixture()
	app := seedApplication(f.appRepo, models.StatusProcessing)

	updated, err := f.svc.ProcessApplication(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("ProcessApplication returned error: %v", err)
	}

	if updated.Status != models.StatusExtracted {
		t.Errorf("expected status extracted, got %s", updated.Status)
	}
	if !updated.HasExtractedData {
		t.Error("has_extracted_data flag not set")
	}
	if updated.ExtractedData.Name != "Jordan Smith" {
		t.Errorf("extracted data not persisted: %+v", updated.ExtractedData)
	}
	if updated.ExtractedData.ResumeURL != app.ResumeURL {
		t.Errorf("resume URL not stamped onto extracted data: %q", updated.ExtractedData.ResumeURL)
	}
	if len(f.indexer.indexed) != 1 || f.indexer.indexed[0] != app.ID.String() {
		t.Errorf("resume not indexed: %v", f.indexer.indexed)
	}
}

func TestProcessApplicationRejectsNonProcessing(t *testing.T) {
	f := newProcessorFixture()
	app := seedApplication(f.appRepo, models.StatusExtracted)

	if _, err := f.svc.ProcessApplication(context.Background(), app.ID); models.KindOf(err) != models.KindConflict {
		t.Fatalf("expected conflict for non-processing application, got %v", err)
	}
	if len(f.indexer.indexed) != 0 {
		t.Error("indexer called despite rejected run")
	}
}

func TestProcessApplicationFetchFailureMarksFailed(t *testing.T) {
	f := newProcessorFixture()
	f.storage.fetchErr = errors.New("bucket unreachable")
	app := seedApplication(f.appRepo, models.StatusProcessing)

	_, err := f.svc.ProcessApplication(context.Background(), app.ID)
	if models.KindOf(err) != models.KindCollaborator {
		t.Fatalf("expected collaborator error, got %v", err)
	}

	stored, _ := f.appRepo.FindByID(app.ID)
	if stored.Status != models.StatusFailed {
		t.Errorf("expected status failed, got %s", stored.Status)
	}
	if stored.FailureReason == nil {
		t.Error("failure reason not recorded")
	}
}

func TestProcessApplicationExtractionFailureMarksFailed(t *testing.T) {
	f := newProcessorFixture()
	f.extractor.extractErr = models.NewCollaboratorError("candidate extraction failed", errors.New("model down"))
	app := seedApplication(f.appRepo, models.StatusProcessing)

	_, err := f.svc.ProcessApplication(context.Background(), app.ID)
	if models.KindOf(err) != models.KindCollaborator {
		t.Fatalf("expected collaborator error, got %v", err)
	}

	stored, _ := f.appRepo.FindByID(app.ID)
	if stored.Status != models.StatusFailed {
		t.Errorf("expected status failed, got %s", stored.Status)
	}
}

func TestProcessApplicationIndexFailureIsNonFatal(t *testing.T) {
	f := newProcessorFixture()
	f.indexer.indexErr = errors.New("qdrant unreachable")
	app := seedApplication(f.appRepo, models.StatusProcessing)

	updated, err := f.svc.ProcessApplication(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("index outage must not fail extraction, got %v", err)
	}
	if updated.Status != models.StatusExtracted {
		t.Errorf("expected status extracted, got %s", updated.Status)
	}
}
