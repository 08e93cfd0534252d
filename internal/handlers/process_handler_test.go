package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
)

type stubApplicationRepo struct {
	app        *models.Application
	updatedURL string
}

func (r *stubApplicationRepo) Create(app *models.Application) error {
	stored := *app
	r.app = &stored
	return nil
}

func (r *stubApplicationRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	if r.app == nil || r.app.ID != id {
		return nil, models.NewNotFoundError("application %s not found", id)
	}
	copied := *r.app
	return &copied, nil
}

func (r *stubApplicationRepo) FindByUserID(userID string) ([]models.Application, error) {
	return nil, nil
}

func (r *stubApplicationRepo) TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, extra map[string]interface{}) error {
	return nil
}

func (r *stubApplicationRepo) UpdateResumeURL(id uuid.UUID, resumeURL string) error {
	if r.app == nil || r.app.ID != id {
		return models.NewNotFoundError("application %s not found", id)
	}
	r.app.ResumeURL = resumeURL
	r.updatedURL = resumeURL
	return nil
}

func (r *stubApplicationRepo) FindStuckProcessing(olderThan time.Time, limit int) ([]models.Application, error) {
	return nil, nil
}

type stubProcessor struct {
	repo      *stubApplicationRepo
	processed []uuid.UUID
	seenURL   string
}

func (p *stubProcessor) ProcessApplication(ctx context.Context, appID uuid.UUID) (*models.Application, error) {
	p.processed = append(p.processed, appID)
	p.seenURL = p.repo.app.ResumeURL

	app := *p.repo.app
	app.Status = models.StatusExtracted
	return &app, nil
}

func newProcessApp(repo *stubApplicationRepo, processor *stubProcessor) *fiber.App {
	app := fiber.New()
	handler := NewProcessHandler(repo, processor)
	app.Post("/api/v1/process-resume", handler.HandleProcessResume)
	return app
}

func postProcessResume(t *testing.T, app *fiber.App, payload models.ProcessResumeRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/process-resume", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestProcessResumeStampsSuppliedURL(t *testing.T) {
	repo := &stubApplicationRepo{app: &models.Application{
		ID:        uuid.New(),
		UserID:    "user-1",
		ResumeURL: "./uploads/resume_old.pdf",
		Status:    models.StatusProcessing,
	}}
	processor := &stubProcessor{repo: repo}
	app := newProcessApp(repo, processor)

	resp := postProcessResume(t, app, models.ProcessResumeRequest{
		ResumeURL:     "https://storage.example.com/resume_new.pdf",
		Role:          "Registered Nurse",
		Organization:  "Camden Care & Support Services",
		UserID:        "user-1",
		ApplicationID: repo.app.ID.String(),
	})

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.updatedURL != "https://storage.example.com/resume_new.pdf" {
		t.Errorf("supplied resume URL not stored: %q", repo.updatedURL)
	}
	if processor.seenURL != "https://storage.example.com/resume_new.pdf" {
		t.Errorf("processing read the stale URL: %q", processor.seenURL)
	}
	if len(processor.processed) != 1 {
		t.Errorf("expected 1 processing run, got %d", len(processor.processed))
	}
}

func TestProcessResumeKeepsMatchingURL(t *testing.T) {
	repo := &stubApplicationRepo{app: &models.Application{
		ID:        uuid.New(),
		UserID:    "user-1",
		ResumeURL: "./uploads/resume_same.pdf",
		Status:    models.StatusProcessing,
	}}
	processor := &stubProcessor{repo: repo}
	app := newProcessApp(repo, processor)

	resp := postProcessResume(t, app, models.ProcessResumeRequest{
		ResumeURL:     "./uploads/resume_same.pdf",
		Role:          "Registered Nurse",
		Organization:  "Camden Care & Support Services",
		UserID:        "user-1",
		ApplicationID: repo.app.ID.String(),
	})

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.updatedURL != "" {
		t.Errorf("unchanged URL should not be rewritten, got %q", repo.updatedURL)
	}
}

func TestProcessResumeValidatesPayload(t *testing.T) {
	repo := &stubApplicationRepo{}
	app := newProcessApp(repo, &stubProcessor{repo: repo})

	resp := postProcessResume(t, app, models.ProcessResumeRequest{
		Role:          "Registered Nurse",
		Organization:  "Camden Care & Support Services",
		UserID:        "user-1",
		ApplicationID: uuid.New().String(),
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing resume_url: expected 400, got %d", resp.StatusCode)
	}
}

func TestProcessResumeHidesOtherUsersApplications(t *testing.T) {
	repo := &stubApplicationRepo{app: &models.Application{
		ID:        uuid.New(),
		UserID:    "owner",
		ResumeURL: "./uploads/resume_owner.pdf",
		Status:    models.StatusProcessing,
	}}
	processor := &stubProcessor{repo: repo}
	app := newProcessApp(repo, processor)

	resp := postProcessResume(t, app, models.ProcessResumeRequest{
		ResumeURL:     "./uploads/resume_owner.pdf",
		Role:          "Registered Nurse",
		Organization:  "Camden Care & Support Services",
		UserID:        "someone-else",
		ApplicationID: repo.app.ID.String(),
	})

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for foreign application, got %d", resp.StatusCode)
	}
	if len(processor.processed) != 0 {
		t.Error("processing ran for a foreign application")
	}
}
