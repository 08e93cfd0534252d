package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
)

// In-memory doubles for the repository and collaborator interfaces. They
// mimic the persistence semantics the services rely on: copies in and out,
// compare-and-swap on status, version increments.

type fakeApplicationRepo struct {
	apps          map[uuid.UUID]*models.Application
	transitionErr error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uuid.UUID]*models.Application)}
}

func (r *fakeApplicationRepo) Create(app *models.Application) error {
	stored := *app
	r.apps[app.ID] = &stored
	return nil
}

func (r *fakeApplicationRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, models.NewNotFoundError("application %s not found", id)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByUserID(userID string) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range r.apps {
		if app.UserID == userID {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (r *fakeApplicationRepo) TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, extra map[string]interface{}) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}

	app, ok := r.apps[id]
	if !ok || app.Status != from {
		return models.NewConflictError("application %s is no longer in status %s", id, from)
	}

	app.Status = to
	app.Version++
	app.UpdatedAt = time.Now()

	for key, value := range extra {
		switch key {
		case "extracted_data":
			app.ExtractedData = value.(models.ExtractedData)
		case "has_extracted_data":
			app.HasExtractedData = value.(bool)
		case "question_snapshot":
			app.QuestionSnapshot = value.(models.StringList)
		case "failure_reason":
			reason := value.(string)
			app.FailureReason = &reason
		}
	}

	return nil
}

func (r *fakeApplicationRepo) UpdateResumeURL(id uuid.UUID, resumeURL string) error {
	app, ok := r.apps[id]
	if !ok {
		return models.NewNotFoundError("application %s not found", id)
	}
	app.ResumeURL = resumeURL
	app.UpdatedAt = time.Now()
	return nil
}

func (r *fakeApplicationRepo) FindStuckProcessing(olderThan time.Time, limit int) ([]models.Application, error) {
	var stuck []models.Application
	for _, app := range r.apps {
		if app.Status == models.StatusProcessing && app.UpdatedAt.Before(olderThan) {
			stuck = append(stuck, *app)
		}
		if len(stuck) >= limit {
			break
		}
	}
	return stuck, nil
}

type fakeEventRepo struct {
	events    []models.ApplicationEvent
	recordErr error
}

func (r *fakeEventRepo) Record(event *models.ApplicationEvent) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) FindByApplicationID(applicationID uuid.UUID) ([]models.ApplicationEvent, error) {
	var events []models.ApplicationEvent
	for _, event := range r.events {
		if event.ApplicationID == applicationID {
			events = append(events, event)
		}
	}
	return events, nil
}

type fakeRequestRepo struct {
	requests  []*models.ReferenceRequest
	createErr error
}

func (r *fakeRequestRepo) Create(request *models.ReferenceRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	stored := *request
	r.requests = append(r.requests, &stored)
	return nil
}

func (r *fakeRequestRepo) FindByID(id uuid.UUID) (*models.ReferenceRequest, error) {
	for _, request := range r.requests {
		if request.ID == id {
			copied := *request
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("reference request %s not found", id)
}

func (r *fakeRequestRepo) FindByApplicationID(applicationID uuid.UUID) ([]models.ReferenceRequest, error) {
	var requests []models.ReferenceRequest
	for _, request := range r.requests {
		if request.ApplicationID == applicationID {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) MarkSent(id uuid.UUID, at time.Time) error {
	for _, request := range r.requests {
		if request.ID == id {
			request.Status = models.RequestSent
			request.SentAt = &at
			return nil
		}
	}
	return models.NewNotFoundError("reference request %s not found", id)
}

func (r *fakeRequestRepo) MarkCompleted(id uuid.UUID, at time.Time) error {
	for _, request := range r.requests {
		if request.ID == id {
			request.Status = models.RequestCompleted
			request.CompletedAt = &at
			return nil
		}
	}
	return models.NewNotFoundError("reference request %s not found", id)
}

func (r *fakeRequestRepo) MarkOverdue(before time.Time) (int64, error) {
	var flagged int64
	for _, request := range r.requests {
		if request.Status == models.RequestSent && request.SentAt != nil && request.SentAt.Before(before) {
			request.Status = models.RequestOverdue
			flagged++
		}
	}
	return flagged, nil
}

type fakeQuestionRepo struct {
	questions []models.Question
	findErr   error
}

func (r *fakeQuestionRepo) Create(question *models.Question) error {
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) FindActive(role, organization string) ([]models.Question, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var matched []models.Question
	for _, q := range r.questions {
		if q.Role == role && q.Organization == organization && q.Active {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (r *fakeQuestionRepo) CountForRole(role, organization string) (int64, error) {
	var count int64
	for _, q := range r.questions {
		if q.Role == role && q.Organization == organization {
			count++
		}
	}
	return count, nil
}

type fakeLLM struct {
	response    string
	generateErr error
}

func (l *fakeLLM) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (l *fakeLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if l.generateErr != nil {
		return "", l.generateErr
	}
	return l.response, nil
}

func (l *fakeLLM) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return l.GenerateText(ctx, prompt, temperature)
}

type fakeMailer struct {
	sent    []ReferenceInvite
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]error)}
}

func (m *fakeMailer) SendReferenceRequest(ctx context.Context, invite ReferenceInvite) error {
	if err, ok := m.failFor[invite.ReferenceEmail]; ok {
		return err
	}
	m.sent = append(m.sent, invite)
	return nil
}

func (m *fakeMailer) Enabled() bool {
	return true
}

type fakeStorage struct {
	contents map[string][]byte
	fetchErr error
}

func (s *fakeStorage) SaveResume(file *multipart.FileHeader) (string, string, error) {
	return file.Filename, "./uploads/" + file.Filename, nil
}

func (s *fakeStorage) FetchResume(ctx context.Context, location string) ([]byte, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	raw, ok := s.contents[location]
	if !ok {
		return nil, errors.New("resume not found")
	}
	return raw, nil
}

func (s *fakeStorage) GetFilePath(filename string) string { return filename }
func (s *fakeStorage) DeleteFile(filename string) error   { return nil }
func (s *fakeStorage) EnsureUploadDir() error             { return nil }

type fakeParser struct {
	parseErr error
}

func (p *fakeParser) ExtractText(filename string, raw []byte) (string, error) {
	if p.parseErr != nil {
		return "", p.parseErr
	}
	return string(raw), nil
}

type fakeExtractor struct {
	data       *models.ExtractedData
	extractErr error
}

func (e *fakeExtractor) Extract(ctx context.Context, resumeText, role, organization string) (*models.ExtractedData, error) {
	if e.extractErr != nil {
		return nil, e.extractErr
	}
	copied := *e.data
	return &copied, nil
}

type fakeIndexer struct {
	indexed  []string
	indexErr error
}

func (i *fakeIndexer) IndexResume(ctx context.Context, applicationID string, resumeText string) error {
	if i.indexErr != nil {
		return i.indexErr
	}
	i.indexed = append(i.indexed, applicationID)
	return nil
}

func (i *fakeIndexer) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return nil, nil
}
