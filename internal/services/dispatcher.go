package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
)

// DispatchOutcome reports what happened to a single reference during a
// dispatch attempt.
type DispatchOutcome struct {
	ReferenceName  string `json:"name"`
	ReferenceEmail string `json:"email"`
	RequestID      string `json:"request_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

type DispatchResult struct {
	ApplicationID string            `json:"application_id"`
	QuestionsSent []string          `json:"questions_sent"`
	Sent          []DispatchOutcome `json:"sent_emails"`
	Failed        []DispatchOutcome `json:"failed_emails"`
	Skipped       []DispatchOutcome `json:"skipped"`
	TotalSent     int               `json:"total_sent"`
	TotalFailed   int               `json:"total_failed"`
}

type DispatchCompletion struct {
	Request              *models.ReferenceRequest `json:"request"`
	ApplicationCompleted bool                     `json:"application_completed"`
}

// DispatchService creates reference-request rows and hands each one to the
// outbound mailer. Re-dispatch is a no-op per already-dispatched reference;
// resend is an explicit intent that only retries pending rows.
type DispatchService interface {
	Dispatch(ctx context.Context, appID uuid.UUID, resend bool) (*DispatchResult, error)
	CompleteRequest(ctx context.Context, requestID uuid.UUID) (*DispatchCompletion, error)
}

type dispatchService struct {
	appRepo     repositories.ApplicationRepository
	requestRepo repositories.ReferenceRequestRepository
	lifecycle   LifecycleService
	catalog     QuestionCatalogService
	mailer      MailerService
}

func NewDispatchService(
	appRepo repositories.ApplicationRepository,
	requestRepo repositories.ReferenceRequestRepository,
	lifecycle LifecycleService,
	catalog QuestionCatalogService,
	mailer MailerService,
) DispatchService {
	return &dispatchService{
		appRepo:     appRepo,
		requestRepo: requestRepo,
		lifecycle:   lifecycle,
		catalog:     catalog,
		mailer:      mailer,
	}
}

// Dispatch implements DispatchService.
func (s *dispatchService) Dispatch(ctx context.Context, appID uuid.UUID, resend bool) (*DispatchResult, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case models.StatusExtracted, models.StatusApproved, models.StatusRequestsSent:
	default:
		return nil, models.NewConflictError("application %s in status %s cannot dispatch reference requests", appID, app.Status)
	}

	result := &DispatchResult{ApplicationID: appID.String()}

	// References without an email can never be dispatched; they are reported,
	// not silently dropped.
	for _, ref := range app.ExtractedData.References {
		if !ref.DispatchEligible() {
			result.Failed = append(result.Failed, DispatchOutcome{
				ReferenceName: ref.Name,
				Error:         "reference has no email address",
			})
		}
	}

	eligible := app.EligibleReferences()
	if len(eligible) == 0 {
		return nil, models.NewValidationError("application %s has no dispatch-eligible references", appID)
	}

	questions := []string(app.QuestionSnapshot)
	if len(questions) == 0 {
		var catalogErr error
		questions, _, catalogErr = s.catalog.QuestionsForRole(app.Role, app.Organization)
		if catalogErr != nil {
			return nil, catalogErr
		}
	}
	result.QuestionsSent = questions

	existing, err := s.requestRepo.FindByApplicationID(appID)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*models.ReferenceRequest, len(existing))
	for i := range existing {
		byEmail[existing[i].ReferenceEmail] = &existing[i]
	}

	candidateName := app.ExtractedData.Name
	if candidateName == "" {
		candidateName = "The candidate"
	}

	for _, ref := range eligible {
		if prior, ok := byEmail[ref.Email]; ok {
			if prior.Status != models.RequestPending || !resend {
				result.Skipped = append(result.Skipped, DispatchOutcome{
					ReferenceName:  ref.Name,
					ReferenceEmail: ref.Email,
					RequestID:      prior.ID.String(),
				})
				continue
			}
			// Explicit resend: retry the pending row with its frozen snapshot.
			s.notify(ctx, result, prior, candidateName, app.Role, app.Organization)
			continue
		}

		request := &models.ReferenceRequest{
			ID:                    uuid.New(),
			ApplicationID:         appID,
			ReferenceName:         ref.Name,
			ReferenceEmail:        ref.Email,
			ReferencePhone:        ref.PhoneNumber,
			ReferenceCompany:      ref.Company,
			ReferenceRelationship: ref.Relationship,
			QuestionsSent:         append(models.StringList(nil), questions...),
			Status:                models.RequestPending,
			CreatedAt:             time.Now(),
			UpdatedAt:             time.Now(),
		}
		if err := s.requestRepo.Create(request); err != nil {
			result.Failed = append(result.Failed, DispatchOutcome{
				ReferenceName:  ref.Name,
				ReferenceEmail: ref.Email,
				Error:          err.Error(),
			})
			continue
		}

		s.notify(ctx, result, request, candidateName, app.Role, app.Organization)
	}

	result.TotalSent = len(result.Sent)
	result.TotalFailed = len(result.Failed)

	if result.TotalSent > 0 && app.Status != models.StatusRequestsSent {
		details := fmt.Sprintf("%d of %d references notified", result.TotalSent, len(eligible))
		if _, err := s.lifecycle.Transition(appID, models.StatusRequestsSent, "reference_requests_dispatched", details, nil); err != nil {
			return result, err
		}
	}

	if result.TotalSent == 0 && result.TotalFailed > 0 {
		return result, models.NewPartialDispatchError("no reference requests could be dispatched (%d failures)", result.TotalFailed)
	}

	return result, nil
}

// notify attempts the single outbound email for one request row and records
// the outcome. Failed rows stay pending for an explicit resend.
func (s *dispatchService) notify(ctx context.Context, result *DispatchResult, request *models.ReferenceRequest, candidateName, role, organization string) {
	invite := ReferenceInvite{
		RequestID:      request.ID,
		ReferenceName:  request.ReferenceName,
		ReferenceEmail: request.ReferenceEmail,
		CandidateName:  candidateName,
		Role:           role,
		Organization:   organization,
		Questions:      request.QuestionsSent,
	}

	if err := s.mailer.SendReferenceRequest(ctx, invite); err != nil {
		log.Printf("⚠️  Failed to notify reference %s: %v\n", request.ReferenceEmail, err)
		result.Failed = append(result.Failed, DispatchOutcome{
			ReferenceName:  request.ReferenceName,
			ReferenceEmail: request.ReferenceEmail,
			RequestID:      request.ID.String(),
			Error:          err.Error(),
		})
		return
	}

	if err := s.requestRepo.MarkSent(request.ID, time.Now()); err != nil {
		result.Failed = append(result.Failed, DispatchOutcome{
			ReferenceName:  request.ReferenceName,
			ReferenceEmail: request.ReferenceEmail,
			RequestID:      request.ID.String(),
			Error:          err.Error(),
		})
		return
	}

	result.Sent = append(result.Sent, DispatchOutcome{
		ReferenceName:  request.ReferenceName,
		ReferenceEmail: request.ReferenceEmail,
		RequestID:      request.ID.String(),
	})
}

// CompleteRequest implements DispatchService. When the last open request for
// an application completes, the application itself advances to completed.
func (s *dispatchService) CompleteRequest(ctx context.Context, requestID uuid.UUID) (*DispatchCompletion, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.RequestCompleted {
		return &DispatchCompletion{Request: request}, nil
	}

	if request.Status == models.RequestPending {
		return nil, models.NewConflictError("reference request %s was never sent", requestID)
	}

	now := time.Now()
	if err := s.requestRepo.MarkCompleted(requestID, now); err != nil {
		return nil, err
	}
	request.Status = models.RequestCompleted
	request.CompletedAt = &now

	siblings, err := s.requestRepo.FindByApplicationID(request.ApplicationID)
	if err != nil {
		return nil, err
	}

	allCompleted := true
	for _, sibling := range siblings {
		if sibling.ID == requestID {
			continue
		}
		if sibling.Status != models.RequestCompleted {
			allCompleted = false
			break
		}
	}

	completion := &DispatchCompletion{Request: request}
	if allCompleted {
		if _, err := s.lifecycle.Transition(request.ApplicationID, models.StatusCompleted, "all_references_completed", "", nil); err != nil {
			// The request itself completed; surfacing the aggregate failure
			// would roll nothing back.
			log.Printf("⚠️  Failed to complete application %s: %v\n", request.ApplicationID, err)
		} else {
			completion.ApplicationCompleted = true
		}
	}

	return completion, nil
}
