package services

import (
	"log"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
)

// LifecycleService is the single authorized mutation path for application
// status. Every transition is checked against the allowed edges, applied
// with compare-and-swap semantics and recorded as an event.
type LifecycleService interface {
	Transition(appID uuid.UUID, to models.ApplicationStatus, trigger, details string, extra map[string]interface{}) (*models.Application, error)
	Fail(appID uuid.UUID, cause string) error
}

type lifecycleService struct {
	appRepo   repositories.ApplicationRepository
	eventRepo repositories.EventRepository
}

func NewLifecycleService(
	appRepo repositories.ApplicationRepository,
	eventRepo repositories.EventRepository,
) LifecycleService {
	return &lifecycleService{
		appRepo:   appRepo,
		eventRepo: eventRepo,
	}
}

// Transition implements LifecycleService.
func (s *lifecycleService) Transition(appID uuid.UUID, to models.ApplicationStatus, trigger, details string, extra map[string]interface{}) (*models.Application, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		return nil, err
	}

	from := app.Status
	if !from.CanTransitionTo(to) {
		return nil, models.NewConflictError("cannot transition application %s from %s to %s", appID, from, to)
	}

	if err := s.appRepo.TransitionStatus(appID, from, to, extra); err != nil {
		return nil, err
	}

	event := &models.ApplicationEvent{
		ApplicationID: appID,
		EventType:     trigger,
		FromStatus:    from,
		ToStatus:      to,
		Details:       details,
	}
	if err := s.eventRepo.Record(event); err != nil {
		// The transition itself committed; a lost audit row is logged, not fatal.
		log.Printf("⚠️  Failed to record event %s for application %s: %v\n", trigger, appID, err)
	}

	log.Printf("🔄 Application %s: %s → %s (%s)\n", appID, from, to, trigger)

	return s.appRepo.FindByID(appID)
}

// Fail implements LifecycleService. Records the cause so a failed
// application is never silently stuck.
func (s *lifecycleService) Fail(appID uuid.UUID, cause string) error {
	_, err := s.Transition(appID, models.StatusFailed, "failure_recorded", cause, map[string]interface{}{
		"failure_reason": cause,
	})
	return err
}
