package services

import (
	"context"
	"errors"

	"github.com/eventms/appserver/internal/store"
	"github.com/eventms/appserver/types"
)

// RegistrationRepository defines persistence operations for registrations.
type RegistrationRepository interface {
	Insert(ctx context.Context, userID, eventID int) error
	Delete(ctx context.Context, userID, eventID int) error
	UpdateEvent(ctx context.Context, userID, currentEventID, newEventID int) error
	Exists(ctx context.Context, userID, eventID int) (bool, error)
	ListEventIDs(ctx context.Context, userID int) ([]int, error)
	ListDetailsByUser(ctx context.Context, userID int) ([]types.RegistrationDetail, error)
}

// RegistrationService encapsulates the register/cancel/switch use-cases.
// Per (user, event) pair the states are Unregistered and Registered; the
// uniqueness constraint on the pair rules out duplicate rows.
type RegistrationService struct {
	repo   RegistrationRepository
	events EventRepository
}

func NewRegistrationService(repo RegistrationRepository, events EventRepository) *RegistrationService {
	return &RegistrationService{repo: repo, events: events}
}

// Register signs the user up for the event. Registering twice is a silent
// no-op success: the insert is idempotent, so no pre-check or lock is needed.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int) error {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.repo.Insert(ctx, userID, eventID)
}

// Cancel removes the user's registration for the event.
// ErrRegistrationNotFound when there was nothing to cancel.
func (s *RegistrationService) Cancel(ctx context.Context, userID, eventID int) error {
	err := s.repo.Delete(ctx, userID, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRegistrationNotFound
	}
	return err
}

// Switch repoints the user's registration for currentEventID at newEventID,
// keeping the original registered_at timestamp: switching changes which
// event an existing registration refers to, it is not cancel-plus-create.
//
// The already-registered check is a pre-check, not constraint-enforced, so
// concurrent duplicate switch requests from the same user can both pass it;
// the table constraint then fails the second write instead of producing a
// duplicate row.
func (s *RegistrationService) Switch(ctx context.Context, userID, currentEventID, newEventID int) error {
	if _, err := s.events.Get(ctx, newEventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	registered, err := s.repo.Exists(ctx, userID, newEventID)
	if err != nil {
		return err
	}
	if registered {
		return ErrAlreadyRegistered
	}

	err = s.repo.UpdateEvent(ctx, userID, currentEventID, newEventID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRegistrationNotFound
	}
	return err
}

// ListForUser returns the user's registrations joined with their events,
// ordered by event date ascending.
func (s *RegistrationService) ListForUser(ctx context.Context, userID int) ([]types.RegistrationDetail, error) {
	return s.repo.ListDetailsByUser(ctx, userID)
}

// RegisteredEventIDs returns the ids of the events the user is registered
// for, used to flag events on the listing page.
func (s *RegistrationService) RegisteredEventIDs(ctx context.Context, userID int) ([]int, error) {
	return s.repo.ListEventIDs(ctx, userID)
}
