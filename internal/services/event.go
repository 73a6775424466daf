package services

import (
	"context"
	"errors"

	"github.com/eventms/appserver/internal/store"
	"github.com/eventms/appserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	List(ctx context.Context) ([]types.Event, error)
	ListExcept(ctx context.Context, id int) ([]types.Event, error)
	Get(ctx context.Context, id int) (types.Event, error)
}

// EventService encapsulates event listing use-cases. There are no write
// use-cases; events are seeded externally.
type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{repo: repo}
}

func (s *EventService) List(ctx context.Context) ([]types.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventService) ListExcept(ctx context.Context, id int) ([]types.Event, error) {
	return s.repo.ListExcept(ctx, id)
}

func (s *EventService) Get(ctx context.Context, id int) (types.Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Event{}, ErrEventNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}
