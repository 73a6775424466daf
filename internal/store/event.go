package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventms/appserver/types"
)

// EventRepository handles persistence for events. Events are read-only from
// the application's perspective; rows are seeded externally.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	const query = `
		SELECT id, title, event_date, description
		FROM events
		ORDER BY event_date ASC`
	return r.queryEvents(ctx, query)
}

// ListExcept returns all events other than the given one, ordered by date.
// Used to offer switch targets for an existing registration.
func (r *EventRepository) ListExcept(ctx context.Context, id int) ([]types.Event, error) {
	const query = `
		SELECT id, title, event_date, description
		FROM events
		WHERE id != $1
		ORDER BY event_date ASC`
	return r.queryEvents(ctx, query, id)
}

func (r *EventRepository) Get(ctx context.Context, id int) (types.Event, error) {
	const query = `
		SELECT id, title, event_date, description
		FROM events
		WHERE id = $1`
	var event types.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]types.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		var event types.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Date, &event.Description); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
