package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/eventms/appserver/types"
)

// RegistrationRepository handles persistence for user-event registrations.
// At-most-one row per (user, event) pair is guaranteed by the table's
// uniqueness constraint, not by application-level locking.
type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Insert registers the user for the event. The insert is idempotent: if the
// pair already exists the statement is a no-op and no error is returned.
func (r *RegistrationRepository) Insert(ctx context.Context, userID, eventID int) error {
	const query = `
		INSERT INTO registrations (user_id, event_id, registered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, eventID, time.Now())
	return err
}

// Delete removes the registration pair. ErrNotFound when no row was deleted.
func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID int) error {
	const query = `DELETE FROM registrations WHERE user_id = $1 AND event_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEvent repoints the user's registration for currentEventID at
// newEventID in place, preserving the original registered_at timestamp.
// ErrNotFound when the user holds no registration for currentEventID.
func (r *RegistrationRepository) UpdateEvent(ctx context.Context, userID, currentEventID, newEventID int) error {
	const query = `
		UPDATE registrations
		SET event_id = $1
		WHERE user_id = $2 AND event_id = $3`
	result, err := r.db.ExecContext(ctx, query, newEventID, userID, currentEventID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether the user holds a registration for the event.
func (r *RegistrationRepository) Exists(ctx context.Context, userID, eventID int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListEventIDs returns the ids of all events the user is registered for.
func (r *RegistrationRepository) ListEventIDs(ctx context.Context, userID int) ([]int, error) {
	const query = `SELECT event_id FROM registrations WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListDetailsByUser returns the user's registrations joined with their
// events, ordered by event date ascending.
func (r *RegistrationRepository) ListDetailsByUser(ctx context.Context, userID int) ([]types.RegistrationDetail, error) {
	const query = `
		SELECT r.event_id, e.title, e.event_date, e.description, r.registered_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.event_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]types.RegistrationDetail, 0)
	for rows.Next() {
		var d types.RegistrationDetail
		if err := rows.Scan(&d.EventID, &d.Title, &d.Date, &d.Description, &d.RegisteredAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
