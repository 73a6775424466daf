package types

import "time"

// Registration associates one user with one event. The (user, event) pair is
// unique at the storage layer.
type Registration struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	EventID      int       `json:"event_id" db:"event_id"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// RegistrationDetail is a registration joined with its event, as listed on
// the user's dashboard.
type RegistrationDetail struct {
	EventID      int       `json:"event_id" db:"event_id"`
	Title        string    `json:"title" db:"title"`
	Date         time.Time `json:"event_date" db:"event_date"`
	Description  string    `json:"description" db:"description"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}
