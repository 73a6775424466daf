package types

import "time"

// Event is a seeded event users can register for. The application never
// creates or mutates events; rows arrive via the seed command or external
// inserts.
type Event struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Date        time.Time `json:"event_date" db:"event_date"`
	Description string    `json:"description" db:"description"`
}
