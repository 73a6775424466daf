package services

import (
	"context"
	"sort"
	"time"

	"github.com/eventms/appserver/internal/store"
	"github.com/eventms/appserver/types"
)

// In-memory repositories backing the service tests. They mimic the storage
// constraints the real tables enforce: unique email, unique (user, event).

type memUserRepo struct {
	nextID int
	users  map[string]types.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]types.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	if _, ok := m.users[user.Email]; ok {
		return types.User{}, store.ErrConflict
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[user.Email] = user
	return user, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	user, ok := m.users[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

type memEventRepo struct {
	events map[int]types.Event
}

func newMemEventRepo(events ...types.Event) *memEventRepo {
	repo := &memEventRepo{events: map[int]types.Event{}}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (m *memEventRepo) List(_ context.Context) ([]types.Event, error) {
	events := make([]types.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (m *memEventRepo) ListExcept(ctx context.Context, id int) ([]types.Event, error) {
	all, _ := m.List(ctx)
	events := make([]types.Event, 0, len(all))
	for _, e := range all {
		if e.ID != id {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *memEventRepo) Get(_ context.Context, id int) (types.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return event, nil
}

type regKey struct {
	userID  int
	eventID int
}

type memRegRepo struct {
	rows   map[regKey]time.Time
	events *memEventRepo
}

func newMemRegRepo(events *memEventRepo) *memRegRepo {
	return &memRegRepo{rows: map[regKey]time.Time{}, events: events}
}

func (m *memRegRepo) Insert(_ context.Context, userID, eventID int) error {
	key := regKey{userID, eventID}
	if _, ok := m.rows[key]; ok {
		return nil
	}
	m.rows[key] = time.Now()
	return nil
}

func (m *memRegRepo) Delete(_ context.Context, userID, eventID int) error {
	key := regKey{userID, eventID}
	if _, ok := m.rows[key]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, key)
	return nil
}

func (m *memRegRepo) UpdateEvent(_ context.Context, userID, currentEventID, newEventID int) error {
	current := regKey{userID, currentEventID}
	registeredAt, ok := m.rows[current]
	if !ok {
		return store.ErrNotFound
	}
	next := regKey{userID, newEventID}
	if _, ok := m.rows[next]; ok {
		return store.ErrConflict
	}
	delete(m.rows, current)
	m.rows[next] = registeredAt
	return nil
}

func (m *memRegRepo) Exists(_ context.Context, userID, eventID int) (bool, error) {
	_, ok := m.rows[regKey{userID, eventID}]
	return ok, nil
}

func (m *memRegRepo) ListEventIDs(_ context.Context, userID int) ([]int, error) {
	ids := make([]int, 0)
	for key := range m.rows {
		if key.userID == userID {
			ids = append(ids, key.eventID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *memRegRepo) ListDetailsByUser(ctx context.Context, userID int) ([]types.RegistrationDetail, error) {
	details := make([]types.RegistrationDetail, 0)
	for key, registeredAt := range m.rows {
		if key.userID != userID {
			continue
		}
		event, err := m.events.Get(ctx, key.eventID)
		if err != nil {
			return nil, err
		}
		details = append(details, types.RegistrationDetail{
			EventID:      event.ID,
			Title:        event.Title,
			Date:         event.Date,
			Description:  event.Description,
			RegisteredAt: registeredAt,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Date.Before(details[j].Date) })
	return details, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendRegistrationEmail(to, fullName string) error {
	m.sent = append(m.sent, to)
	return m.err
}
