package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
	"github.com/google/uuid"
)

// memStore is an in-memory Store with the same ownership rules as
// PostgresStore
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	sessions map[string]model.Session
	timers   map[string]wire.TimerRecord
	history  map[string]wire.HistoryRecord
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		sessions: map[string]model.Session{},
		timers:   map[string]wire.TimerRecord{},
		history:  map[string]wire.HistoryRecord{},
	}
}

func (m *memStore) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return "", ErrConflict
		}
	}
	id := uuid.NewString()
	m.users[id] = model.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return id, nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *memStore) GetUser(ctx context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *memStore) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = model.Session{ID: uuid.NewString(), UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (m *memStore) GetSession(ctx context.Context, token string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memStore) ListTimers(ctx context.Context, userID string) ([]wire.TimerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []wire.TimerRecord{}
	for _, r := range m.timers {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpsertTimer(ctx context.Context, r wire.TimerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.timers[r.ID]; ok {
		if existing.UserID != r.UserID {
			return ErrConflict
		}
		r.CreatedAt = existing.CreatedAt
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.timers[r.ID] = r
	return nil
}

func (m *memStore) PatchTimer(ctx context.Context, userID, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.timers[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case wire.KeyTitle:
			r.Title = v.(string)
		case wire.KeyColor:
			r.Color = v.(string)
		case wire.KeySize:
			r.Size = v.(string)
		case wire.KeyTotalSeconds:
			r.TotalSeconds = v.(int64)
		case wire.KeyRemainingSeconds:
			r.RemainingSeconds = v.(int64)
		case wire.KeyElapsedSeconds:
			r.ElapsedSeconds = v.(int64)
		case wire.KeyIsRunning:
			r.IsRunning = v.(bool)
		case wire.KeyLastTickAt:
			if v == nil {
				r.LastTickAt = nil
			} else {
				n := v.(int64)
				r.LastTickAt = &n
			}
		}
	}
	m.timers[id] = r
	return nil
}

func (m *memStore) DeleteTimer(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.timers[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(m.timers, id)
	return nil
}

func (m *memStore) ListHistory(ctx context.Context, userID string) ([]wire.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []wire.HistoryRecord{}
	for _, r := range m.history {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return out, nil
}

func (m *memStore) InsertHistory(ctx context.Context, r wire.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.history[r.ID]; ok {
		return ErrConflict
	}
	m.history[r.ID] = r
	return nil
}

func (m *memStore) Close() error { return nil }
