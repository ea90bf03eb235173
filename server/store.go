package server

import (
	"context"
	"errors"
	"time"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
)

var (
	// ErrNotFound is returned when no record matches for the given owner
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken
	ErrConflict = errors.New("already exists")
)

// Store is the server's persistence. Every timer and history call is scoped
// to a user id; records owned by someone else behave as missing.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (string, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)

	CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	ListTimers(ctx context.Context, userID string) ([]wire.TimerRecord, error)
	UpsertTimer(ctx context.Context, r wire.TimerRecord) error
	PatchTimer(ctx context.Context, userID, id string, fields map[string]any) error
	DeleteTimer(ctx context.Context, userID, id string) error

	ListHistory(ctx context.Context, userID string) ([]wire.HistoryRecord, error)
	InsertHistory(ctx context.Context, r wire.HistoryRecord) error

	Close() error
}
