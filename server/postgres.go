package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key
const uniqueViolation = "23505"

// PostgresStore implements Store on PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dbURL and runs migrations
func OpenPostgres(ctx context.Context, dbURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	p := &PostgresStore{db: db}
	if err := p.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return p, nil
}

// Close closes the database connection
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateUser inserts a user and returns its id
func (p *PostgresStore) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	var userID string
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`,
		username, email, passwordHash,
	).Scan(&userID)
	if isUniqueViolation(err) {
		return "", ErrConflict
	}
	return userID, err
}

// GetUserByUsername finds a user by login name
func (p *PostgresStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, notFound(err)
}

// GetUser finds a user by id
func (p *PostgresStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, notFound(err)
}

// CreateSession stores a session token
func (p *PostgresStore) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)
	return err
}

// GetSession looks up a session by token
func (p *PostgresStore) GetSession(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions WHERE token = $1`,
		token,
	).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	return s, notFound(err)
}

// DeleteSession removes a session token
func (p *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// ListTimers returns a user's timers in creation order
func (p *PostgresStore) ListTimers(ctx context.Context, userID string) ([]wire.TimerRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, title, type, total_seconds, remaining_seconds,
		       elapsed_seconds, is_running, last_tick_at, color, size, created_at
		FROM timers
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []wire.TimerRecord{}
	for rows.Next() {
		var r wire.TimerRecord
		var lastTick sql.NullInt64
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Type, &r.TotalSeconds, &r.RemainingSeconds,
			&r.ElapsedSeconds, &r.IsRunning, &lastTick, &r.Color, &r.Size, &r.CreatedAt); err != nil {
			return nil, err
		}
		if lastTick.Valid && lastTick.Int64 > 0 {
			v := lastTick.Int64
			r.LastTickAt = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// UpsertTimer inserts a timer or replaces the caller's existing one. An id
// owned by another user is reported as ErrConflict.
func (p *PostgresStore) UpsertTimer(ctx context.Context, r wire.TimerRecord) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO timers (id, user_id, title, type, total_seconds, remaining_seconds,
		                    elapsed_seconds, is_running, last_tick_at, color, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
		    title = EXCLUDED.title,
		    type = EXCLUDED.type,
		    total_seconds = EXCLUDED.total_seconds,
		    remaining_seconds = EXCLUDED.remaining_seconds,
		    elapsed_seconds = EXCLUDED.elapsed_seconds,
		    is_running = EXCLUDED.is_running,
		    last_tick_at = EXCLUDED.last_tick_at,
		    color = EXCLUDED.color,
		    size = EXCLUDED.size,
		    updated_at = NOW()
		WHERE timers.user_id = EXCLUDED.user_id`,
		r.ID, r.UserID, r.Title, r.Type, r.TotalSeconds, r.RemainingSeconds,
		r.ElapsedSeconds, r.IsRunning, nullTick(r.LastTickAt), r.Color, r.Size, createdAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConflict
	}
	return nil
}

// PatchTimer sets the given columns on one of the user's timers. Keys must
// already be validated against wire.PatchableKeys.
func (p *PostgresStore) PatchTimer(ctx context.Context, userID, id string, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !wire.PatchableKeys[k] {
			return fmt.Errorf("field %q cannot be patched", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, fields[k])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id, userID)

	query := fmt.Sprintf(`UPDATE timers SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(keys)+1, len(keys)+2)

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteTimer removes one of the user's timers
func (p *PostgresStore) DeleteTimer(ctx context.Context, userID, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM timers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListHistory returns a user's archived weeks, most recent first
func (p *PostgresStore) ListHistory(ctx context.Context, userID string) ([]wire.HistoryRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, week_start, snapshot_json, created_at
		FROM week_history
		WHERE user_id = $1
		ORDER BY week_start DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []wire.HistoryRecord{}
	for rows.Next() {
		var r wire.HistoryRecord
		var snapshot []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.WeekStart, &snapshot, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.SnapshotJSON = json.RawMessage(snapshot)
		records = append(records, r)
	}
	return records, rows.Err()
}

// InsertHistory stores an archived week
func (p *PostgresStore) InsertHistory(ctx context.Context, r wire.HistoryRecord) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO week_history (id, user_id, week_start, snapshot_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.UserID, r.WeekStart, string(r.SnapshotJSON), createdAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTick(v *int64) sql.NullInt64 {
	if v == nil || *v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
