// Package wire maps timers and history to the flat records exchanged with the
// sync server. Record keys are snake_case and must stay stable: they are the
// column names on the server side.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/weektrack/internal/model"
)

// Record keys for timers
const (
	KeyID               = "id"
	KeyUserID           = "user_id"
	KeyTitle            = "title"
	KeyType             = "type"
	KeyTotalSeconds     = "total_seconds"
	KeyRemainingSeconds = "remaining_seconds"
	KeyElapsedSeconds   = "elapsed_seconds"
	KeyIsRunning        = "is_running"
	KeyLastTickAt       = "last_tick_at"
	KeyColor            = "color"
	KeySize             = "size"
	KeyCreatedAt        = "created_at"
)

// TimerRecord is the remote representation of a timer
type TimerRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	TotalSeconds     int64     `json:"total_seconds"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	ElapsedSeconds   int64     `json:"elapsed_seconds"`
	IsRunning        bool      `json:"is_running"`
	LastTickAt       *int64    `json:"last_tick_at"` // null when not running, never 0
	Color            string    `json:"color"`
	Size             string    `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryRecord is the remote representation of an archived week
type HistoryRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	WeekStart    time.Time       `json:"week_start"`
	SnapshotJSON json.RawMessage `json:"snapshot_json"`
	CreatedAt    time.Time       `json:"created_at"`
}

// snapshotEntry fixes the key names inside snapshot_json
type snapshotEntry struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	TotalSeconds     int64  `json:"total_seconds"`
	CompletedSeconds int64  `json:"completed_seconds"`
	Color            string `json:"color"`
}

// PatchableKeys are the record keys a client may change on an existing timer
var PatchableKeys = map[string]bool{
	KeyTitle:            true,
	KeyTotalSeconds:     true,
	KeyRemainingSeconds: true,
	KeyElapsedSeconds:   true,
	KeyIsRunning:        true,
	KeyLastTickAt:       true,
	KeyColor:            true,
	KeySize:             true,
}

// FromTimer converts an in-memory timer to its record
func FromTimer(t model.Timer, userID string) TimerRecord {
	r := TimerRecord{
		ID:               t.ID,
		UserID:           userID,
		Title:            t.Title,
		Type:             string(t.Type),
		TotalSeconds:     t.TotalSeconds,
		RemainingSeconds: t.RemainingSeconds,
		ElapsedSeconds:   t.ElapsedSeconds,
		IsRunning:        t.IsRunning,
		Color:            t.Color,
		Size:             t.Size,
		CreatedAt:        t.CreatedAt,
	}
	if t.IsRunning && t.LastTickAt != nil {
		v := *t.LastTickAt
		r.LastTickAt = &v
	}
	return r
}

// ToTimer converts a record back to an in-memory timer
func ToTimer(r TimerRecord) model.Timer {
	t := model.Timer{
		ID:               r.ID,
		Type:             model.TimerType(r.Type),
		Title:            r.Title,
		TotalSeconds:     r.TotalSeconds,
		RemainingSeconds: r.RemainingSeconds,
		ElapsedSeconds:   r.ElapsedSeconds,
		IsRunning:        r.IsRunning,
		Color:            r.Color,
		Size:             r.Size,
		CreatedAt:        r.CreatedAt,
	}
	if r.LastTickAt != nil && *r.LastTickAt > 0 {
		v := *r.LastTickAt
		t.LastTickAt = &v
	}
	return t
}

// TimerFields builds a partial record holding only the keys for fields
func TimerFields(t model.Timer, fields ...model.Field) map[string]any {
	r := FromTimer(t, "")
	patch := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		switch f {
		case model.FieldTitle:
			patch[KeyTitle] = r.Title
		case model.FieldTotal:
			patch[KeyTotalSeconds] = r.TotalSeconds
		case model.FieldRemaining:
			patch[KeyRemainingSeconds] = r.RemainingSeconds
		case model.FieldElapsed:
			patch[KeyElapsedSeconds] = r.ElapsedSeconds
		case model.FieldRunning:
			patch[KeyIsRunning] = r.IsRunning
			if r.LastTickAt != nil {
				patch[KeyLastTickAt] = *r.LastTickAt
			} else {
				patch[KeyLastTickAt] = nil
			}
		case model.FieldColor:
			patch[KeyColor] = r.Color
		case model.FieldSize:
			patch[KeySize] = r.Size
		}
	}
	return patch
}

// FromHistory converts an archived week to its record
func FromHistory(h model.WeekHistory, userID string) (HistoryRecord, error) {
	entries := make([]snapshotEntry, 0, len(h.Timers))
	for _, e := range h.Timers {
		entries = append(entries, snapshotEntry{
			Title:            e.Title,
			Type:             string(e.Type),
			TotalSeconds:     e.TotalSeconds,
			CompletedSeconds: e.CompletedSeconds,
			Color:            e.Color,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return HistoryRecord{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return HistoryRecord{
		ID:           h.ID,
		UserID:       userID,
		WeekStart:    h.WeekStart,
		SnapshotJSON: data,
		CreatedAt:    h.CreatedAt,
	}, nil
}

// ToHistory converts a record back to an archived week
func ToHistory(r HistoryRecord) (model.WeekHistory, error) {
	var entries []snapshotEntry
	if len(r.SnapshotJSON) > 0 && string(r.SnapshotJSON) != "null" {
		if err := json.Unmarshal(r.SnapshotJSON, &entries); err != nil {
			return model.WeekHistory{}, fmt.Errorf("failed to decode snapshot %s: %w", r.ID, err)
		}
	}

	h := model.WeekHistory{
		ID:        r.ID,
		WeekStart: r.WeekStart,
		Timers:    make([]model.SnapshotEntry, 0, len(entries)),
		CreatedAt: r.CreatedAt,
	}
	for _, e := range entries {
		h.Timers = append(h.Timers, model.SnapshotEntry{
			Title:            e.Title,
			Type:             model.TimerType(e.Type),
			TotalSeconds:     e.TotalSeconds,
			CompletedSeconds: e.CompletedSeconds,
			Color:            e.Color,
		})
	}
	return h, nil
}
