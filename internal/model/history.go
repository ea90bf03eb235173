package model

import "time"

// SnapshotEntry is one timer's result as captured at archival time
type SnapshotEntry struct {
	Title            string    `json:"title"`
	Type             TimerType `json:"type"`
	TotalSeconds     int64     `json:"total_seconds"`
	CompletedSeconds int64     `json:"completed_seconds"`
	Color            string    `json:"color"`
}

// WeekHistory is an immutable record of a closed tracking period
type WeekHistory struct {
	ID        string          `json:"id"`
	WeekStart time.Time       `json:"week_start"`
	Timers    []SnapshotEntry `json:"timers"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot captures the current results of timers, preserving order
func Snapshot(timers []Timer) []SnapshotEntry {
	entries := make([]SnapshotEntry, 0, len(timers))
	for _, t := range timers {
		entries = append(entries, SnapshotEntry{
			Title:            t.Title,
			Type:             t.Type,
			TotalSeconds:     t.TotalSeconds,
			CompletedSeconds: t.CompletedSeconds(),
			Color:            t.Color,
		})
	}
	return entries
}

// TotalCompleted sums the completed seconds of all entries
func (h *WeekHistory) TotalCompleted() int64 {
	var sum int64
	for _, e := range h.Timers {
		sum += e.CompletedSeconds
	}
	return sum
}
