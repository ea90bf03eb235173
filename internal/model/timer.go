package model

import "time"

// TimerType distinguishes countdown goals from open-ended stopwatches
type TimerType string

const (
	TypeGoal      TimerType = "goal"
	TypeStopwatch TimerType = "stopwatch"
)

// Valid reports whether t is a known timer type
func (t TimerType) Valid() bool {
	return t == TypeGoal || t == TypeStopwatch
}

// Field names a mutable timer attribute, used to describe partial changes
type Field string

const (
	FieldTitle     Field = "title"
	FieldTotal     Field = "total"
	FieldRemaining Field = "remaining"
	FieldElapsed   Field = "elapsed"
	FieldRunning   Field = "running" // is_running together with last_tick_at
	FieldColor     Field = "color"
	FieldSize      Field = "size"
)

// ProgressFields are the fields touched by toggling, ticking and logging time
var ProgressFields = []Field{FieldRunning, FieldRemaining, FieldElapsed}

// Timer is a unit of tracked time
type Timer struct {
	ID               string    `json:"id"`
	Type             TimerType `json:"type"`
	Title            string    `json:"title"`
	TotalSeconds     int64     `json:"total_seconds"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	ElapsedSeconds   int64     `json:"elapsed_seconds"`
	IsRunning        bool      `json:"is_running"`
	LastTickAt       *int64    `json:"last_tick_at"` // Epoch millis, set iff running
	Color            string    `json:"color"`
	Size             string    `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewTimer holds the caller supplied fields for a timer about to be created
type NewTimer struct {
	Type         TimerType
	Title        string
	TotalSeconds int64
	Color        string
	Size         string
}

// TimerUpdate carries the editable fields of a timer. Nil means unchanged.
type TimerUpdate struct {
	Title            *string
	TotalSeconds     *int64
	RemainingSeconds *int64
	ElapsedSeconds   *int64
	Color            *string
	Size             *string
}

// IsGoal returns true for countdown timers
func (t *Timer) IsGoal() bool {
	return t.Type == TypeGoal
}

// Finished returns true if a goal timer has been fully consumed
func (t *Timer) Finished() bool {
	return t.IsGoal() && t.RemainingSeconds <= 0
}

// CompletedSeconds returns the time logged against the timer so far
func (t *Timer) CompletedSeconds() int64 {
	if t.IsGoal() {
		return t.TotalSeconds - t.RemainingSeconds
	}
	return t.ElapsedSeconds
}

// Start marks the timer running as of nowMs
func (t *Timer) Start(nowMs int64) {
	t.IsRunning = true
	t.LastTickAt = &nowMs
}

// Stop marks the timer idle and drops its tick checkpoint
func (t *Timer) Stop() {
	t.IsRunning = false
	t.LastTickAt = nil
}

// Reset returns the timer to the start of a tracking period
func (t *Timer) Reset() {
	t.RemainingSeconds = t.TotalSeconds
	t.ElapsedSeconds = 0
	t.Stop()
}

// Clone returns a deep copy
func (t Timer) Clone() Timer {
	if t.LastTickAt != nil {
		v := *t.LastTickAt
		t.LastTickAt = &v
	}
	return t
}

// Apply merges the provided fields and returns the ones that were set
func (u TimerUpdate) Apply(t *Timer) []Field {
	var fields []Field
	if u.Title != nil {
		t.Title = *u.Title
		fields = append(fields, FieldTitle)
	}
	if u.TotalSeconds != nil {
		t.TotalSeconds = *u.TotalSeconds
		fields = append(fields, FieldTotal)
	}
	if u.RemainingSeconds != nil {
		t.RemainingSeconds = *u.RemainingSeconds
		fields = append(fields, FieldRemaining)
	}
	if u.ElapsedSeconds != nil {
		t.ElapsedSeconds = *u.ElapsedSeconds
		fields = append(fields, FieldElapsed)
	}
	if u.Color != nil {
		t.Color = *u.Color
		fields = append(fields, FieldColor)
	}
	if u.Size != nil {
		t.Size = *u.Size
		fields = append(fields, FieldSize)
	}
	return fields
}

// Empty reports whether the update carries no fields
func (u TimerUpdate) Empty() bool {
	return u.Title == nil && u.TotalSeconds == nil && u.RemainingSeconds == nil &&
		u.ElapsedSeconds == nil && u.Color == nil && u.Size == nil
}
