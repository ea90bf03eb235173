package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/persist"
	"github.com/google/uuid"
)

// ErrInvalidSeconds is returned when logging a non-positive amount of time
var ErrInvalidSeconds = errors.New("seconds must be a positive integer")

// Tracker owns the canonical list of timers and the archived history. Every
// exported method runs under one lock, so ticks and user actions never
// interleave mid-mutation. Local state is committed first; the matching
// persistence change is queued afterwards and can never undo it.
type Tracker struct {
	mu       sync.Mutex
	timers   []model.Timer
	history  []model.WeekHistory
	strategy persist.Strategy
	dispatch *persist.Dispatcher

	now   func() time.Time
	newID func() string
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides identifier generation
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// New creates an empty tracker persisting through strategy
func New(strategy persist.Strategy, opts ...Option) *Tracker {
	t := &Tracker{
		strategy: strategy,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.dispatch = persist.NewDispatcher(strategy)
	return t
}

// Scope returns the scope of the active persistence strategy
func (t *Tracker) Scope() persist.Scope {
	return t.strategy.Scope()
}

func (t *Tracker) nowMs() int64 {
	return t.now().UnixMilli()
}

// Load replaces the in-memory state with the persisted snapshot, fast-forwarded
// to now. A failed read leaves the tracker empty and is returned for reporting
// only; the tracker stays usable either way.
func (t *Tracker) Load(ctx context.Context) error {
	snap, err := t.strategy.Load(ctx)
	if err != nil {
		logger.Error("Failed to load state, starting empty",
			logger.F("scope", t.strategy.Scope()), logger.Err(err))
		snap = persist.Snapshot{}
	}

	timers := Reconcile(snap.Timers, t.nowMs())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.timers = timers
	t.history = snap.History
	if t.timers == nil {
		t.timers = []model.Timer{}
	}
	if t.history == nil {
		t.history = []model.WeekHistory{}
	}
	// Timers stopped by reconciling are still stored as running
	for i := range timers {
		if snap.Timers[i].IsRunning && !timers[i].IsRunning {
			t.finishLocked(i)
		}
	}

	logger.Info("State loaded",
		logger.F("scope", t.strategy.Scope()),
		logger.F("timers", len(t.timers)),
		logger.F("history", len(t.history)))
	return err
}

// Flush blocks until all queued persistence work has been attempted
func (t *Tracker) Flush() {
	t.dispatch.Flush()
}

// Close flushes pending writes and stops the persistence worker
func (t *Tracker) Close() {
	t.dispatch.Close()
}

// Timers returns a copy of all timers in insertion order
func (t *Tracker) Timers() []model.Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timersLocked()
}

// History returns a copy of all archived weeks, most recent first
func (t *Tracker) History() []model.WeekHistory {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.WeekHistory, len(t.history))
	copy(out, t.history)
	return out
}

// Timer returns a copy of the timer with id
func (t *Tracker) Timer(id string) (model.Timer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(id); i >= 0 {
		return t.timers[i].Clone(), true
	}
	return model.Timer{}, false
}

// Running returns the running timer, if any
func (t *Tracker) Running() (model.Timer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tm := range t.timers {
		if tm.IsRunning {
			return tm.Clone(), true
		}
	}
	return model.Timer{}, false
}

// AddTimer creates a new idle timer
func (t *Tracker) AddTimer(nt model.NewTimer) model.Timer {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer := model.Timer{
		ID:               t.newID(),
		Type:             nt.Type,
		Title:            nt.Title,
		TotalSeconds:     nt.TotalSeconds,
		RemainingSeconds: nt.TotalSeconds,
		Color:            nt.Color,
		Size:             nt.Size,
		CreatedAt:        t.now(),
	}
	if timer.Type != model.TypeGoal {
		timer.Type = model.TypeStopwatch
		timer.TotalSeconds = 0
		timer.RemainingSeconds = 0
	}
	t.timers = append(t.timers, timer)

	logger.Debug("Timer added", logger.F("id", timer.ID), logger.F("type", timer.Type))
	t.emit(persist.Change{Kind: persist.ChangeAdd, TimerID: timer.ID, Timer: timer.Clone()})
	return timer.Clone()
}

// UpdateTimer merges the provided fields verbatim. A running goal left with
// nothing remaining is stopped, as if it had ticked down. Unknown ids are
// ignored.
func (t *Tracker) UpdateTimer(id string, update model.TimerUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 || update.Empty() {
		return
	}

	timer := &t.timers[i]
	fields := update.Apply(timer)
	if timer.IsGoal() && timer.IsRunning && timer.RemainingSeconds <= 0 {
		timer.Stop()
		fields = append(fields, model.FieldRunning)
	}
	t.emit(persist.Change{Kind: persist.ChangeUpdate, TimerID: id, Fields: fields, Timer: timer.Clone()})
}

// DeleteTimer removes a timer. Unknown ids are ignored.
func (t *Tracker) DeleteTimer(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return
	}

	removed := t.timers[i]
	t.timers = append(t.timers[:i], t.timers[i+1:]...)

	logger.Debug("Timer deleted", logger.F("id", id))
	t.emit(persist.Change{Kind: persist.ChangeDelete, TimerID: id, Timer: removed})
}

// ToggleTimer starts an idle timer or pauses a running one. Starting a timer
// pauses every other running timer first, so at most one runs at a time.
// Finished goals cannot be started again until edited or archived.
func (t *Tracker) ToggleTimer(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return
	}
	now := t.nowMs()
	target := &t.timers[i]

	if target.IsRunning {
		t.pauseLocked(i, now)
		return
	}
	if target.Finished() {
		logger.Debug("Ignoring toggle of finished goal", logger.F("id", id))
		return
	}

	for j := range t.timers {
		if j != i && t.timers[j].IsRunning {
			t.pauseLocked(j, now)
		}
	}

	target.Start(now)
	logger.Debug("Timer started", logger.F("id", id))
	t.emit(persist.Change{Kind: persist.ChangeToggle, TimerID: id, Fields: model.ProgressFields, Timer: target.Clone()})
}

// pauseLocked settles whole seconds accrued since the last tick, then stops
func (t *Tracker) pauseLocked(i int, nowMs int64) {
	timer := &t.timers[i]
	Advance(timer, nowMs)
	timer.Stop()

	logger.Debug("Timer paused", logger.F("id", timer.ID))
	t.emit(persist.Change{Kind: persist.ChangeToggle, TimerID: timer.ID, Fields: model.ProgressFields, Timer: timer.Clone()})
}

// DeductTime logs manually tracked time: a stopwatch gains seconds, a goal
// loses them (floored at zero, which finishes it). Unknown ids are ignored.
func (t *Tracker) DeductTime(id string, seconds int64) error {
	if seconds <= 0 {
		return ErrInvalidSeconds
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil
	}

	timer := &t.timers[i]
	if timer.IsGoal() {
		timer.RemainingSeconds -= seconds
		if timer.RemainingSeconds <= 0 {
			timer.RemainingSeconds = 0
			timer.Stop()
		}
	} else {
		timer.ElapsedSeconds += seconds
	}

	logger.Debug("Time logged", logger.F("id", id), logger.F("seconds", seconds))
	t.emit(persist.Change{Kind: persist.ChangeDeduct, TimerID: id, Fields: model.ProgressFields, Timer: timer.Clone()})
	return nil
}

// Tick advances every running timer by the real time since its last
// checkpoint. It does nothing, and notifies nobody, when no timer is running.
// Returns true if any timer changed.
func (t *Tracker) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowMs()
	changed := false
	var finished []int
	for i := range t.timers {
		if t.timers[i].IsRunning && Advance(&t.timers[i], now) {
			changed = true
			if !t.timers[i].IsRunning {
				logger.Info("Goal reached", logger.F("id", t.timers[i].ID), logger.F("title", t.timers[i].Title))
				finished = append(finished, i)
			}
		}
	}

	if changed {
		t.emit(persist.Change{Kind: persist.ChangeTick})
	}
	for _, i := range finished {
		t.finishLocked(i)
	}
	return changed
}

// finishLocked records that a goal stopped on its own. Ticks are not
// written remotely, so without it the stored goal would still be running.
func (t *Tracker) finishLocked(i int) {
	timer := t.timers[i]
	t.emit(persist.Change{Kind: persist.ChangeFinish, TimerID: timer.ID, Fields: model.ProgressFields, Timer: timer.Clone()})
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.timers {
		if t.timers[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) timersLocked() []model.Timer {
	out := make([]model.Timer, 0, len(t.timers))
	for _, tm := range t.timers {
		out = append(out, tm.Clone())
	}
	return out
}

// emit attaches the full post-mutation state and queues the change
func (t *Tracker) emit(c persist.Change) {
	c.Timers = t.timersLocked()
	c.History = make([]model.WeekHistory, len(t.history))
	copy(c.History, t.history)
	t.dispatch.Dispatch(c)
}
