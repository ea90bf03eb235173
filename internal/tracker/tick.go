package tracker

import "github.com/existflow/weektrack/internal/model"

// Advance applies the real time elapsed since the timer's last checkpoint.
// Only whole seconds are consumed; the sub-second remainder stays pending in
// LastTickAt for the next call. Returns true if the timer changed.
func Advance(t *model.Timer, nowMs int64) bool {
	if !t.IsRunning || t.LastTickAt == nil {
		return false
	}

	deltaMs := nowMs - *t.LastTickAt
	if deltaMs < 1000 {
		return false
	}
	secondsPassed := deltaMs / 1000

	if t.IsGoal() {
		remaining := t.RemainingSeconds - secondsPassed
		if remaining <= 0 {
			// Goal reached
			t.RemainingSeconds = 0
			t.Stop()
			return true
		}
		t.RemainingSeconds = remaining
	} else {
		t.ElapsedSeconds += secondsPassed
	}

	next := *t.LastTickAt + secondsPassed*1000
	t.LastTickAt = &next
	return true
}

// Reconcile fast-forwards running timers to nowMs in a single jump, as if
// ticking had continued while nothing was watching them. The input is not
// modified.
func Reconcile(timers []model.Timer, nowMs int64) []model.Timer {
	out := make([]model.Timer, 0, len(timers))
	for _, t := range timers {
		t = t.Clone()
		switch {
		case t.IsRunning && t.LastTickAt == nil:
			t.Stop()
		case !t.IsRunning && t.LastTickAt != nil:
			t.LastTickAt = nil
		default:
			Advance(&t, nowMs)
		}
		out = append(out, t)
	}
	return out
}
