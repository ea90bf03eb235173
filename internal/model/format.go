package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatSeconds renders a duration as H:MM:SS, or M:SS under an hour
func FormatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatHours renders a duration rounded to minutes, e.g. "2h 05m"
func FormatHours(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// ParseDuration reads user input as whole seconds. A bare number is minutes;
// otherwise Go duration syntax is accepted ("1h30m", "90m", "45s").
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if mins, err := strconv.ParseInt(s, 10, 64); err == nil {
		if mins <= 0 {
			return 0, fmt.Errorf("duration must be positive: %q", s)
		}
		return mins * 60, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (try 1h30m, 90m or 45)", s)
	}
	if d < time.Second {
		return 0, fmt.Errorf("duration must be at least one second: %q", s)
	}
	return int64(d / time.Second), nil
}

// Progress returns the completed fraction of a goal in [0, 1]. Stopwatches
// have no target and report 0.
func (t *Timer) Progress() float64 {
	if !t.IsGoal() || t.TotalSeconds <= 0 {
		return 0
	}
	p := float64(t.CompletedSeconds()) / float64(t.TotalSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Display returns the primary clock value: remaining time for goals, elapsed
// time for stopwatches
func (t *Timer) Display() string {
	if t.IsGoal() {
		return FormatSeconds(t.RemainingSeconds)
	}
	return FormatSeconds(t.ElapsedSeconds)
}
