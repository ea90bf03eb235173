package tracker

import (
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/persist"
)

// ArchiveWeek closes the current tracking period: it records a snapshot of
// every timer at the front of the history and resets all timers in place.
func (t *Tracker) ArchiveWeek() model.WeekHistory {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	record := model.WeekHistory{
		ID:        t.newID(),
		WeekStart: now,
		Timers:    model.Snapshot(t.timers),
		CreatedAt: now,
	}

	t.history = append([]model.WeekHistory{record}, t.history...)
	for i := range t.timers {
		t.timers[i].Reset()
	}

	logger.Info("Week archived",
		logger.F("id", record.ID),
		logger.F("timers", len(record.Timers)),
		logger.F("completedSeconds", record.TotalCompleted()))

	archived := record
	t.emit(persist.Change{Kind: persist.ChangeArchive, Archived: &archived})
	return record
}
