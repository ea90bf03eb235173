package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/robfig/cron/v3"
)

// Scheduler archives the week automatically on a cron schedule
type Scheduler struct {
	tracker   *Tracker
	cron      *cron.Cron
	schedule  cron.Schedule
	mu        sync.Mutex
	onArchive func(model.WeekHistory)
}

// ParseSchedule parses a standard five-field cron expression
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", expr, err)
	}
	return sched, nil
}

// NewScheduler creates a scheduler that calls tracker.ArchiveWeek on expr
func NewScheduler(tracker *Tracker, expr string) (*Scheduler, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		tracker:  tracker,
		cron:     cron.New(),
		schedule: sched,
	}
	s.cron.Schedule(sched, cron.FuncJob(s.archive))
	return s, nil
}

// SetOnArchive sets a callback invoked after each scheduled archive
func (s *Scheduler) SetOnArchive(callback func(model.WeekHistory)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onArchive = callback
}

// Next returns the next archive time after now
func (s *Scheduler) Next(now time.Time) time.Time {
	return s.schedule.Next(now)
}

// Run starts the schedule and blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	logger.Info("Archive scheduler started", logger.F("next", s.Next(time.Now()).Format(time.RFC3339)))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) archive() {
	record := s.tracker.ArchiveWeek()

	s.mu.Lock()
	callback := s.onArchive
	s.mu.Unlock()

	if callback != nil {
		callback(record)
	}
}
