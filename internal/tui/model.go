package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/tracker"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTitle
	ModeAddGoal
	ModeLogTime
	ModeEditTitle
	ModeEditGoal
	ModeConfirmDelete
	ModeConfirmArchive
	ModeHistory
	ModeHelp
)

// Options configures the TUI
type Options struct {
	ConfirmDelete   bool
	AutoArchive     bool
	ArchiveSchedule string
	// LoadErr is shown once at startup when the saved state could not be read
	LoadErr error
}

// Model is the main TUI model
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	opts    Options

	timers  []model.Timer
	history []model.WeekHistory

	// Background tick engine and archive scheduler
	engine      *tracker.Engine
	scheduler   *tracker.Scheduler
	refreshChan chan struct{}          // Signalled after a tick changed a timer
	archiveChan chan model.WeekHistory // Receives scheduled archives

	// UI state
	width   int
	height  int
	mode    Mode
	cursor  int
	histTop int

	// Input
	input      textinput.Model
	draftTitle string
	draftType  model.TimerType

	message string
}

// NewModel creates a new TUI model over tr. Background work starts with Init.
func NewModel(ctx context.Context, tr *tracker.Tracker, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40

	m := Model{
		ctx:         ctx,
		tracker:     tr,
		opts:        opts,
		engine:      tracker.NewEngine(tr),
		refreshChan: make(chan struct{}, 1), // Buffered to avoid blocking the engine
		archiveChan: make(chan model.WeekHistory, 1),
		mode:        ModeNormal,
		input:       ti,
	}

	// Signal UI refresh after ticks, without blocking the engine
	m.engine.SetOnTick(func() {
		select {
		case m.refreshChan <- struct{}{}:
		default:
		}
	})

	if opts.AutoArchive {
		s, err := tracker.NewScheduler(tr, opts.ArchiveSchedule)
		if err != nil {
			logger.Warn("Auto-archive disabled", logger.Err(err))
			m.message = err.Error()
		} else {
			m.scheduler = s
			m.scheduler.SetOnArchive(func(h model.WeekHistory) {
				select {
				case m.archiveChan <- h:
				default:
				}
			})
		}
	}

	if opts.LoadErr != nil {
		m.message = "Could not load saved timers; starting empty"
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("timers", len(m.timers)),
		logger.F("history", len(m.history)))
	return m
}

func (m *Model) loadData() {
	m.timers = m.tracker.Timers()
	m.history = m.tracker.History()
	if m.cursor >= len(m.timers) {
		m.cursor = len(m.timers) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) currentTimer() *model.Timer {
	if m.cursor < len(m.timers) {
		return &m.timers[m.cursor]
	}
	return nil
}

// weekTotal sums completed time across all timers
func (m *Model) weekTotal() int64 {
	var sum int64
	for _, t := range m.timers {
		sum += t.CompletedSeconds()
	}
	return sum
}
