package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
)

// clockMsg is sent every second to keep the header clock current
type clockMsg time.Time

// refreshMsg is sent when the engine advanced a running timer
type refreshMsg struct{}

// archivedMsg is sent when the scheduler closed the week
type archivedMsg struct {
	record model.WeekHistory
}

// Init starts the background engine and scheduler and the UI clock
func (m Model) Init() tea.Cmd {
	m.startBackground()
	return tea.Batch(clockCmd(), m.waitForRefresh(), m.waitForArchive())
}

func (m Model) startBackground() {
	if m.ctx == nil {
		return
	}
	go func() {
		if err := m.engine.Run(m.ctx); err != nil {
			logger.Error("Tick engine stopped", logger.Err(err))
		}
	}()
	if m.scheduler != nil {
		go func() {
			if err := m.scheduler.Run(m.ctx); err != nil {
				logger.Error("Archive scheduler stopped", logger.Err(err))
			}
		}()
	}
}

func clockCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// waitForRefresh listens for tick refresh signals
func (m Model) waitForRefresh() tea.Cmd {
	if m.refreshChan == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.refreshChan
		return refreshMsg{}
	}
}

// waitForArchive listens for scheduled archives
func (m Model) waitForArchive() tea.Cmd {
	if m.scheduler == nil {
		return nil
	}
	return func() tea.Msg {
		return archivedMsg{record: <-m.archiveChan}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockMsg:
		return m, clockCmd()

	case refreshMsg:
		var wasRunning *model.Timer
		for i := range m.timers {
			if m.timers[i].IsRunning {
				wasRunning = &m.timers[i]
			}
		}
		m.loadData()
		// a goal that just ran out is no longer running
		if wasRunning != nil {
			if after, ok := m.tracker.Timer(wasRunning.ID); ok && after.Finished() && !after.IsRunning {
				m.message = fmt.Sprintf("🎉 Goal reached: %s", after.Title)
			}
		}
		return m, m.waitForRefresh()

	case archivedMsg:
		m.loadData()
		m.message = fmt.Sprintf("New week! Archived %s", model.FormatHours(msg.record.TotalCompleted()))
		return m, m.waitForArchive()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAddTitle, ModeAddGoal, ModeLogTime, ModeEditTitle, ModeEditGoal:
			return m.updateInput(msg)
		case ModeConfirmDelete, ModeConfirmArchive:
			return m.updateConfirm(msg)
		case ModeHistory:
			return m.updateHistory(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.timers)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		m.handleToggle()

	case key.Matches(msg, keys.AddGoal):
		return m.startInput(ModeAddTitle, "Goal title", "", model.TypeGoal)

	case key.Matches(msg, keys.AddWatch):
		return m.startInput(ModeAddTitle, "Stopwatch title", "", model.TypeStopwatch)

	case key.Matches(msg, keys.Log):
		if m.currentTimer() != nil {
			return m.startInput(ModeLogTime, "Time to log (e.g. 45, 1h30m)", "", "")
		}

	case key.Matches(msg, keys.Edit):
		if t := m.currentTimer(); t != nil {
			return m.startInput(ModeEditTitle, "Title", t.Title, "")
		}

	case key.Matches(msg, keys.EditGoal):
		if t := m.currentTimer(); t != nil {
			if !t.IsGoal() {
				m.message = "Stopwatches have no goal"
				break
			}
			current := (time.Duration(t.TotalSeconds) * time.Second).String()
			return m.startInput(ModeEditGoal, "Weekly goal (e.g. 10h)", current, "")
		}

	case key.Matches(msg, keys.Delete):
		if t := m.currentTimer(); t != nil {
			if !m.opts.ConfirmDelete {
				m.deleteCurrent()
				break
			}
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, keys.Archive):
		if len(m.timers) == 0 {
			m.message = "No timers to archive"
			break
		}
		m.mode = ModeConfirmArchive

	case key.Matches(msg, keys.History):
		m.histTop = 0
		m.mode = ModeHistory

	case key.Matches(msg, keys.Refresh):
		m.loadData()
		m.message = "Refreshed"

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleToggle() {
	t := m.currentTimer()
	if t == nil {
		return
	}
	if t.Finished() {
		m.message = fmt.Sprintf("%s already reached its goal", t.Title)
		return
	}

	m.tracker.ToggleTimer(t.ID)
	m.loadData()

	if after := m.currentTimer(); after != nil && after.IsRunning {
		m.message = "▶ " + after.Title
	} else {
		m.message = "⏸ " + t.Title
	}
}

func (m *Model) deleteCurrent() {
	t := m.currentTimer()
	if t == nil {
		return
	}
	title := t.Title
	m.tracker.DeleteTimer(t.ID)
	m.loadData()
	m.message = "Deleted: " + title
}

// startInput opens the input modal
func (m Model) startInput(mode Mode, placeholder, value string, timerType model.TimerType) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.draftType = timerType
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, nil
}

func (m *Model) closeInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.draftTitle = ""
	m.draftType = ""
}

// updateInput handles text entry for every input mode
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		return m.submitInput(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput(value string) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeAddTitle:
		if value == "" {
			m.message = "Title required"
			return m, nil
		}
		if m.draftType == model.TypeGoal {
			m.draftTitle = value
			m.mode = ModeAddGoal
			m.input.Placeholder = "Weekly goal (e.g. 10h, 90m)"
			m.input.SetValue("")
			return m, nil
		}
		m.addTimer(model.NewTimer{Type: model.TypeStopwatch, Title: value})

	case ModeAddGoal:
		secs, err := model.ParseDuration(value)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.addTimer(model.NewTimer{Type: model.TypeGoal, Title: m.draftTitle, TotalSeconds: secs})

	case ModeLogTime:
		secs, err := model.ParseDuration(value)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		if t := m.currentTimer(); t != nil {
			if err := m.tracker.DeductTime(t.ID, secs); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.message = fmt.Sprintf("Logged %s to %s", model.FormatHours(secs), t.Title)
		}

	case ModeEditTitle:
		if value == "" {
			m.message = "Title required"
			return m, nil
		}
		if t := m.currentTimer(); t != nil {
			m.tracker.UpdateTimer(t.ID, model.TimerUpdate{Title: &value})
			m.message = "Renamed"
		}

	case ModeEditGoal:
		secs, err := model.ParseDuration(value)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		if t := m.currentTimer(); t != nil {
			total, remaining := resizeGoal(*t, secs)
			m.tracker.UpdateTimer(t.ID, model.TimerUpdate{TotalSeconds: &total, RemainingSeconds: &remaining})
			m.message = "Goal set to " + model.FormatHours(secs)
		}
	}

	m.closeInput()
	m.loadData()
	return m, nil
}

// resizeGoal keeps the time already completed when the target changes
func resizeGoal(t model.Timer, total int64) (int64, int64) {
	remaining := total - t.CompletedSeconds()
	if remaining < 0 {
		remaining = 0
	}
	return total, remaining
}

func (m *Model) addTimer(nt model.NewTimer) {
	nt.Color = string(Primary)
	nt.Size = "md"
	t := m.tracker.AddTimer(nt)
	m.loadData()
	m.cursor = len(m.timers) - 1
	m.message = "Added: " + t.Title
}

// updateConfirm handles y/n prompts
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Confirm) {
		switch m.mode {
		case ModeConfirmDelete:
			m.deleteCurrent()
		case ModeConfirmArchive:
			record := m.tracker.ArchiveWeek()
			m.loadData()
			m.message = fmt.Sprintf("Archived %d timers (%s)", len(record.Timers), model.FormatHours(record.TotalCompleted()))
		}
	} else {
		m.message = "Cancelled"
	}
	m.mode = ModeNormal
	return m, nil
}

// updateHistory scrolls the history view
func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.histTop > 0 {
			m.histTop--
		}
	case key.Matches(msg, keys.Down):
		if m.histTop < len(m.history)-1 {
			m.histTop++
		}
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Escape), key.Matches(msg, keys.History):
		m.mode = ModeNormal
	}
	return m, nil
}
