package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/weektrack/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var mainContent string
	switch m.mode {
	case ModeHelp:
		mainContent = m.renderHelp()
	case ModeHistory:
		mainContent = m.renderHistory()
	default:
		mainContent = lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderTimerList())
	}

	// Modal overlays the timer list
	if modal := m.renderModal(); modal != "" {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("weektrack")
	scope := HelpStyle.Render(string(m.tracker.Scope()))
	now := HelpStyle.Render(time.Now().Format("Mon 15:04:05"))
	total := lipgloss.NewStyle().Foreground(Running).Render(model.FormatHours(m.weekTotal()) + " this week")

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", total)
	right := lipgloss.JoinHorizontal(lipgloss.Top, scope, "  ", now)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderTimerList() string {
	width := m.width - 4
	var s string

	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 0))) + "\n"

	if len(m.timers) == 0 {
		s += "\n" + HelpStyle.Render("  No timers. Press 'a' to add a goal or 's' for a stopwatch.")
		return TimerListStyle.Width(width).Height(m.height - 4).Render(s)
	}

	titleWidth := 24
	barWidth := width - titleWidth - 30
	if barWidth < 10 {
		barWidth = 10
	}

	for i, t := range m.timers {
		cursor := "  "
		style := TimerItemStyle
		if t.Finished() {
			style = TimerFinishedStyle
		}
		if i == m.cursor {
			cursor = "❯ "
			style = TimerItemSelectedStyle
		}

		color := timerColor(t.Color)
		dot := lipgloss.NewStyle().Foreground(color).Render("●")

		var detail string
		if t.IsGoal() {
			detail = progressBar(t.Progress(), barWidth, color) +
				HelpStyle.Render(fmt.Sprintf(" %3.0f%% of %s", t.Progress()*100, model.FormatHours(t.TotalSeconds)))
		} else {
			detail = HelpStyle.Render("stopwatch")
		}

		line := fmt.Sprintf("%s%s %s %-*s %9s  %s",
			cursor, stateBadge(t.IsRunning, t.Finished()), dot,
			titleWidth, truncate(t.Title, titleWidth), t.Display(), detail)
		s += style.Render(line) + "\n"
	}

	return TimerListStyle.Width(width).Height(m.height - 4).Render(s)
}

func (m Model) renderStatusBar() string {
	if m.message != "" {
		return StatusBarStyle.Width(m.width).Render(m.message)
	}

	var hints []string
	for _, b := range keys.shortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}
	help := strings.Join(hints, "  ")

	if t, ok := m.tracker.Running(); ok {
		running := lipgloss.NewStyle().Foreground(Running).Render("▶ " + truncate(t.Title, 20))
		avail := m.width - lipgloss.Width(help) - lipgloss.Width(running) - 2
		if avail > 0 {
			help += strings.Repeat(" ", avail) + running
		}
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

// renderModal returns the overlay for input and confirmation modes, or ""
func (m Model) renderModal() string {
	modalWidth := 50
	var title, body string

	switch m.mode {
	case ModeAddTitle:
		title = "New stopwatch"
		if m.draftType == model.TypeGoal {
			title = "New goal"
		}
	case ModeAddGoal:
		title = "Goal for \"" + truncate(m.draftTitle, 24) + "\""
	case ModeLogTime, ModeEditTitle, ModeEditGoal:
		t := m.currentTimer()
		if t == nil {
			return ""
		}
		switch m.mode {
		case ModeLogTime:
			title = "Log time: " + truncate(t.Title, 28)
		case ModeEditTitle:
			title = "Rename"
		default:
			title = "Set goal: " + truncate(t.Title, 28)
		}
	case ModeConfirmDelete:
		t := m.currentTimer()
		if t == nil {
			return ""
		}
		body = fmt.Sprintf("Delete \"%s\"?\n\n", truncate(t.Title, 36)) + HelpStyle.Render("y:delete  any other key:cancel")
		return ModalStyle.Width(modalWidth).Render(body)
	case ModeConfirmArchive:
		body = fmt.Sprintf("Archive this week (%s tracked)\nand reset all timers?\n\n", model.FormatHours(m.weekTotal())) +
			HelpStyle.Render("y:archive  any other key:cancel")
		return ModalStyle.Width(modalWidth).Render(body)
	default:
		return ""
	}

	body = lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n\n"
	body += m.input.View() + "\n\n"
	body += HelpStyle.Render("Enter:save  Esc:cancel")
	return ModalStyle.Width(modalWidth).Render(body)
}

func (m Model) renderHistory() string {
	var s string
	s += HeaderStyle.Render("History") + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(m.width-8, 0))) + "\n\n"

	if len(m.history) == 0 {
		s += HelpStyle.Render("  No archived weeks yet. Press 'A' to archive this week.")
		return TimerListStyle.Width(m.width - 4).Height(m.height - 2).Render(s)
	}

	rows := m.height - 8
	for i := m.histTop; i < len(m.history) && rows > 0; i++ {
		h := m.history[i]
		s += lipgloss.NewStyle().Bold(true).Render(h.WeekStart.Local().Format("Mon Jan 2, 2006")) +
			HelpStyle.Render(fmt.Sprintf("  %s tracked", model.FormatHours(h.TotalCompleted()))) + "\n"
		rows--
		for _, e := range h.Timers {
			if rows <= 0 {
				break
			}
			target := ""
			if e.Type == model.TypeGoal {
				target = " / " + model.FormatHours(e.TotalSeconds)
			}
			dot := lipgloss.NewStyle().Foreground(timerColor(e.Color)).Render("●")
			s += fmt.Sprintf("   %s %-24s %8s%s\n", dot, truncate(e.Title, 24), model.FormatHours(e.CompletedSeconds), HelpStyle.Render(target))
			rows--
		}
		s += "\n"
		rows--
	}

	s += HelpStyle.Render("↑↓:scroll  Esc:back")
	return TimerListStyle.Width(m.width - 4).Height(m.height - 2).Render(s)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓      Move down      │
│  k/↑      Move up        │
│                          │
│  Timers                  │
│  ──────                  │
│  Space    Start/pause    │
│  a        Add goal       │
│  s        Add stopwatch  │
│  l        Log time       │
│  e        Rename         │
│  g        Set goal       │
│  d        Delete         │
│                          │
│  Week                    │
│  ────                    │
│  A        Archive week   │
│  H        History        │
│                          │
│  Other                   │
│  ─────                   │
│  r        Refresh        │
│  ?        Toggle help    │
│  q        Quit           │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
