package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Timer state colors
	Running  = lipgloss.Color("#95E1A3") // Green
	Paused   = lipgloss.Color("#FFE66D") // Yellow
	Finished = lipgloss.Color("#4ECDC4") // Teal
	Warning  = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Secondary  = lipgloss.Color("#6C757D")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Timer list
	TimerListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TimerItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TimerItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TimerFinishedStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// stateBadge returns the colored state marker for a timer
func stateBadge(running, finished bool) string {
	switch {
	case running:
		return lipgloss.NewStyle().Foreground(Running).Bold(true).Render("▶")
	case finished:
		return lipgloss.NewStyle().Foreground(Finished).Render("✓")
	default:
		return lipgloss.NewStyle().Foreground(Paused).Render("⏸")
	}
}

// timerColor returns the user-chosen color, falling back to Primary
func timerColor(c string) lipgloss.Color {
	if c == "" {
		return Primary
	}
	return lipgloss.Color(c)
}
