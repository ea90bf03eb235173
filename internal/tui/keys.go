package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	AddGoal  key.Binding
	AddWatch key.Binding
	Log      key.Binding
	Edit     key.Binding
	EditGoal key.Binding
	Delete   key.Binding
	Archive  key.Binding
	History  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Confirm  key.Binding
	Refresh  key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "start/pause")),
	AddGoal:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add goal")),
	AddWatch: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add stopwatch")),
	Log:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log time")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
	EditGoal: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "set goal")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Archive:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive week")),
	History:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

// shortHelp lists the bindings shown in the status bar
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.AddGoal, k.AddWatch, k.Log, k.Delete, k.Help, k.Quit}
}
