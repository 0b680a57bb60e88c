package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Section    key.Binding
	Current    key.Binding
	Overdue    key.Binding
	Completed  key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Toggle     key.Binding
	Open       key.Binding
	Delete     key.Binding
	Categories key.Binding
	AllTasks   key.Binding
	New        key.Binding
	Refresh    key.Binding
	Back       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Section:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		Current:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "current")),
		Overdue:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "passed due")),
		Completed:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "complete")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "prev page")),
		Toggle:     key.NewBinding(key.WithKeys("x", " ", "space"), key.WithHelp("x", "complete/undo")),
		Open:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "open")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Categories: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categories")),
		AllTasks:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "all tasks")),
		New:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
