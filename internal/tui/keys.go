package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down       key.Binding
	NextList       key.Binding
	PrevList       key.Binding
	Sidebar        key.Binding
	Add, Edit, Del key.Binding
	Copy           key.Binding
	NewList        key.Binding
	RenameList     key.Binding
	RemoveList     key.Binding
	Reload         key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextList:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next list")),
		PrevList:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev list")),
		Sidebar:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sidebar")),
		Add:        key.NewBinding(key.WithKeys("a", "+"), key.WithHelp("a/+", "add")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Del:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		NewList:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		RenameList: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename list")),
		RemoveList: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "remove list")),
		Reload:     key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Del, k.NextList, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextList, k.PrevList, k.Sidebar},
		{k.Add, k.Edit, k.Del, k.Copy},
		{k.NewList, k.RenameList, k.RemoveList},
		{k.Reload, k.Help, k.Quit},
	}
}
