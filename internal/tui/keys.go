package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
	Type   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit/save")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Type:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "type title")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Toggle, k.Type}
}
