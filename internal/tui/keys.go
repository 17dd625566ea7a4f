package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	Escape    key.Binding
	Toggle    key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Filter    key.Binding
	Copy      key.Binding
	ExpandAll key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Toggle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sources")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev claim")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next claim")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter sources")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy json")),
		ExpandAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "expand all")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Escape, k.Toggle, k.Filter, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Escape, k.Quit},
		{k.Up, k.Down, k.Toggle, k.ExpandAll},
		{k.PageUp, k.PageDown, k.Filter, k.Copy, k.Help},
	}
}

// reportKeys are only active while a report is focused; elsewhere they are
// ordinary input characters.
func (k *keyMap) setReportFocus(focused bool) {
	for _, b := range []*key.Binding{&k.Toggle, &k.Up, &k.Down, &k.Filter, &k.Copy, &k.ExpandAll, &k.Help} {
		b.SetEnabled(focused)
	}
}
