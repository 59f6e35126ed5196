package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Grab  key.Binding
	Reset key.Binding
	Pause key.Binding
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		// terminals report no key release, so space toggles
		Grab:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/release")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Pause: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Theme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Grab, k.Reset, k.Pause},
		{k.Theme, k.Help, k.Quit},
	}
}
