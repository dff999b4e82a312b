package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard-wide bindings. List navigation inside the
// Plans and Schedule tabs belongs to those components.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	jump     key.Binding
	done     key.Binding
	doneNext key.Binding
	reload   key.Binding
	start    key.Binding
	help     key.Binding
	quit     key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func newKeyMap() keyMap {
	return keyMap{
		next:     bind("tab", "next tab", "tab"),
		prev:     bind("shift+tab", "prev tab", "shift+tab"),
		jump:     bind("1-3", "go to tab", "1", "2", "3"),
		done:     bind("c", "mark read", "c"),
		doneNext: bind("n", "mark read, read ahead", "n"),
		reload:   bind("r", "reload", "r"),
		start:    bind("enter", "start plan", "enter"),
		help:     bind("?", "more keys", "?"),
		quit:     bind("q", "quit", "q", "ctrl+c"),
	}
}

// tabFor maps a jump key to its tab.
func tabFor(k string) (SessionState, bool) {
	switch k {
	case "1":
		return StateToday, true
	case "2":
		return StateSchedule, true
	case "3":
		return StatePlans, true
	}
	return 0, false
}

// bindingsFor lists the actions that apply on a tab.
func (k keyMap) bindingsFor(s SessionState) []key.Binding {
	switch s {
	case StateToday:
		return []key.Binding{k.done, k.doneNext, k.reload}
	case StatePlans:
		return []key.Binding{k.start}
	}
	return nil
}
