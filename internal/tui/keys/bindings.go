package keys

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/tui/ui"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string // key as shown in the menu, e.g. "Enter"
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

func (a *Action) label() string {
	if a.Label != "" {
		return a.Label
	}
	if a.Key == tcell.KeyRune {
		return string(a.Rune)
	}
	return tcell.KeyNames[a.Key]
}

// Registry holds keybindings organized by scope, in registration order.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string][]*Action),
	}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view string, action *Action) {
	r.views[view] = append(r.views[view], action)
}

// Hints returns the visible bindings for a view, view-specific first.
func (r *Registry) Hints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	add := func(actions []*Action) {
		for _, a := range actions {
			if a.Visible {
				hints = append(hints, ui.MenuHint{Key: a.label(), Description: a.Description})
			}
		}
	}
	add(r.views[view])
	add(r.global)
	return hints
}

// HandleEvent dispatches a key event to the first matching action, checking
// the view's bindings before the global ones. Returns true if a handler ran.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, a := range r.views[view] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
