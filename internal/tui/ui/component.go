package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 0-9 shortcuts (displayed in a different color)
}

// Component is a page the app can push onto the stack.
type Component interface {
	tview.Primitive
	// Name is the page name and its breadcrumb label.
	Name() string
	Hints() []MenuHint
	// FocusTarget is the widget that receives focus when the page is shown.
	FocusTarget() tview.Primitive
}
