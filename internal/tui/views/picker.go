package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// PickerItem is one selectable row of a Picker.
type PickerItem struct {
	Title  string
	Detail string
}

// Picker is a filterable list used for the new-chat contact list and the
// attachment pickers.
type Picker struct {
	*tview.Flex
	theme    *ui.Theme
	name     string
	input    *tview.InputField
	table    *tview.Table
	items    []PickerItem
	focus    func(p tview.Primitive)
	onQuery  func(query string)
	onSelect func(index int)
}

// NewPicker creates a picker titled name. focus moves keyboard focus
// between the filter field and the list.
func NewPicker(theme *ui.Theme, name string, focus func(p tview.Primitive)) *Picker {
	input := tview.NewInputField().
		SetLabel(" Filter: ").
		SetFieldWidth(0)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	table := tview.NewTable().
		SetSelectable(true, false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(table, 0, 1, false)

	p := &Picker{
		Flex:  flex,
		theme: theme,
		name:  name,
		input: input,
		table: table,
		focus: focus,
	}

	input.SetChangedFunc(func(text string) {
		if p.onQuery != nil {
			p.onQuery(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter, tcell.KeyTab, tcell.KeyDown:
			if len(p.items) > 0 && p.focus != nil {
				p.focus(p.table)
			}
		}
	})
	table.SetSelectedFunc(func(row, _ int) {
		if p.onSelect != nil && row >= 0 && row < len(p.items) {
			p.onSelect(row)
		}
	})
	p.SetItems(nil)
	return p
}

// Name implements Component.
func (p *Picker) Name() string { return p.name }

// Hints implements Component.
func (p *Picker) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "Tab", Description: "Filter/list"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// FocusTarget implements Component.
func (p *Picker) FocusTarget() tview.Primitive { return p.input }

// SetOnQuery sets the callback fired as the filter text changes.
func (p *Picker) SetOnQuery(fn func(query string)) {
	p.onQuery = fn
}

// SetOnSelect sets the callback fired when a row is chosen.
func (p *Picker) SetOnSelect(fn func(index int)) {
	p.onSelect = fn
}

// Reset clears the filter without firing the query callback.
func (p *Picker) Reset() {
	fn := p.onQuery
	p.onQuery = nil
	p.input.SetText("")
	p.onQuery = fn
}

// Query returns the current filter text.
func (p *Picker) Query() string {
	return p.input.GetText()
}

// SetItems replaces the listed rows.
func (p *Picker) SetItems(items []PickerItem) {
	p.items = items
	p.table.Clear()
	for i, it := range items {
		p.table.SetCell(i, 0, tview.NewTableCell(" "+display(it.Title)).SetExpansion(1).SetTextColor(p.theme.FgColor))
		p.table.SetCell(i, 1, tview.NewTableCell(" "+display(it.Detail)+" ").SetExpansion(2).SetTextColor(p.theme.MutedColor))
	}
	if len(items) == 0 {
		p.table.SetCell(0, 0, tview.NewTableCell(" no matches").SetSelectable(false).SetTextColor(p.theme.MutedColor))
	}
	p.table.Select(0, 0)
	p.table.ScrollToBeginning()
	p.table.SetTitle(fmt.Sprintf(" %s (%d) ", p.name, len(items)))
}

// Len returns the number of listed rows.
func (p *Picker) Len() int { return len(p.items) }

// Input returns the filter field.
func (p *Picker) Input() *tview.InputField { return p.input }

// Table returns the list.
func (p *Picker) Table() *tview.Table { return p.table }
