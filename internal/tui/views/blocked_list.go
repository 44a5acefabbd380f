package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// BlockedList shows blocked contacts.
type BlockedList struct {
	*tview.Table
	theme   *ui.Theme
	blocked []chatstore.BlockedContact
}

// NewBlockedList creates the blocked contacts table.
func NewBlockedList(theme *ui.Theme) *BlockedList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	bl := &BlockedList{Table: table, theme: theme}
	bl.Update(nil)
	return bl
}

// Name implements Component.
func (bl *BlockedList) Name() string { return "Blocked" }

// Hints implements Component.
func (bl *BlockedList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (bl *BlockedList) FocusTarget() tview.Primitive { return bl.Table }

// Update refreshes the table.
func (bl *BlockedList) Update(blocked []chatstore.BlockedContact) {
	bl.blocked = blocked
	row, _ := bl.GetSelection()
	bl.Clear()
	for col, h := range []string{" NAME", " PHONE", " BLOCKED"} {
		bl.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(bl.theme.TableHeaderFg).
			SetBackgroundColor(bl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(1))
	}
	for i, b := range blocked {
		name := b.Name
		if name == "" {
			name = "Unknown"
		}
		bl.SetCell(i+1, 0, tview.NewTableCell(" "+display(name)).SetExpansion(1).SetTextColor(bl.theme.FgColor))
		bl.SetCell(i+1, 1, tview.NewTableCell(" "+display(b.Phone)).SetExpansion(1).SetTextColor(bl.theme.FgColor))
		bl.SetCell(i+1, 2, tview.NewTableCell(" "+b.BlockedAt.Local().Format("2006-01-02 15:04")).SetExpansion(1).SetTextColor(bl.theme.MutedColor))
	}
	if row > len(blocked) {
		row = len(blocked)
	}
	if row < 1 && len(blocked) > 0 {
		row = 1
	}
	bl.Select(row, 0)
	bl.SetTitle(fmt.Sprintf(" Blocked contacts (%d) ", len(blocked)))
}

// Selected returns the blocked entry under the cursor.
func (bl *BlockedList) Selected() (chatstore.BlockedContact, bool) {
	row, _ := bl.GetSelection()
	if row < 1 || row > len(bl.blocked) {
		return chatstore.BlockedContact{}, false
	}
	return bl.blocked[row-1], true
}
