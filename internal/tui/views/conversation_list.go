package views

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is a table of chats. The same widget backs the active,
// archived and starred-conversation pages.
type ConversationList struct {
	*tview.Table
	theme  *ui.Theme
	name   string
	chats  []api.ChatView
	filter string
}

// NewConversationList creates a chat table titled name.
func NewConversationList(theme *ui.Theme, name string) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	cl := &ConversationList{
		Table: table,
		theme: theme,
		name:  name,
	}
	cl.render()
	return cl
}

// Name implements Component.
func (cl *ConversationList) Name() string { return cl.name }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Enter", Description: "Open"}}
}

// FocusTarget implements Component.
func (cl *ConversationList) FocusTarget() tview.Primitive { return cl.Table }

// Update refreshes the list, keeping the cursor on the same chat when it is
// still present.
func (cl *ConversationList) Update(chats []api.ChatView) {
	selected := cl.SelectedChat()
	cl.chats = chats
	cl.render()
	cl.selectChat(selected)
}

// SetFilter records the filter shown in the title. Filtering itself happens
// daemon-side.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text  string
		exp   int
		align int
	}{
		{" ", 0, tview.AlignLeft},
		{" NAME", 1, tview.AlignLeft},
		{" LAST MESSAGE", 2, tview.AlignLeft},
		{"TIME ", 0, tview.AlignRight},
		{"UNREAD ", 0, tview.AlignRight},
	}
	for col, h := range headers {
		cl.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp).
			SetAlign(h.align))
	}

	for i, chat := range cl.chats {
		row := i + 1
		fg := cl.theme.FgColor
		if chat.Spam {
			fg = cl.theme.SpamColor
		}
		name := tview.NewTableCell(" " + display(chat.DisplayName())).
			SetExpansion(1).
			SetTextColor(fg).
			SetReference(chat.ID)
		unread := ""
		if chat.Unread {
			name.SetAttributes(tcell.AttrBold)
			unread = strconv.Itoa(chat.UnreadCount) + " "
		}

		cl.SetCell(row, 0, tview.NewTableCell(chatFlags(chat)).SetTextColor(cl.theme.StarColor))
		cl.SetCell(row, 1, name)
		cl.SetCell(row, 2, tview.NewTableCell(" "+display(chat.LastMessage)).SetExpansion(2).SetTextColor(fg))
		cl.SetCell(row, 3, tview.NewTableCell(display(chat.TimeLabel)+" ").SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 4, tview.NewTableCell(unread).SetTextColor(cl.theme.UnreadColor).SetAlign(tview.AlignRight))
	}

	switch {
	case cl.filter != "":
		cl.SetTitle(fmt.Sprintf(" %s (%d) filter: %s ", cl.name, len(cl.chats), tview.Escape(cl.filter)))
	default:
		cl.SetTitle(fmt.Sprintf(" %s (%d) ", cl.name, len(cl.chats)))
	}
}

func (cl *ConversationList) selectChat(id string) {
	if len(cl.chats) == 0 {
		return
	}
	for i, c := range cl.chats {
		if c.ID == id {
			cl.Select(i+1, 0)
			return
		}
	}
	row, _ := cl.GetSelection()
	if row < 1 || row > len(cl.chats) {
		cl.Select(1, 0)
	}
}

// SelectedChat returns the id of the chat under the cursor.
func (cl *ConversationList) SelectedChat() string {
	row, _ := cl.GetSelection()
	if row < 1 || row > len(cl.chats) {
		return ""
	}
	return cl.chats[row-1].ID
}

// Selected returns the chat under the cursor.
func (cl *ConversationList) Selected() (api.ChatView, bool) {
	row, _ := cl.GetSelection()
	if row < 1 || row > len(cl.chats) {
		return api.ChatView{}, false
	}
	return cl.chats[row-1], true
}

// ChatByIndex returns the id of the Nth listed conversation (1-based).
func (cl *ConversationList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.chats) {
		return ""
	}
	return cl.chats[n-1].ID
}

// Len returns the number of listed chats.
func (cl *ConversationList) Len() int { return len(cl.chats) }
