package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/tui/client"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// StarredView lists starred messages above starred conversations.
type StarredView struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.Table
	chats    *ConversationList
	data     []client.StarredMessage
	focusOn  tview.Primitive
}

// NewStarredView creates a new starred view.
func NewStarredView(theme *ui.Theme) *StarredView {
	messages := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTitleColor(theme.TitleColor)
	messages.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	chats := NewConversationList(theme, "Starred conversations")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 2, true).
		AddItem(chats, 0, 1, false)

	sv := &StarredView{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		chats:    chats,
		focusOn:  messages,
	}
	sv.Update(nil, nil)
	return sv
}

// Name implements Component.
func (sv *StarredView) Name() string { return "Starred" }

// Hints implements Component.
func (sv *StarredView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (sv *StarredView) FocusTarget() tview.Primitive { return sv.focusOn }

// ToggleFocus switches between the two tables and returns the new target.
func (sv *StarredView) ToggleFocus() tview.Primitive {
	if sv.focusOn == sv.messages {
		sv.focusOn = sv.chats.Table
	} else {
		sv.focusOn = sv.messages
	}
	return sv.focusOn
}

// OnChats reports whether the conversations table has focus.
func (sv *StarredView) OnChats() bool {
	return sv.focusOn != sv.messages
}

// Update refreshes both tables.
func (sv *StarredView) Update(msgs []client.StarredMessage, chats []api.ChatView) {
	sv.data = msgs
	sv.chats.Update(chats)

	row, _ := sv.messages.GetSelection()
	sv.messages.Clear()
	headers := []string{" CHAT", " MESSAGE", " TIME"}
	for col, h := range headers {
		sv.messages.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}

	for i, s := range msgs {
		text := s.Message.Text
		if text == "" && s.Message.Attachment != nil {
			text = s.Message.Attachment.Label()
		}
		sv.messages.SetCell(i+1, 0, tview.NewTableCell(" "+display(s.Chat.DisplayName())).SetMaxWidth(25).SetTextColor(sv.theme.FgColor))
		sv.messages.SetCell(i+1, 1, tview.NewTableCell(" "+display(text)).SetExpansion(1).SetTextColor(sv.theme.FgColor))
		sv.messages.SetCell(i+1, 2, tview.NewTableCell(" "+formatTimestamp(s.Message.Timestamp)+" ").SetTextColor(sv.theme.MutedColor))
	}
	if row > len(msgs) {
		row = len(msgs)
	}
	if row < 1 && len(msgs) > 0 {
		row = 1
	}
	sv.messages.Select(row, 0)
	sv.messages.SetTitle(fmt.Sprintf(" Starred messages (%d) ", len(msgs)))
}

// SelectedMessage returns the chat and message ids of the selected row.
func (sv *StarredView) SelectedMessage() (chatID, msgID string) {
	row, _ := sv.messages.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(sv.data) {
		return "", ""
	}
	s := sv.data[idx]
	return s.Chat.ID, s.Message.ID
}

// SelectedChat returns the id of the selected starred conversation.
func (sv *StarredView) SelectedChat() string {
	return sv.chats.SelectedChat()
}
