package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays messages and a composer for a single chat.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	chat     api.ChatView
	selected int // index into chat.Messages, -1 when empty

	query    string
	matches  []chatstore.MessageMatch
	matchPos int

	onSend func(text string)
	onExit func()
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
		selected: -1,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(composer.GetText())
			if text != "" && mt.onSend != nil {
				mt.onSend(text)
				composer.SetText("")
			}
		case tcell.KeyEscape:
			if mt.onExit != nil {
				mt.onExit()
			}
		}
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chat.ID != "" {
		return mt.chat.DisplayName()
	}
	return "Messages"
}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Send (composer)"},
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (mt *MessageThread) FocusTarget() tview.Primitive { return mt.messages }

// SetOnSend sets the callback when a message is sent.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// SetOnExitComposer sets the callback for Esc inside the composer.
func (mt *MessageThread) SetOnExitComposer(fn func()) {
	mt.onExit = fn
}

// ChatID returns the current chat id.
func (mt *MessageThread) ChatID() string {
	return mt.chat.ID
}

// Chat returns the chat currently shown.
func (mt *MessageThread) Chat() api.ChatView {
	return mt.chat
}

// Update shows chat. Switching to another chat resets the selection to the
// newest message and drops search results; a new message on the same chat
// moves the selection to it.
func (mt *MessageThread) Update(chat api.ChatView) {
	switched := chat.ID != mt.chat.ID
	grew := len(chat.Messages) > len(mt.chat.Messages)
	prevID := ""
	if m, ok := mt.SelectedMessage(); ok {
		prevID = m.ID
	}
	mt.chat = chat

	switch {
	case switched:
		mt.clearSearch()
		mt.selected = len(chat.Messages) - 1
	case grew:
		mt.selected = len(chat.Messages) - 1
	default:
		if i := mt.indexOf(prevID); i >= 0 {
			mt.selected = i
		} else {
			mt.selected = min(mt.selected, len(chat.Messages)-1)
		}
	}

	title := fmt.Sprintf(" %s  %s ", display(chat.DisplayName()), display(chat.ContactPhone))
	if chat.Spam {
		title += "(spam) "
	}
	mt.messages.SetTitle(title)
	mt.render()
}

func (mt *MessageThread) indexOf(msgID string) int {
	if msgID == "" {
		return -1
	}
	for i, m := range mt.chat.Messages {
		if m.ID == msgID {
			return i
		}
	}
	return -1
}

func (mt *MessageThread) render() {
	mt.messages.Clear()

	hits := make(map[string]chatstore.MessageMatch, len(mt.matches))
	for _, m := range mt.matches {
		hits[m.Message.ID] = m
	}
	self := ui.ColorTag(mt.theme.SelfColor)
	peer := ui.ColorTag(mt.theme.PeerColor)
	star := ui.ColorTag(mt.theme.StarColor)

	var sb strings.Builder
	for i, m := range mt.chat.Messages {
		sender, color := display(mt.chat.DisplayName()), peer
		if m.FromSelf() {
			sender, color = "You", self
		}
		fmt.Fprintf(&sb, `["m%d"][%s::b]%s[-:-:-] [::d]%s[-:-:-]`, i, color, sender, formatTimestamp(m.Timestamp))
		if m.Starred {
			fmt.Fprintf(&sb, " [%s]*[-]", star)
		}
		sb.WriteString("\n")
		if m.Attachment != nil {
			fmt.Fprintf(&sb, "[::i]%s[-:-:-]\n", display(describeAttachment(m.Attachment)))
		}
		if m.Text != "" {
			if hit, ok := hits[m.ID]; ok {
				sb.WriteString(mt.markMatch(m.Text, hit.Start, hit.End))
			} else {
				sb.WriteString(display(m.Text))
			}
			sb.WriteString("\n")
		}
		sb.WriteString(`[""]` + "\n")
	}
	if len(mt.chat.Messages) == 0 {
		sb.WriteString("[::d]No messages yet. Press i to write one.[-:-:-]")
	}
	_, _ = fmt.Fprint(mt.messages, sb.String())

	if mt.selected >= 0 {
		mt.messages.Highlight(fmt.Sprintf("m%d", mt.selected))
		mt.messages.ScrollToHighlight()
	} else {
		mt.messages.Highlight()
		mt.messages.ScrollToEnd()
	}
}

// markMatch wraps text[start:end] in the match colors.
func (mt *MessageThread) markMatch(text string, start, end int) string {
	if start < 0 || end > len(text) || start >= end {
		return display(text)
	}
	return fmt.Sprintf("%s[%s:%s]%s[-:-]%s",
		display(text[:start]),
		ui.ColorTag(mt.theme.MatchFg), ui.ColorTag(mt.theme.MatchBg), display(text[start:end]),
		display(text[end:]))
}

// SelectNext moves the selection one message down.
func (mt *MessageThread) SelectNext() {
	if mt.selected < len(mt.chat.Messages)-1 {
		mt.selected++
		mt.render()
	}
}

// SelectPrev moves the selection one message up.
func (mt *MessageThread) SelectPrev() {
	if mt.selected > 0 {
		mt.selected--
		mt.render()
	}
}

// SelectedMessage returns the highlighted message.
func (mt *MessageThread) SelectedMessage() (chatstore.Message, bool) {
	if mt.selected < 0 || mt.selected >= len(mt.chat.Messages) {
		return chatstore.Message{}, false
	}
	return mt.chat.Messages[mt.selected], true
}

// HighlightMessage selects the message with the given id. It reports
// whether the message is in the thread.
func (mt *MessageThread) HighlightMessage(msgID string) bool {
	i := mt.indexOf(msgID)
	if i < 0 {
		return false
	}
	mt.selected = i
	mt.render()
	return true
}

// SetMatches installs search results and jumps to the first one.
func (mt *MessageThread) SetMatches(query string, matches []chatstore.MessageMatch) {
	mt.query = query
	mt.matches = matches
	mt.matchPos = 0
	if len(matches) > 0 {
		if i := mt.indexOf(matches[0].Message.ID); i >= 0 {
			mt.selected = i
		}
	}
	mt.render()
}

// NextMatch advances to the next search hit, wrapping around. delta is +1
// or -1.
func (mt *MessageThread) NextMatch(delta int) {
	if len(mt.matches) == 0 {
		return
	}
	mt.matchPos = (mt.matchPos + delta + len(mt.matches)) % len(mt.matches)
	if i := mt.indexOf(mt.matches[mt.matchPos].Message.ID); i >= 0 {
		mt.selected = i
	}
	mt.render()
}

// MatchStatus describes the search position, e.g. `2/3 "lunch"`.
func (mt *MessageThread) MatchStatus() string {
	if mt.query == "" {
		return ""
	}
	if len(mt.matches) == 0 {
		return fmt.Sprintf("no matches for %q", mt.query)
	}
	return fmt.Sprintf("%d/%d %q", mt.matchPos+1, len(mt.matches), mt.query)
}

func (mt *MessageThread) clearSearch() {
	mt.query = ""
	mt.matches = nil
	mt.matchPos = 0
}

// ClearSearch drops search highlighting.
func (mt *MessageThread) ClearSearch() {
	mt.clearSearch()
	mt.render()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
