package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays the contact card of a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (ci *ConversationInfo) FocusTarget() tview.Primitive { return ci.TextView }

// Update renders conversation details.
func (ci *ConversationInfo) Update(chat api.ChatView) {
	ci.Clear()
	if chat.ID == "" {
		return
	}

	fg := ui.ColorTag(ci.theme.FgColor)
	ct := ui.ColorTag(ci.theme.CounterColor)

	state := "Active"
	if chat.Archived {
		state = "Archived"
	}
	if chat.Spam {
		state += ", flagged as spam"
	}
	name := chat.ContactName
	if name == "" {
		name = "Unknown"
	}
	starred := 0
	for _, m := range chat.Messages {
		if m.Starred {
			starred++
		}
	}

	rows := []struct{ label, value string }{
		{"Name:", name},
		{"Phone:", chat.ContactPhone},
		{"State:", state},
		{"Pinned:", yesNo(chat.Pinned)},
		{"Starred:", yesNo(chat.Starred)},
		{"Unread:", fmt.Sprintf("%d", chat.UnreadCount)},
		{"Messages:", fmt.Sprintf("%d (%d starred)", len(chat.Messages), starred)},
		{"Last Active:", chat.TimeLabel},
		{"Last Message:", chat.LastMessage},
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, " [%s::b]%-13s[-:-:-] [%s]%s[-]\n", fg, r.label, ct, display(r.value))
	}
	if chat.ContactPhone != "" {
		fmt.Fprintf(&sb, "\n [::d]Scan to call %s[-:-:-]\n\n%s", display(chat.ContactPhone), renderQR(TelURI(chat.ContactPhone)))
	}

	_, _ = fmt.Fprint(ci, sb.String())
	ci.SetTitle(fmt.Sprintf(" %s Details ", display(chat.DisplayName())))
	ci.ScrollToBeginning()
}

// TelURI builds a tel: URI from a display phone number, keeping only the
// leading + and digits.
func TelURI(phone string) string {
	var b strings.Builder
	b.WriteString("tel:")
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('\u2588')
			case top:
				sb.WriteRune('\u2580')
			case bot:
				sb.WriteRune('\u2584')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
