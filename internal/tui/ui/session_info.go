package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// SessionData holds session information for display.
type SessionData struct {
	Session       string
	Status        string
	ChatCount     int
	MessageCount  int
	Unread        int
	Uptime        time.Duration
	Notifications bool
	Theme         string
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	fg := colorName(si.theme.FgColor)
	ct := colorName(si.theme.CounterColor)

	notif := "on"
	if !data.Notifications {
		notif = "off"
	}

	_, _ = fmt.Fprintf(si,
		"[%s::b]Session:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Chats:[-:-:-]   [%s]%d[-] [%s](%d unread)[-]\n"+
			"[%s::b]Msgs:[-:-:-]    [%s]%d[-]\n"+
			"[%s::b]Notify:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Uptime:[-:-:-]  [%s]%s[-]",
		fg, ct, data.Session,
		fg, ct, data.Status,
		fg, ct, data.ChatCount, colorName(si.theme.UnreadColor), data.Unread,
		fg, ct, data.MessageCount,
		fg, ct, notif,
		fg, ct, FormatDuration(data.Uptime),
	)
}

// FormatDuration renders an uptime as "1h5m" or "12m".
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
