package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/rivo/tview"
)

// now is swapped in tests.
var now = time.Now

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	n := now().Local()
	if t.Year() == n.Year() && t.YearDay() == n.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

func itoa(n int) string { return strconv.Itoa(n) }

// display escapes and sanitizes untrusted text for a tview cell.
func display(s string) string {
	return tview.Escape(sanitizeForTerminal(s))
}

// chatFlags renders the pinned, starred and spam markers of a chat.
func chatFlags(c api.ChatView) string {
	var b strings.Builder
	if c.Pinned {
		b.WriteByte('^')
	}
	if c.Starred {
		b.WriteByte('*')
	}
	if c.Spam {
		b.WriteByte('!')
	}
	return b.String()
}

// describeAttachment is the one-line summary of an attachment shown in the
// thread.
func describeAttachment(a chatstore.Attachment) string {
	switch a := a.(type) {
	case chatstore.ImageAttachment:
		return fmt.Sprintf("%s %s", a.Label(), a.URL)
	case chatstore.GIFAttachment:
		if a.Category != "" {
			return fmt.Sprintf("GIF (%s) %s", a.Category, a.URL)
		}
		return "GIF " + a.URL
	case chatstore.ContactAttachment:
		return fmt.Sprintf("%s %s", a.Label(), a.Phone)
	case chatstore.LocationAttachment:
		s := a.Label()
		if a.Address != "" {
			s += ", " + a.Address
		}
		if a.Coordinates != nil && !strings.Contains(a.Address, "(") {
			s += " (" + a.Coordinates.String() + ")"
		}
		return s
	case nil:
		return ""
	default:
		return a.Label()
	}
}
