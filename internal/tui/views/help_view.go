package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (hv *HelpView) FocusTarget() tview.Primitive { return hv.TextView }

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global Keys", [][2]string{
		{":", "Command mode"}, {"Esc", "Cancel / Go back"},
		{"?", "Help"}, {"q", "Back / Quit"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Conversation List", [][2]string{
		{"Enter", "Open conversation"}, {"/", "Filter by name or text"},
		{"0", "Clear filter"}, {"1-9", "Open Nth chat"},
		{"p", "Pin / unpin"}, {"S", "Star / unstar chat"},
		{"a", "Archive"}, {"r / u", "Mark read / unread"},
		{"R", "Mark all as read"}, {"B", "Block contact"},
		{"D", "Delete chat"}, {"n", "New chat"},
		{"A", "Archived chats"}, {"*", "Starred"},
		{"b", "Blocked contacts"}, {",", "Settings"},
	}},
	{"Archived", [][2]string{
		{"Enter", "Open"}, {"a", "Unarchive"}, {"D", "Delete"},
	}},
	{"Message Thread", [][2]string{
		{"i", "Focus composer"}, {"Enter", "Send (in composer)"},
		{"j / k", "Select message"}, {"s", "Star / unstar message"},
		{"x", "Delete message"}, {"/", "Search in chat"},
		{"n / N", "Next / previous hit"}, {"I", "Send image"},
		{"g", "Send GIF"}, {"l", "Send location"},
		{"c", "Share contact"}, {"d", "Details and QR"},
	}},
	{"Commands (: mode)", [][2]string{
		{":chats", "Conversation list"}, {":archived", "Archived chats"},
		{":starred", "Starred"}, {":blocked", "Blocked contacts"},
		{":new", "New chat"}, {":settings", "Settings"},
		{":search <q>", "Filter conversations"}, {":chat <name>", "Open chat by name"},
		{":readall", "Mark all as read"}, {":deleteall", "Delete all chats"},
		{":theme [name]", "Cycle or set theme"}, {":notifications", "Toggle notifications"},
		{":reset", "Reset demo data"}, {":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := ui.ColorTag(hv.theme.MenuKeyColor)

	var sb strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&sb, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for i := 0; i < len(s.keys); i += 2 {
			fmt.Fprintf(&sb, "  [%s]%-14s[-:-:-] %-24s", kc, tview.Escape(s.keys[i][0]), s.keys[i][1])
			if i+1 < len(s.keys) {
				fmt.Fprintf(&sb, "[%s]%-14s[-:-:-] %s", kc, tview.Escape(s.keys[i+1][0]), s.keys[i+1][1])
			}
			sb.WriteString("\n")
		}
	}
	_, _ = fmt.Fprint(hv, sb.String())
}
