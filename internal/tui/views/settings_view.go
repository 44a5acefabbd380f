package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/rivo/tview"
)

// Setting identifies a row of the settings page.
type Setting int

const (
	SettingNotifications Setting = iota
	SettingTheme
	SettingMarkAllRead
	SettingDeleteAll
	SettingReset
)

// SettingsState is what the settings page displays.
type SettingsState struct {
	Notifications bool
	Theme         string
	Unread        int
	Chats         int
}

// SettingsView lists toggles and bulk actions.
type SettingsView struct {
	*tview.Table
	theme      *ui.Theme
	onActivate func(Setting)
}

// NewSettingsView creates the settings page.
func NewSettingsView(theme *ui.Theme) *SettingsView {
	table := tview.NewTable().
		SetSelectable(true, false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitle(" Settings ")
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	sv := &SettingsView{Table: table, theme: theme}
	table.SetSelectedFunc(func(row, _ int) {
		if sv.onActivate != nil {
			sv.onActivate(Setting(row))
		}
	})
	sv.Update(SettingsState{})
	return sv
}

// Name implements Component.
func (sv *SettingsView) Name() string { return "Settings" }

// Hints implements Component.
func (sv *SettingsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Toggle/run"},
		{Key: "Esc", Description: "Back"},
	}
}

// FocusTarget implements Component.
func (sv *SettingsView) FocusTarget() tview.Primitive { return sv.Table }

// SetOnActivate sets the callback for Enter on a row.
func (sv *SettingsView) SetOnActivate(fn func(Setting)) {
	sv.onActivate = fn
}

// Update redraws the rows for st.
func (sv *SettingsView) Update(st SettingsState) {
	row, _ := sv.GetSelection()
	sv.Clear()

	notif := "off"
	if st.Notifications {
		notif = "on"
	}
	rows := []struct{ label, value string }{
		SettingNotifications: {"Notifications", notif},
		SettingTheme:         {"Theme", st.Theme},
		SettingMarkAllRead:   {"Mark all chats as read", itoa(st.Unread) + " unread"},
		SettingDeleteAll:     {"Delete all chats", itoa(st.Chats) + " chats"},
		SettingReset:         {"Reset demo data", ""},
	}
	for i, r := range rows {
		sv.SetCell(i, 0, tview.NewTableCell(" "+r.label).SetExpansion(1).SetTextColor(sv.theme.FgColor))
		sv.SetCell(i, 1, tview.NewTableCell(r.value+" ").SetAlign(tview.AlignRight).SetTextColor(sv.theme.CounterColor))
	}
	sv.Select(min(max(row, 0), len(rows)-1), 0)
}

// Selected returns the setting under the cursor.
func (sv *SettingsView) Selected() Setting {
	row, _ := sv.GetSelection()
	return Setting(row)
}
