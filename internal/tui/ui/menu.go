package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is the number of hints stacked per column.
const menuRows = 6

// Menu displays keyboard shortcut hints in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders menu hints column by column, menuRows per column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.render(hints))
}

func (m *Menu) render(hints []MenuHint) string {
	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)

	cols := (len(hints) + menuRows - 1) / menuRows
	width := make([]int, cols)
	for i, h := range hints {
		if w := len(h.Key) + len(h.Description) + 3; w > width[i/menuRows] {
			width[i/menuRows] = w
		}
	}

	var sb strings.Builder
	for row := 0; row < menuRows && row < len(hints); row++ {
		for col := 0; col < cols; col++ {
			i := col*menuRows + row
			if i >= len(hints) {
				break
			}
			h := hints[i]
			kc := keyColor
			if h.Numeric {
				kc = numColor
			}
			pad := width[col] - len(h.Key) - len(h.Description) - 3
			fmt.Fprintf(&sb, "[%s::b]<%s>[-:-:-] %s%s  ", kc, tview.Escape(h.Key), h.Description, strings.Repeat(" ", pad))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
