package views

import (
	"testing"

	"github.com/matheus3301/securechat/internal/tui/ui"
)

func TestPickerQueryAndSelect(t *testing.T) {
	var queries []string
	chosen := -1
	p := NewPicker(ui.DarkTheme(), "Contacts", nil)
	p.SetOnQuery(func(q string) { queries = append(queries, q) })
	p.SetOnSelect(func(i int) { chosen = i })

	p.Input().SetText("ni")
	if len(queries) != 1 || queries[0] != "ni" {
		t.Errorf("queries = %v, want [ni]", queries)
	}

	p.SetItems([]PickerItem{{Title: "Nina Patel", Detail: "+1 567 890 1235"}, {Title: "Nick"}})
	if p.Len() != 2 || p.Table().GetRowCount() != 2 {
		t.Fatalf("rows = %d/%d", p.Len(), p.Table().GetRowCount())
	}
	if got := p.Table().GetTitle(); got != " Contacts (2) " {
		t.Errorf("title = %q", got)
	}

	p.Reset()
	if p.Query() != "" || len(queries) != 1 {
		t.Errorf("Reset fired query callback: %v", queries)
	}
	if chosen != -1 {
		t.Error("selection fired without input")
	}
}

func TestPickerEmpty(t *testing.T) {
	p := NewPicker(ui.DarkTheme(), "GIFs", nil)
	p.SetItems(nil)
	if p.Len() != 0 || p.Table().GetCell(0, 0).Text != " no matches" {
		t.Errorf("empty picker cell = %q", p.Table().GetCell(0, 0).Text)
	}
}
