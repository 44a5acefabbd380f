package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewBindingShadowsGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "global" }})
	r.AddView("thread", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "view" }})

	if !r.HandleEvent("thread", runeEvent('q')) || got != "view" {
		t.Errorf("thread q -> %q, want view", got)
	}
	if !r.HandleEvent("list", runeEvent('q')) || got != "global" {
		t.Errorf("list q -> %q, want global", got)
	}
}

func TestUnmatchedEvent(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() {}})
	if r.HandleEvent("list", runeEvent('x')) {
		t.Error("x handled without a binding")
	}
	if r.HandleEvent("list", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)) {
		t.Error("Enter matched a rune binding")
	}
}

func TestSpecialKeyMatch(t *testing.T) {
	r := NewRegistry()
	hit := false
	r.AddView("list", &Action{Key: tcell.KeyF2, Handler: func() { hit = true }})
	if !r.HandleEvent("list", tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)) || !hit {
		t.Error("F2 not dispatched")
	}
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true})
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'z', Description: "hidden"})
	r.AddView("list", &Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Visible: true})
	r.AddView("list", &Action{Key: tcell.KeyRune, Rune: 'a', Description: "Archive", Visible: true})

	hints := r.Hints("list")
	want := []string{"Enter", "a", "?"}
	if len(hints) != len(want) {
		t.Fatalf("hints = %+v", hints)
	}
	for i, k := range want {
		if hints[i].Key != k {
			t.Errorf("hints[%d].Key = %q, want %q", i, hints[i].Key, k)
		}
	}
	if got := r.Hints("other"); len(got) != 1 {
		t.Errorf("other view hints = %+v, want only globals", got)
	}
}
