package ui

import (
	"testing"

	"github.com/rivo/tview"
)

func newTestPages(names ...string) (*Pages, *[][]string) {
	p := NewPages()
	for _, n := range names {
		p.AddPage(n, tview.NewBox(), true, false)
	}
	var changes [][]string
	p.SetOnChange(func(stack []string) { changes = append(changes, stack) })
	return p, &changes
}

func TestPagesPushPop(t *testing.T) {
	p, changes := newTestPages("list", "thread", "details")

	p.Push("list")
	p.Push("thread")
	p.Push("details")
	if p.Current() != "details" || p.Depth() != 3 {
		t.Fatalf("after push: current=%s depth=%d", p.Current(), p.Depth())
	}

	if got := p.Pop(); got != "details" {
		t.Errorf("Pop() = %s, want details", got)
	}
	if front, _ := p.GetFrontPage(); front != "thread" {
		t.Errorf("front page = %s, want thread", front)
	}
	if len(*changes) != 4 {
		t.Errorf("onChange fired %d times, want 4", len(*changes))
	}
}

func TestPagesKeepRoot(t *testing.T) {
	p, _ := newTestPages("list")
	p.Push("list")
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on root = %q, want empty", got)
	}
	if p.Current() != "list" {
		t.Errorf("root lost: current=%q", p.Current())
	}
}

func TestPagesPushSameIsNoop(t *testing.T) {
	p, changes := newTestPages("list")
	p.Push("list")
	p.Push("list")
	if p.Depth() != 1 || len(*changes) != 1 {
		t.Errorf("depth=%d changes=%d, want 1/1", p.Depth(), len(*changes))
	}
}

func TestPagesReplaceAndReset(t *testing.T) {
	p, _ := newTestPages("list", "thread", "details", "help")
	p.Push("list")
	p.Push("thread")
	p.Replace("details")

	stack := p.Stack()
	if len(stack) != 2 || stack[1] != "details" {
		t.Fatalf("stack after Replace = %v", stack)
	}
	if p.Contains("thread") {
		t.Error("replaced page still on stack")
	}

	p.Reset("help")
	if p.Depth() != 1 || p.Current() != "help" {
		t.Errorf("after Reset: %v", p.Stack())
	}
}

func TestStackIsCopy(t *testing.T) {
	p, _ := newTestPages("list")
	p.Push("list")
	s := p.Stack()
	s[0] = "mutated"
	if p.Current() != "list" {
		t.Error("Stack() exposed internal slice")
	}
}
