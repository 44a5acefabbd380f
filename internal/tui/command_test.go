package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"quit", Command{Name: CmdQuit}},
		{"q", Command{Name: CmdQuit}},
		{"  :Q  ", Command{Name: CmdQuit}},
		{"search  dinner plans ", Command{Name: CmdSearch, Args: "dinner plans"}},
		{"open Nina", Command{Name: CmdChat, Args: "Nina"}},
		{"theme light", Command{Name: CmdTheme, Args: "light"}},
		{"a", Command{Name: CmdArchived}},
		{"readall", Command{Name: CmdReadAll}},
		{"bogus x", Command{Name: "bogus", Args: "x"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
