package views

import "testing"

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"skin tone", "\U0001F44D\U0001F3FB", "\U0001F44D"},
		{"zwj family", "\U0001F468\u200d\U0001F469", "\U0001F468\U0001F469"},
		{"variation selector", "\u2764\ufe0f", "\u2764"},
		{"football kept", "Sounds like a plan! \U0001F3C8", "Sounds like a plan! \U0001F3C8"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
