package chatstore

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SearchChats returns active chats, in ActiveChats order, whose contact
// name, phone or last message contains query, ignoring case. An empty query
// matches every chat.
func (s *Store) SearchChats(query string) []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := s.sortedActive()
	q := strings.TrimSpace(query)
	if q == "" {
		return chats
	}
	out := chats[:0]
	for _, c := range chats {
		if containsFold(c.ContactName, q) || containsFold(c.ContactPhone, q) || containsFold(c.LastMessage, q) {
			out = append(out, c)
		}
	}
	return out
}

// SearchMessages finds messages in one chat whose text contains query,
// ignoring case, most recent first. A blank query or unknown chat yields nil.
func (s *Store) SearchMessages(chatID, query string) []MessageMatch {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.find(chatID)
	if c == nil {
		return nil
	}
	var out []MessageMatch
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if start, end := indexFold(m.Text, query); start >= 0 {
			out = append(out, MessageMatch{Message: m.clone(), Start: start, End: end})
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	start, _ := indexFold(s, substr)
	return start >= 0
}

// indexFold finds the first case-insensitive occurrence of substr in s and
// returns its byte span in s itself, or -1, -1.
func indexFold(s, substr string) (start, end int) {
	if substr == "" {
		return 0, 0
	}
	for i := range s {
		if j, ok := matchFoldAt(s, i, substr); ok {
			return i, j
		}
	}
	return -1, -1
}

// matchFoldAt reports whether substr matches s at byte offset i under simple
// case folding, and where the match ends.
func matchFoldAt(s string, i int, substr string) (int, bool) {
	for _, qr := range substr {
		if i >= len(s) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !equalFoldRune(r, qr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
