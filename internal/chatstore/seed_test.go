package chatstore

import "testing"

func TestSeedDemo(t *testing.T) {
	s := testStore(t)
	s.PinChat("chat_1")
	SeedDemo(s)

	active := s.ActiveChats()
	if len(active) != 10 {
		t.Fatalf("active = %d, want 10", len(active))
	}
	if active[0].ID != "chat_1" {
		t.Errorf("first active = %s, want chat_1", active[0].ID)
	}
	if s.IsPinned("chat_1") {
		t.Error("seeding should reset the pinned set")
	}

	spam := 0
	for _, c := range active {
		if c.Spam {
			spam++
			if c.ContactName != "" {
				t.Errorf("spam chat %s has a name", c.ID)
			}
		}
		if c.Unread != (c.UnreadCount > 0) {
			t.Errorf("%s: unread %v with count %d", c.ID, c.Unread, c.UnreadCount)
		}
		if len(c.Messages) == 0 {
			t.Errorf("%s has no messages", c.ID)
		}
		for _, m := range c.Messages {
			if m.ChatID != c.ID {
				t.Errorf("%s: message %s has chat id %s", c.ID, m.ID, m.ChatID)
			}
		}
	}
	if spam != 2 {
		t.Errorf("spam chats = %d, want 2", spam)
	}

	archived := s.ArchivedChats()
	if len(archived) != 3 {
		t.Fatalf("archived = %d, want 3", len(archived))
	}
	for _, c := range archived {
		if !c.Archived {
			t.Errorf("%s not flagged archived", c.ID)
		}
	}

	if n := len(s.Contacts()); n != 15 {
		t.Errorf("contacts = %d, want 15", n)
	}
	if n := len(s.BlockedContacts()); n != 2 {
		t.Errorf("blocked = %d, want 2", n)
	}
	if len(s.StarredMessages()) == 0 {
		t.Error("demo data should contain starred messages")
	}
}

func TestSeedDemoMessageIDsUnique(t *testing.T) {
	s := testStore(t)
	SeedDemo(s)

	seen := map[string]string{}
	for _, c := range append(s.ActiveChats(), s.ArchivedChats()...) {
		for _, m := range c.Messages {
			if other, dup := seen[m.ID]; dup {
				t.Fatalf("message id %s in both %s and %s", m.ID, other, c.ID)
			}
			seen[m.ID] = c.ID
		}
	}
}
