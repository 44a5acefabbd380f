package chatstore

import (
	"fmt"
	"time"
)

type line struct {
	text    string
	at      string // 2006-01-02T15:04
	sender  Sender
	starred bool
	unread  bool
}

var conversationTemplates = [][]line{
	{
		{text: "Hey! How's it going?", at: "2026-01-04T10:30", sender: SenderPeer},
		{text: "Pretty good! Just finished that project we talked about", at: "2026-01-04T10:32", sender: SenderSelf},
		{text: "That's awesome! How did it turn out?", at: "2026-01-04T10:33", sender: SenderPeer},
		{text: "Really well actually. The client loved it 🎉", at: "2026-01-04T10:35", sender: SenderSelf, starred: true},
		{text: "Congrats! We should celebrate", at: "2026-01-04T10:36", sender: SenderPeer},
		{text: "Definitely! Are you free this weekend?", at: "2026-01-04T11:00", sender: SenderSelf},
		{text: "Saturday works for me. Let me know the time and place", at: "2026-01-04T11:05", sender: SenderPeer},
		{text: "How about that new restaurant downtown? Around 7pm?", at: "2026-01-05T09:00", sender: SenderSelf},
		{text: "Perfect! I've been wanting to try that place", at: "2026-01-05T09:15", sender: SenderPeer},
		{text: "Great, I'll make a reservation", at: "2026-01-05T09:20", sender: SenderSelf},
		{text: "Thanks! Looking forward to it", at: "2026-01-05T09:22", sender: SenderPeer},
		{text: "Same here! See you Saturday 👋", at: "2026-01-05T09:25", sender: SenderSelf},
		{text: "By the way, should I bring anything?", at: "2026-01-06T08:00", sender: SenderPeer},
		{text: "Just yourself! My treat for celebrating", at: "2026-01-06T08:05", sender: SenderSelf},
		{text: "You're too kind! See you tomorrow!", at: "2026-01-06T08:10", sender: SenderPeer, unread: true},
	},
	{
		{text: "Don't forget about the meeting tomorrow", at: "2026-01-04T14:00", sender: SenderPeer},
		{text: "Which one? I have three scheduled", at: "2026-01-04T14:05", sender: SenderSelf},
		{text: "The product review at 2pm", at: "2026-01-04T14:06", sender: SenderPeer, starred: true},
		{text: "Got it, thanks for the reminder!", at: "2026-01-04T14:10", sender: SenderSelf},
		{text: "Also, can you bring the prototype?", at: "2026-01-04T14:12", sender: SenderPeer},
		{text: "Already packed and ready. Been working on some last-minute improvements too", at: "2026-01-04T14:15", sender: SenderSelf},
		{text: "That's what I like to hear! The team is excited to see it", at: "2026-01-04T14:18", sender: SenderPeer},
		{text: "Hope they like the new features", at: "2026-01-04T14:20", sender: SenderSelf},
		{text: "I'm sure they will. You always deliver quality work", at: "2026-01-04T14:22", sender: SenderPeer},
		{text: "Thanks! That means a lot", at: "2026-01-04T14:25", sender: SenderSelf},
		{text: "See you tomorrow at 2!", at: "2026-01-04T14:30", sender: SenderPeer},
		{text: "I'll be there 10 minutes early", at: "2026-01-05T09:00", sender: SenderSelf},
		{text: "Perfect. Conference room B", at: "2026-01-05T09:05", sender: SenderPeer},
		{text: "Noted!", at: "2026-01-05T09:10", sender: SenderSelf},
	},
	{
		{text: "Did you see the game last night?", at: "2026-01-05T10:00", sender: SenderPeer},
		{text: "Yes! What an incredible finish!", at: "2026-01-05T10:02", sender: SenderSelf},
		{text: "That last-minute goal was unreal", at: "2026-01-05T10:03", sender: SenderPeer},
		{text: "I couldn't believe it. I was on the edge of my seat the whole time", at: "2026-01-05T10:05", sender: SenderSelf},
		{text: "Same here! My neighbors probably thought I was crazy with all the yelling 😂", at: "2026-01-05T10:08", sender: SenderPeer},
		{text: "Haha totally worth it though", at: "2026-01-05T10:10", sender: SenderSelf},
		{text: "Want to watch the next game together?", at: "2026-01-05T10:15", sender: SenderPeer},
		{text: "That would be great! When is it?", at: "2026-01-05T10:20", sender: SenderSelf},
		{text: "Next Thursday at 8pm", at: "2026-01-05T10:22", sender: SenderPeer},
		{text: "I'm in! Your place or mine?", at: "2026-01-05T10:25", sender: SenderSelf},
		{text: "Come over to mine. I'll get some snacks", at: "2026-01-05T10:30", sender: SenderPeer},
		{text: "Perfect, I'll bring drinks", at: "2026-01-05T10:32", sender: SenderSelf},
		{text: "Sounds like a plan! 🏈", at: "2026-01-05T10:35", sender: SenderPeer},
	},
}

var spamTemplate = []line{
	{text: "CONGRATULATIONS! You've been selected to receive a FREE iPhone 16!", at: "2026-01-06T07:00", sender: SenderPeer},
	{text: "Click here to claim your prize: bit.ly/free-prize", at: "2026-01-06T07:01", sender: SenderPeer},
	{text: "This offer expires in 24 hours! Act now!", at: "2026-01-06T07:02", sender: SenderPeer, unread: true},
}

// demoMessages builds the message list for a seeded chat. Non-spam chats
// cycle through the conversation templates by their position.
func demoMessages(chatID string, position int, spam bool) []Message {
	tpl := spamTemplate
	if !spam {
		tpl = conversationTemplates[position%len(conversationTemplates)]
	}
	msgs := make([]Message, 0, len(tpl))
	for i, l := range tpl {
		ts, err := time.Parse("2006-01-02T15:04", l.at)
		if err != nil {
			panic(fmt.Sprintf("chatstore: bad fixture time %q: %v", l.at, err))
		}
		msgs = append(msgs, Message{
			ID:        fmt.Sprintf("%s_%d", chatID, i+1),
			ChatID:    chatID,
			Text:      l.text,
			Timestamp: ts,
			Sender:    l.sender,
			Starred:   l.starred,
			Read:      !l.unread,
		})
	}
	return msgs
}

type chatFixture struct {
	id, name, phone, last, label string
	unread                       int
	spam                         bool
}

var activeFixtures = []chatFixture{
	{id: "chat_1", name: "Alice Johnson", phone: "+1 234 567 8901", last: "You're too kind! See you tomorrow!", label: "2m ago", unread: 1},
	{id: "chat_2", name: "Marcus Chen", phone: "+1 345 678 9012", last: "Perfect. Conference room B", label: "15m ago", unread: 2},
	{id: "chat_3", phone: "+1 456 789 0123", last: "This offer expires in 24 hours! Act now!", label: "1h ago", unread: 3, spam: true},
	{id: "chat_4", name: "Emma Rodriguez", phone: "+1 567 890 1234", last: "Sounds like a plan! 🏈", label: "2h ago"},
	{id: "chat_5", name: "David Kim", phone: "+1 678 901 2345", last: "Thanks for the update!", label: "3h ago", unread: 1},
	{id: "chat_6", name: "Sophie Turner", phone: "+1 789 012 3456", last: "I'll send you the files later", label: "5h ago"},
	{id: "chat_7", phone: "+1 890 123 4567", last: "Claim your reward now! Limited time only!", label: "Yesterday", spam: true},
	{id: "chat_8", name: "James Wilson", phone: "+1 901 234 5678", last: "Let me know when you're available", label: "Yesterday"},
	{id: "chat_9", name: "Olivia Brown", phone: "+1 012 345 6789", last: "The project looks great!", label: "2 days ago"},
	{id: "chat_10", name: "Liam Martinez", phone: "+1 123 456 7890", last: "See you at the meeting", label: "3 days ago"},
}

var archivedFixtures = []chatFixture{
	{id: "archived_1", name: "Sarah Williams", phone: "+1 234 567 8900", last: "It was great catching up!", label: "1 week ago"},
	{id: "archived_2", name: "Michael Thompson", phone: "+1 345 678 9001", last: "Thanks for everything!", label: "2 weeks ago"},
	{id: "archived_3", name: "Jessica Davis", phone: "+1 456 789 0102", last: "Let's reconnect soon", label: "3 weeks ago"},
}

// DemoContacts is the contact reference list the store is seeded with.
var DemoContacts = []Contact{
	{ID: "contact_1", Name: "Alice Johnson", Phone: "+1 234 567 8901"},
	{ID: "contact_2", Name: "Bob Smith", Phone: "+1 345 678 9012"},
	{ID: "contact_3", Name: "Carol White", Phone: "+1 456 789 0123"},
	{ID: "contact_4", Name: "David Kim", Phone: "+1 567 890 1234"},
	{ID: "contact_5", Name: "Emma Rodriguez", Phone: "+1 678 901 2345"},
	{ID: "contact_6", Name: "Frank Miller", Phone: "+1 789 012 3456"},
	{ID: "contact_7", Name: "Grace Lee", Phone: "+1 890 123 4567"},
	{ID: "contact_8", Name: "Henry Taylor", Phone: "+1 901 234 5678"},
	{ID: "contact_9", Name: "Isabella Brown", Phone: "+1 012 345 6789"},
	{ID: "contact_10", Name: "James Wilson", Phone: "+1 123 456 7890"},
	{ID: "contact_11", Name: "Karen Anderson", Phone: "+1 234 567 8902"},
	{ID: "contact_12", Name: "Liam Martinez", Phone: "+1 345 678 9013"},
	{ID: "contact_13", Name: "Marcus Chen", Phone: "+1 456 789 0124"},
	{ID: "contact_14", Name: "Nina Patel", Phone: "+1 567 890 1235"},
	{ID: "contact_15", Name: "Olivia Brown", Phone: "+1 678 901 2346"},
}

var demoBlocked = []BlockedContact{
	{ID: "blocked_1", Phone: "+1 555 123 4567", BlockedAt: time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)},
	{ID: "blocked_2", Name: "Spam Caller", Phone: "+1 555 987 6543", BlockedAt: time.Date(2026, time.January, 3, 14, 30, 0, 0, time.UTC)},
}

func buildChats(fixtures []chatFixture, archived bool) []Chat {
	chats := make([]Chat, 0, len(fixtures))
	for i, f := range fixtures {
		chats = append(chats, Chat{
			ID:           f.id,
			ContactName:  f.name,
			ContactPhone: f.phone,
			LastMessage:  f.last,
			TimeLabel:    f.label,
			Unread:       f.unread > 0,
			UnreadCount:  f.unread,
			Spam:         f.spam,
			Archived:     archived,
			Messages:     demoMessages(f.id, i, f.spam),
		})
	}
	return chats
}

// SeedDemo replaces the store contents with the demo fixtures: ten active
// chats (two of them spam), three archived chats, fifteen contacts and two
// blocked contacts.
func SeedDemo(s *Store) {
	s.Load(
		buildChats(activeFixtures, false),
		buildChats(archivedFixtures, true),
		DemoContacts,
		demoBlocked,
	)
}
