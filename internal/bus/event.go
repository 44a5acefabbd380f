package bus

import "time"

// Event kinds published by the daemon. Subscribers filter by prefix, so the
// part before the first dot doubles as the namespace.
const (
	KindSessionStatusChanged = "session.status_changed"

	KindChatCreated    = "chat.created"
	KindChatUpdated    = "chat.updated"
	KindChatDeleted    = "chat.deleted"
	KindChatArchived   = "chat.archived"
	KindChatUnarchived = "chat.unarchived"
	KindChatPinned     = "chat.pinned"
	KindChatStarred    = "chat.starred"
	KindChatsCleared   = "chat.cleared"

	KindMessageSent    = "message.sent"
	KindMessageStarred = "message.starred"
	KindMessageDeleted = "message.deleted"

	KindContactBlocked   = "contact.blocked"
	KindContactUnblocked = "contact.unblocked"

	KindSettingsChanged = "settings.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Namespace returns the prefix of Kind up to and including the first dot.
func (e Event) Namespace() string {
	for i := 0; i < len(e.Kind); i++ {
		if e.Kind[i] == '.' {
			return e.Kind[:i+1]
		}
	}
	return e.Kind
}
