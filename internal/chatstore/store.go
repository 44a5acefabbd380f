// Package chatstore holds the in-memory conversation state of a session:
// active and archived chats, their messages, contacts, blocked contacts and
// the pinned/starred sets derived from them.
//
// A Store is safe for concurrent use. Every command runs under the write lock
// and is therefore an atomic state transition; queries return copies.
package chatstore

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/securechat/internal/bus"
	"go.uber.org/zap"
)

// Store is the conversation store.
type Store struct {
	mu sync.RWMutex

	active   []*Chat
	archived []*Chat
	contacts []Contact
	blocked  []BlockedContact

	pinned       map[string]struct{}
	starredChats map[string]struct{}

	notifications bool

	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
	newID  func(prefix string) string
}

// Option configures a Store.
type Option func(*Store)

// WithBus publishes change events on b after every applied command.
func WithBus(b *bus.Bus) Option {
	return func(s *Store) { s.bus = b }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation. The function receives a prefix
// such as "chat" or "msg" and must return ids unique within the store.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithNotifications sets the initial notifications preference.
func WithNotifications(enabled bool) Option {
	return func(s *Store) { s.notifications = enabled }
}

// New creates an empty store. Notifications start enabled.
func New(opts ...Option) *Store {
	s := &Store{
		pinned:        make(map[string]struct{}),
		starredChats:  make(map[string]struct{}),
		notifications: true,
		logger:        zap.NewNop(),
		now:           time.Now,
		newID:         uuidID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func uuidID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Load replaces the store contents with the given collections. Chats are
// copied; their Archived flag is forced to match the collection they are in.
func (s *Store) Load(active, archived []Chat, contacts []Contact, blocked []BlockedContact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = make([]*Chat, 0, len(active))
	for i := range active {
		c := active[i].clone()
		c.Archived = false
		s.active = append(s.active, &c)
	}
	s.archived = make([]*Chat, 0, len(archived))
	for i := range archived {
		c := archived[i].clone()
		c.Archived = true
		s.archived = append(s.archived, &c)
	}
	s.contacts = slices.Clone(contacts)
	s.blocked = slices.Clone(blocked)
	clear(s.pinned)
	clear(s.starredChats)
}

// GetChat returns the chat with the given id, searching active chats first
// and archived chats second.
func (s *Store) GetChat(id string) (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.find(id); c != nil {
		return c.clone(), true
	}
	return Chat{}, false
}

// ActiveChats returns the active chats with pinned chats first. The relative
// order within the pinned and unpinned groups is storage order.
func (s *Store) ActiveChats() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedActive()
}

func (s *Store) sortedActive() []Chat {
	out := make([]Chat, 0, len(s.active))
	for _, c := range s.active {
		if s.isPinned(c.ID) {
			out = append(out, c.clone())
		}
	}
	for _, c := range s.active {
		if !s.isPinned(c.ID) {
			out = append(out, c.clone())
		}
	}
	return out
}

// ArchivedChats returns archived chats in storage order.
func (s *Store) ArchivedChats() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.archived)
}

// Contacts returns the contact reference list.
func (s *Store) Contacts() []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

// BlockedContacts returns blocked contacts in the order they were blocked.
func (s *Store) BlockedContacts() []BlockedContact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.blocked)
}

// IsPinned reports whether id is in the pinned set.
func (s *Store) IsPinned(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isPinned(id)
}

func (s *Store) isPinned(id string) bool {
	_, ok := s.pinned[id]
	return ok
}

// IsConversationStarred reports whether id is in the starred-conversation set.
func (s *Store) IsConversationStarred(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.starredChats[id]
	return ok
}

// StarredMessages collects every starred message from active and archived
// chats, most recent first.
func (s *Store) StarredMessages() []StarredMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []StarredMessage
	for _, c := range s.all() {
		var snapshot *Chat
		for _, m := range c.Messages {
			if !m.Starred {
				continue
			}
			if snapshot == nil {
				cc := c.clone()
				snapshot = &cc
			}
			out = append(out, StarredMessage{Chat: *snapshot, Message: m.clone()})
		}
	}
	slices.SortStableFunc(out, func(a, b StarredMessage) int {
		return b.Message.Timestamp.Compare(a.Message.Timestamp)
	})
	return out
}

// StarredConversations returns chats, active then archived, whose id is in
// the starred-conversation set.
func (s *Store) StarredConversations() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Chat
	for _, c := range s.all() {
		if _, ok := s.starredChats[c.ID]; ok {
			out = append(out, c.clone())
		}
	}
	return out
}

// NotificationsEnabled returns the notifications preference.
func (s *Store) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications
}

// Stats returns collection counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		ActiveChats:   len(s.active),
		ArchivedChats: len(s.archived),
		Blocked:       len(s.blocked),
	}
	for _, c := range s.all() {
		st.Messages += len(c.Messages)
	}
	for _, c := range s.active {
		if c.Unread {
			st.Unread++
		}
	}
	return st
}

// find locates a chat by id in active, then archived. Caller holds the lock.
func (s *Store) find(id string) *Chat {
	if i := indexOf(s.active, id); i >= 0 {
		return s.active[i]
	}
	if i := indexOf(s.archived, id); i >= 0 {
		return s.archived[i]
	}
	return nil
}

// all returns active followed by archived chats. Caller holds the lock.
func (s *Store) all() []*Chat {
	return append(slices.Clip(s.active), s.archived...)
}

func indexOf(chats []*Chat, id string) int {
	return slices.IndexFunc(chats, func(c *Chat) bool { return c.ID == id })
}

func cloneAll(chats []*Chat) []Chat {
	out := make([]Chat, 0, len(chats))
	for _, c := range chats {
		out = append(out, c.clone())
	}
	return out
}
