package chatstore

import (
	"slices"

	"github.com/matheus3301/securechat/internal/bus"
	"go.uber.org/zap"
)

// Commands that name an unknown chat, message or blocked contact are silent
// no-ops and publish nothing.

// SendMessage appends a text message from the local user to the chat and
// refreshes its preview. It reports false if the chat does not exist.
func (s *Store) SendMessage(chatID, text string) (Message, bool) {
	return s.send(chatID, text, nil)
}

// SendAttachment is SendMessage with an attachment. When text is empty the
// preview shows the attachment label instead.
func (s *Store) SendAttachment(chatID, text string, att Attachment) (Message, bool) {
	return s.send(chatID, text, att)
}

func (s *Store) send(chatID, text string, att Attachment) (Message, bool) {
	s.mu.Lock()
	c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		return Message{}, false
	}
	m := Message{
		ID:         s.newID("msg"),
		ChatID:     c.ID,
		Text:       text,
		Timestamp:  s.now(),
		Sender:     SenderSelf,
		Read:       true,
		Attachment: cloneAttachment(att),
	}
	c.Messages = append(c.Messages, m)
	c.LastMessage = text
	if text == "" && att != nil {
		c.LastMessage = att.Label()
	}
	c.TimeLabel = JustNow
	s.mu.Unlock()

	s.logger.Debug("message sent", zap.String("chat_id", chatID), zap.String("msg_id", m.ID))
	s.emit(bus.KindMessageSent, ChangeEvent{ChatID: chatID, MessageID: m.ID})
	return m.clone(), true
}

// DeleteChat removes the chat from the active and archived collections and
// from the pinned and starred sets.
func (s *Store) DeleteChat(chatID string) {
	s.mu.Lock()
	removed := s.deleteChat(chatID)
	s.mu.Unlock()

	if removed {
		s.logger.Debug("chat deleted", zap.String("chat_id", chatID))
		s.emit(bus.KindChatDeleted, ChangeEvent{ChatID: chatID})
	}
}

func (s *Store) deleteChat(chatID string) bool {
	before := len(s.active) + len(s.archived)
	s.active = slices.DeleteFunc(s.active, func(c *Chat) bool { return c.ID == chatID })
	s.archived = slices.DeleteFunc(s.archived, func(c *Chat) bool { return c.ID == chatID })
	_, pinned := s.pinned[chatID]
	_, starred := s.starredChats[chatID]
	delete(s.pinned, chatID)
	delete(s.starredChats, chatID)
	return pinned || starred || len(s.active)+len(s.archived) != before
}

// ArchiveChat moves an active chat to the end of the archived collection and
// unpins it.
func (s *Store) ArchiveChat(chatID string) {
	s.mu.Lock()
	i := indexOf(s.active, chatID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	c := s.active[i]
	s.active = slices.Delete(s.active, i, i+1)
	c.Archived = true
	s.archived = append(s.archived, c)
	delete(s.pinned, chatID)
	s.mu.Unlock()

	s.logger.Debug("chat archived", zap.String("chat_id", chatID))
	s.emit(bus.KindChatArchived, ChangeEvent{ChatID: chatID})
}

// UnarchiveChat moves an archived chat to the front of the active collection.
func (s *Store) UnarchiveChat(chatID string) {
	s.mu.Lock()
	i := indexOf(s.archived, chatID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	c := s.archived[i]
	s.archived = slices.Delete(s.archived, i, i+1)
	c.Archived = false
	s.active = slices.Insert(s.active, 0, c)
	s.mu.Unlock()

	s.logger.Debug("chat unarchived", zap.String("chat_id", chatID))
	s.emit(bus.KindChatUnarchived, ChangeEvent{ChatID: chatID})
}

// StarMessage toggles the starred flag of a message.
func (s *Store) StarMessage(chatID, msgID string) {
	s.mu.Lock()
	m := s.findMessage(chatID, msgID)
	if m == nil {
		s.mu.Unlock()
		return
	}
	m.Starred = !m.Starred
	starred := m.Starred
	s.mu.Unlock()

	s.logger.Debug("message star toggled", zap.String("chat_id", chatID), zap.String("msg_id", msgID), zap.Bool("starred", starred))
	s.emit(bus.KindMessageStarred, ChangeEvent{ChatID: chatID, MessageID: msgID})
}

func (s *Store) findMessage(chatID, msgID string) *Message {
	c := s.find(chatID)
	if c == nil {
		return nil
	}
	for i := range c.Messages {
		if c.Messages[i].ID == msgID {
			return &c.Messages[i]
		}
	}
	return nil
}

// StarConversation toggles the chat id in the starred-conversation set. The
// id is not checked against existing chats.
func (s *Store) StarConversation(chatID string) bool {
	s.mu.Lock()
	_, on := s.starredChats[chatID]
	if on {
		delete(s.starredChats, chatID)
	} else {
		s.starredChats[chatID] = struct{}{}
	}
	s.mu.Unlock()

	s.emit(bus.KindChatStarred, ChangeEvent{ChatID: chatID})
	return !on
}

// DeleteMessage removes a message. The chat preview is left as is.
func (s *Store) DeleteMessage(chatID, msgID string) {
	s.mu.Lock()
	c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		return
	}
	n := len(c.Messages)
	c.Messages = slices.DeleteFunc(c.Messages, func(m Message) bool { return m.ID == msgID })
	removed := len(c.Messages) != n
	s.mu.Unlock()

	if removed {
		s.logger.Debug("message deleted", zap.String("chat_id", chatID), zap.String("msg_id", msgID))
		s.emit(bus.KindMessageDeleted, ChangeEvent{ChatID: chatID, MessageID: msgID})
	}
}

// MarkAsRead clears the unread state of a chat and marks every message read.
func (s *Store) MarkAsRead(chatID string) {
	s.mu.Lock()
	c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		return
	}
	markRead(c)
	s.mu.Unlock()

	s.emit(bus.KindChatUpdated, ChangeEvent{ChatID: chatID})
}

func markRead(c *Chat) {
	c.Unread = false
	c.UnreadCount = 0
	for i := range c.Messages {
		c.Messages[i].Read = true
	}
}

// MarkAsUnread flags a chat unread with a count of exactly one. Message read
// flags are not touched.
func (s *Store) MarkAsUnread(chatID string) {
	s.mu.Lock()
	c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		return
	}
	c.Unread = true
	c.UnreadCount = 1
	s.mu.Unlock()

	s.emit(bus.KindChatUpdated, ChangeEvent{ChatID: chatID})
}

// MarkAllAsRead applies MarkAsRead to every active chat.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	for _, c := range s.active {
		markRead(c)
	}
	s.mu.Unlock()

	s.emit(bus.KindChatUpdated, ChangeEvent{})
}

// DeleteAllChats empties the active collection and the pinned set. Archived
// chats and blocked contacts are kept.
func (s *Store) DeleteAllChats() {
	s.mu.Lock()
	n := len(s.active)
	s.active = nil
	clear(s.pinned)
	s.mu.Unlock()

	s.logger.Debug("active chats cleared", zap.Int("count", n))
	s.emit(bus.KindChatsCleared, ChangeEvent{})
}

// CreateNewChat returns the id of the chat whose contact phone or name
// matches contact, creating an empty chat at the front of the active
// collection when none exists.
func (s *Store) CreateNewChat(contact Contact) string {
	s.mu.Lock()
	for _, c := range s.all() {
		if sameContact(c, contact) {
			s.mu.Unlock()
			return c.ID
		}
	}
	c := &Chat{
		ID:           s.newID("chat"),
		ContactName:  contact.Name,
		ContactPhone: contact.Phone,
		TimeLabel:    JustNow,
	}
	s.active = slices.Insert(s.active, 0, c)
	s.mu.Unlock()

	s.logger.Debug("chat created", zap.String("chat_id", c.ID), zap.String("contact", contact.DisplayName()))
	s.emit(bus.KindChatCreated, ChangeEvent{ChatID: c.ID})
	return c.ID
}

// sameContact matches on phone or name. Empty values never match, so an
// unnamed spam chat is not mistaken for another unnamed contact.
func sameContact(c *Chat, contact Contact) bool {
	if contact.Phone != "" && c.ContactPhone == contact.Phone {
		return true
	}
	return contact.Name != "" && c.ContactName == contact.Name
}

// PinChat adds the id to the pinned set. The id is not checked against
// existing chats.
func (s *Store) PinChat(chatID string) {
	s.mu.Lock()
	s.pinned[chatID] = struct{}{}
	s.mu.Unlock()

	s.emit(bus.KindChatPinned, ChangeEvent{ChatID: chatID})
}

// UnpinChat removes the id from the pinned set.
func (s *Store) UnpinChat(chatID string) {
	s.mu.Lock()
	_, ok := s.pinned[chatID]
	delete(s.pinned, chatID)
	s.mu.Unlock()

	if ok {
		s.emit(bus.KindChatPinned, ChangeEvent{ChatID: chatID})
	}
}

// BlockContact records the chat's contact as blocked and deletes the chat.
// It returns the new blocked entry, or false if the chat does not exist.
func (s *Store) BlockContact(chatID string) (BlockedContact, bool) {
	s.mu.Lock()
	c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		return BlockedContact{}, false
	}
	b := BlockedContact{
		ID:        s.newID("blocked"),
		Name:      c.ContactName,
		Phone:     c.ContactPhone,
		BlockedAt: s.now(),
	}
	s.blocked = append(s.blocked, b)
	s.deleteChat(chatID)
	s.mu.Unlock()

	s.logger.Debug("contact blocked", zap.String("chat_id", chatID), zap.String("blocked_id", b.ID))
	s.emit(bus.KindContactBlocked, ChangeEvent{ChatID: chatID})
	s.emit(bus.KindChatDeleted, ChangeEvent{ChatID: chatID})
	return b, true
}

// UnblockContact removes a blocked entry. The deleted chat is not restored.
func (s *Store) UnblockContact(blockedID string) {
	s.mu.Lock()
	n := len(s.blocked)
	s.blocked = slices.DeleteFunc(s.blocked, func(b BlockedContact) bool { return b.ID == blockedID })
	removed := len(s.blocked) != n
	s.mu.Unlock()

	if removed {
		s.logger.Debug("contact unblocked", zap.String("blocked_id", blockedID))
		s.emit(bus.KindContactUnblocked, ChangeEvent{})
	}
}

// ToggleNotifications flips the notifications preference and returns the new value.
func (s *Store) ToggleNotifications() bool {
	s.mu.Lock()
	s.notifications = !s.notifications
	on := s.notifications
	s.mu.Unlock()

	s.logger.Debug("notifications toggled", zap.Bool("enabled", on))
	s.emit(bus.KindSettingsChanged, ChangeEvent{})
	return on
}

func (s *Store) emit(kind string, evt ChangeEvent) {
	s.bus.Emit(kind, evt)
}
