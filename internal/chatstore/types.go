package chatstore

import (
	"fmt"
	"time"
)

// Sender tags who wrote a message.
type Sender string

const (
	SenderSelf Sender = "self"
	SenderPeer Sender = "peer"
)

// JustNow is the relative timestamp label given to freshly touched chats.
const JustNow = "Just now"

// Contact is immutable reference data for someone a chat can be started with.
type Contact struct {
	ID    string
	Name  string
	Phone string
}

// DisplayName returns the name, falling back to the phone number.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Phone
}

// Message belongs to exactly one chat.
type Message struct {
	ID         string
	ChatID     string
	Text       string
	Timestamp  time.Time
	Sender     Sender
	Starred    bool
	Read       bool
	Attachment Attachment // nil when the message is text only
}

// FromSelf reports whether the local user sent the message.
func (m Message) FromSelf() bool { return m.Sender == SenderSelf }

// Chat is a conversation with one contact. Messages are in append order.
type Chat struct {
	ID           string
	ContactName  string
	ContactPhone string
	LastMessage  string
	TimeLabel    string
	Unread       bool
	UnreadCount  int
	Spam         bool
	Archived     bool
	Messages     []Message
}

// DisplayName returns the contact name, falling back to the phone number.
func (c Chat) DisplayName() string {
	if c.ContactName != "" {
		return c.ContactName
	}
	return c.ContactPhone
}

// Message returns the message with the given id.
func (c Chat) Message(id string) (Message, bool) {
	for _, m := range c.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

func (c *Chat) clone() Chat {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m.clone()
	}
	return out
}

func (m Message) clone() Message {
	m.Attachment = cloneAttachment(m.Attachment)
	return m
}

// cloneAttachment copies the pointer-held parts of att.
func cloneAttachment(att Attachment) Attachment {
	if loc, ok := att.(LocationAttachment); ok && loc.Coordinates != nil {
		coords := *loc.Coordinates
		loc.Coordinates = &coords
		return loc
	}
	return att
}

// BlockedContact records a contact removed through the block action.
type BlockedContact struct {
	ID        string
	Name      string
	Phone     string
	BlockedAt time.Time
}

// DisplayName returns the name, falling back to the phone number.
func (b BlockedContact) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Phone
}

// StarredMessage pairs a starred message with the chat that owns it.
type StarredMessage struct {
	Chat    Chat
	Message Message
}

// MessageMatch is a search hit inside a chat's message list.
// Start and End are byte offsets of the match in Message.Text.
type MessageMatch struct {
	Message Message
	Start   int
	End     int
}

// Stats summarizes the store contents.
type Stats struct {
	ActiveChats   int
	ArchivedChats int
	Blocked       int
	Messages      int
	Unread        int
}

// ChangeEvent is the bus payload for store mutations.
type ChangeEvent struct {
	ChatID    string
	MessageID string
}

// AttachmentKind names the active variant of an Attachment.
type AttachmentKind string

const (
	KindImage    AttachmentKind = "image"
	KindGIF      AttachmentKind = "gif"
	KindContact  AttachmentKind = "contact"
	KindLocation AttachmentKind = "location"
)

// Attachment is a non-text payload. Exactly one of ImageAttachment,
// GIFAttachment, ContactAttachment or LocationAttachment.
type Attachment interface {
	Kind() AttachmentKind
	// Label is the short preview text shown in the conversation list.
	Label() string
	isAttachment()
}

// ImageAttachment references an image by URL.
type ImageAttachment struct {
	URL string
}

func (ImageAttachment) Kind() AttachmentKind { return KindImage }
func (ImageAttachment) Label() string        { return "📷 Photo" }
func (ImageAttachment) isAttachment()        {}

// GIFAttachment references an animated GIF by URL.
type GIFAttachment struct {
	URL      string
	Category string
}

func (GIFAttachment) Kind() AttachmentKind { return KindGIF }
func (GIFAttachment) Label() string        { return "GIF" }
func (GIFAttachment) isAttachment()        {}

// ContactAttachment is a shared contact card.
type ContactAttachment struct {
	Name  string
	Phone string
}

func (ContactAttachment) Kind() AttachmentKind { return KindContact }
func (a ContactAttachment) Label() string {
	name := a.Name
	if name == "" {
		name = a.Phone
	}
	return "👤 " + name
}
func (ContactAttachment) isAttachment() {}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// LocationAttachment is a shared place.
type LocationAttachment struct {
	Name        string
	Address     string
	Coordinates *Coordinates
}

func (LocationAttachment) Kind() AttachmentKind { return KindLocation }
func (a LocationAttachment) Label() string      { return "📍 " + a.Name }
func (LocationAttachment) isAttachment()        {}
