package api

import (
	"fmt"
	"time"

	"github.com/matheus3301/securechat/internal/catalog"
	"github.com/matheus3301/securechat/internal/chatstore"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire shapes are plain google.protobuf.Struct values. Encoders build
// map[string]any trees accepted by structpb.NewValue; decoders read the
// trees produced by Struct.AsMap, where every number is a float64.

const timeLayout = time.RFC3339Nano

// ChatView is a chat together with the set memberships the list screens
// render.
type ChatView struct {
	chatstore.Chat
	Pinned  bool
	Starred bool
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func decodeTime(v any) time.Time {
	s, _ := v.(string)
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolean(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func integer(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}

func object(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}

func list(m map[string]any, key string) []map[string]any {
	raw, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if o, ok := v.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

// EncodeAttachment returns the wire form of att, or nil.
func EncodeAttachment(att chatstore.Attachment) map[string]any {
	switch a := att.(type) {
	case chatstore.ImageAttachment:
		return map[string]any{"kind": string(a.Kind()), "url": a.URL}
	case chatstore.GIFAttachment:
		return map[string]any{"kind": string(a.Kind()), "url": a.URL, "category": a.Category}
	case chatstore.ContactAttachment:
		return map[string]any{"kind": string(a.Kind()), "name": a.Name, "phone": a.Phone}
	case chatstore.LocationAttachment:
		m := map[string]any{"kind": string(a.Kind()), "name": a.Name, "address": a.Address}
		if a.Coordinates != nil {
			m["lat"] = a.Coordinates.Lat
			m["lng"] = a.Coordinates.Lng
		}
		return m
	default:
		return nil
	}
}

// DecodeAttachment parses the wire form of an attachment. A nil map yields
// a nil attachment.
func DecodeAttachment(m map[string]any) (chatstore.Attachment, error) {
	if m == nil {
		return nil, nil
	}
	switch chatstore.AttachmentKind(str(m, "kind")) {
	case chatstore.KindImage:
		return chatstore.ImageAttachment{URL: str(m, "url")}, nil
	case chatstore.KindGIF:
		return chatstore.GIFAttachment{URL: str(m, "url"), Category: str(m, "category")}, nil
	case chatstore.KindContact:
		return chatstore.ContactAttachment{Name: str(m, "name"), Phone: str(m, "phone")}, nil
	case chatstore.KindLocation:
		loc := chatstore.LocationAttachment{Name: str(m, "name"), Address: str(m, "address")}
		lat, hasLat := m["lat"].(float64)
		lng, hasLng := m["lng"].(float64)
		if hasLat && hasLng {
			loc.Coordinates = &chatstore.Coordinates{Lat: lat, Lng: lng}
		}
		return loc, nil
	default:
		return nil, fmt.Errorf("unknown attachment kind %q", str(m, "kind"))
	}
}

// EncodeMessage returns the wire form of m.
func EncodeMessage(m chatstore.Message) map[string]any {
	out := map[string]any{
		"id":        m.ID,
		"chat_id":   m.ChatID,
		"text":      m.Text,
		"timestamp": encodeTime(m.Timestamp),
		"sender":    string(m.Sender),
		"starred":   m.Starred,
		"read":      m.Read,
	}
	if att := EncodeAttachment(m.Attachment); att != nil {
		out["attachment"] = att
	}
	return out
}

// DecodeMessage parses the wire form of a message. Unknown attachment kinds
// are dropped.
func DecodeMessage(m map[string]any) chatstore.Message {
	att, _ := DecodeAttachment(object(m, "attachment"))
	return chatstore.Message{
		ID:         str(m, "id"),
		ChatID:     str(m, "chat_id"),
		Text:       str(m, "text"),
		Timestamp:  decodeTime(m["timestamp"]),
		Sender:     chatstore.Sender(str(m, "sender")),
		Starred:    boolean(m, "starred"),
		Read:       boolean(m, "read"),
		Attachment: att,
	}
}

// EncodeChat returns the wire form of a chat. Messages are included only
// when withMessages is set.
func EncodeChat(v ChatView, withMessages bool) map[string]any {
	out := map[string]any{
		"id":            v.ID,
		"contact_name":  v.ContactName,
		"contact_phone": v.ContactPhone,
		"last_message":  v.LastMessage,
		"time_label":    v.TimeLabel,
		"unread":        v.Unread,
		"unread_count":  v.UnreadCount,
		"spam":          v.Spam,
		"archived":      v.Archived,
		"pinned":        v.Pinned,
		"starred":       v.Starred,
		"message_count": len(v.Messages),
	}
	if withMessages {
		msgs := make([]any, 0, len(v.Messages))
		for _, m := range v.Messages {
			msgs = append(msgs, EncodeMessage(m))
		}
		out["messages"] = msgs
	}
	return out
}

// DecodeChat parses the wire form of a chat.
func DecodeChat(m map[string]any) ChatView {
	v := ChatView{
		Chat: chatstore.Chat{
			ID:           str(m, "id"),
			ContactName:  str(m, "contact_name"),
			ContactPhone: str(m, "contact_phone"),
			LastMessage:  str(m, "last_message"),
			TimeLabel:    str(m, "time_label"),
			Unread:       boolean(m, "unread"),
			UnreadCount:  integer(m, "unread_count"),
			Spam:         boolean(m, "spam"),
			Archived:     boolean(m, "archived"),
		},
		Pinned:  boolean(m, "pinned"),
		Starred: boolean(m, "starred"),
	}
	for _, mm := range list(m, "messages") {
		v.Messages = append(v.Messages, DecodeMessage(mm))
	}
	return v
}

// EncodeContact returns the wire form of c.
func EncodeContact(c chatstore.Contact) map[string]any {
	return map[string]any{"id": c.ID, "name": c.Name, "phone": c.Phone}
}

// DecodeContact parses the wire form of a contact.
func DecodeContact(m map[string]any) chatstore.Contact {
	return chatstore.Contact{ID: str(m, "id"), Name: str(m, "name"), Phone: str(m, "phone")}
}

// EncodeBlocked returns the wire form of b.
func EncodeBlocked(b chatstore.BlockedContact) map[string]any {
	return map[string]any{"id": b.ID, "name": b.Name, "phone": b.Phone, "blocked_at": encodeTime(b.BlockedAt)}
}

// DecodeBlocked parses the wire form of a blocked contact.
func DecodeBlocked(m map[string]any) chatstore.BlockedContact {
	return chatstore.BlockedContact{
		ID:        str(m, "id"),
		Name:      str(m, "name"),
		Phone:     str(m, "phone"),
		BlockedAt: decodeTime(m["blocked_at"]),
	}
}

// EncodeStats returns the wire form of st.
func EncodeStats(st chatstore.Stats) map[string]any {
	return map[string]any{
		"active_chats":   st.ActiveChats,
		"archived_chats": st.ArchivedChats,
		"blocked":        st.Blocked,
		"messages":       st.Messages,
		"unread":         st.Unread,
	}
}

// DecodeStats parses the wire form of store stats.
func DecodeStats(m map[string]any) chatstore.Stats {
	return chatstore.Stats{
		ActiveChats:   integer(m, "active_chats"),
		ArchivedChats: integer(m, "archived_chats"),
		Blocked:       integer(m, "blocked"),
		Messages:      integer(m, "messages"),
		Unread:        integer(m, "unread"),
	}
}

// EncodePlace returns the wire form of a picker location.
func EncodePlace(p catalog.Place) map[string]any {
	return map[string]any{"name": p.Name, "address": p.Address, "current": p.Current}
}

// DecodePlace parses the wire form of a picker location.
func DecodePlace(m map[string]any) catalog.Place {
	return catalog.Place{Name: str(m, "name"), Address: str(m, "address"), Current: boolean(m, "current")}
}

// EncodeGIF returns the wire form of a picker GIF.
func EncodeGIF(g catalog.GIF) map[string]any {
	return map[string]any{"url": g.URL, "category": g.Category}
}

// DecodeGIF parses the wire form of a picker GIF.
func DecodeGIF(m map[string]any) catalog.GIF {
	return catalog.GIF{URL: str(m, "url"), Category: str(m, "category")}
}

// Fields returns the decoded top-level fields of s; nil is treated as empty.
func Fields(s *structpb.Struct) map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return s.AsMap()
}

// Objects reads a list of objects stored under key.
func Objects(m map[string]any, key string) []map[string]any {
	return list(m, key)
}

// Object reads a nested object stored under key.
func Object(m map[string]any, key string) map[string]any {
	return object(m, key)
}

// String, Bool and Int read scalar fields from a decoded struct.
func String(m map[string]any, key string) string { return str(m, key) }
func Bool(m map[string]any, key string) bool     { return boolean(m, key) }
func Int(m map[string]any, key string) int       { return integer(m, key) }

// Time reads an RFC 3339 timestamp field.
func Time(m map[string]any, key string) time.Time { return decodeTime(m[key]) }

// NewStruct wraps structpb.NewStruct.
func NewStruct(m map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(m)
}

func encodeList[T any](items []T, enc func(T) map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, enc(it))
	}
	return out
}
