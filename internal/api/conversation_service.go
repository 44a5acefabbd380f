package api

import (
	"context"
	"time"

	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/catalog"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/status"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ConversationService serves the chat store over gRPC.
type ConversationService struct {
	store       *chatstore.Store
	machine     *status.Machine
	bus         *bus.Bus
	sessionName string
	startedAt   time.Time
	logger      *zap.Logger
}

// NewConversationService creates the service. machine and logger may be nil.
func NewConversationService(sessionName string, st *chatstore.Store, machine *status.Machine, b *bus.Bus, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		store:       st,
		machine:     machine,
		bus:         b,
		sessionName: sessionName,
		startedAt:   time.Now(),
		logger:      logger,
	}
}

func reply(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

func applied(ok bool) (*structpb.Struct, error) {
	return reply(map[string]any{"applied": ok})
}

func requireString(req *structpb.Struct, key string) (string, error) {
	v := req.GetFields()[key].GetStringValue()
	if v == "" {
		return "", grpcstatus.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}

func optionalString(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func (s *ConversationService) view(c chatstore.Chat) ChatView {
	return ChatView{Chat: c, Pinned: s.store.IsPinned(c.ID), Starred: s.store.IsConversationStarred(c.ID)}
}

func (s *ConversationService) chatList(chats []chatstore.Chat) (*structpb.Struct, error) {
	out := make([]any, 0, len(chats))
	for _, c := range chats {
		out = append(out, EncodeChat(s.view(c), false))
	}
	return reply(map[string]any{"chats": out})
}

// GetSessionStatus reports the daemon state and store counts.
func (s *ConversationService) GetSessionStatus(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	state := status.Booting
	if s.machine != nil {
		state = s.machine.Current()
	}
	st := s.store.Stats()
	return reply(map[string]any{
		"session":       s.sessionName,
		"status":        string(state),
		"uptime_ms":     time.Since(s.startedAt).Milliseconds(),
		"chat_count":    st.ActiveChats + st.ArchivedChats,
		"message_count": st.Messages,
		"notifications": s.store.NotificationsEnabled(),
	})
}

// GetChat returns one chat with its messages.
func (s *ConversationService) GetChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.GetChat(id)
	if !ok {
		return nil, grpcstatus.Errorf(codes.NotFound, "chat %q not found", id)
	}
	return reply(map[string]any{"chat": EncodeChat(s.view(c), true)})
}

func (s *ConversationService) ListActiveChats(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chatList(s.store.ActiveChats())
}

func (s *ConversationService) ListArchivedChats(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chatList(s.store.ArchivedChats())
}

func (s *ConversationService) ListContacts(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	contacts := catalog.FilterContacts(s.store.Contacts(), optionalString(req, "query"))
	return reply(map[string]any{"contacts": encodeList(contacts, EncodeContact)})
}

func (s *ConversationService) ListBlockedContacts(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"blocked": encodeList(s.store.BlockedContacts(), EncodeBlocked)})
}

func (s *ConversationService) IsPinned(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	return reply(map[string]any{"pinned": s.store.IsPinned(id)})
}

func (s *ConversationService) IsConversationStarred(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	return reply(map[string]any{"starred": s.store.IsConversationStarred(id)})
}

func (s *ConversationService) ListStarredMessages(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	starred := s.store.StarredMessages()
	out := make([]any, 0, len(starred))
	for _, sm := range starred {
		out = append(out, map[string]any{
			"chat":    EncodeChat(s.view(sm.Chat), false),
			"message": EncodeMessage(sm.Message),
		})
	}
	return reply(map[string]any{"starred": out})
}

func (s *ConversationService) ListStarredConversations(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chatList(s.store.StarredConversations())
}

func (s *ConversationService) GetNotifications(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"enabled": s.store.NotificationsEnabled()})
}

func (s *ConversationService) SearchChats(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatList(s.store.SearchChats(optionalString(req, "query")))
}

func (s *ConversationService) SearchMessages(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	matches := s.store.SearchMessages(id, optionalString(req, "query"))
	out := make([]any, 0, len(matches))
	for _, m := range matches {
		out = append(out, map[string]any{
			"message": EncodeMessage(m.Message),
			"start":   m.Start,
			"end":     m.End,
		})
	}
	return reply(map[string]any{"matches": out})
}

func (s *ConversationService) GetStats(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(EncodeStats(s.store.Stats()))
}

// SendMessage appends a text message. Empty text is rejected.
func (s *ConversationService) SendMessage(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	text, err := requireString(req, "text")
	if err != nil {
		return nil, err
	}
	m, ok := s.store.SendMessage(id, text)
	if !ok {
		return applied(false)
	}
	return reply(map[string]any{"applied": true, "message": EncodeMessage(m)})
}

// SendAttachment appends a message carrying an attachment.
func (s *ConversationService) SendAttachment(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	raw := req.GetFields()["attachment"].GetStructValue()
	if raw == nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "attachment is required")
	}
	att, err := DecodeAttachment(raw.AsMap())
	if err != nil {
		return nil, grpcstatus.Errorf(codes.InvalidArgument, "attachment: %v", err)
	}
	m, ok := s.store.SendAttachment(id, optionalString(req, "text"), att)
	if !ok {
		return applied(false)
	}
	return reply(map[string]any{"applied": true, "message": EncodeMessage(m)})
}

// chatCommand adapts a store command keyed by chat id.
func (s *ConversationService) chatCommand(req *structpb.Struct, fn func(string)) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	fn(id)
	return applied(true)
}

// messageCommand adapts a store command keyed by chat and message id.
func (s *ConversationService) messageCommand(req *structpb.Struct, fn func(chatID, msgID string)) (*structpb.Struct, error) {
	chatID, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	msgID, err := requireString(req, "message_id")
	if err != nil {
		return nil, err
	}
	fn(chatID, msgID)
	return applied(true)
}

func (s *ConversationService) DeleteChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.DeleteChat)
}

func (s *ConversationService) ArchiveChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.ArchiveChat)
}

func (s *ConversationService) UnarchiveChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.UnarchiveChat)
}

func (s *ConversationService) StarMessage(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.messageCommand(req, s.store.StarMessage)
}

func (s *ConversationService) StarConversation(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	return reply(map[string]any{"applied": true, "starred": s.store.StarConversation(id)})
}

func (s *ConversationService) DeleteMessage(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.messageCommand(req, s.store.DeleteMessage)
}

func (s *ConversationService) MarkAsRead(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.MarkAsRead)
}

func (s *ConversationService) MarkAsUnread(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.MarkAsUnread)
}

func (s *ConversationService) MarkAllAsRead(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.store.MarkAllAsRead()
	return applied(true)
}

func (s *ConversationService) DeleteAllChats(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.store.DeleteAllChats()
	return applied(true)
}

// CreateNewChat opens, or finds, the chat for a contact. The contact may be
// given by id from the contact list, or by name and phone.
func (s *ConversationService) CreateNewChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	contact := chatstore.Contact{
		ID:    optionalString(req, "contact_id"),
		Name:  optionalString(req, "name"),
		Phone: optionalString(req, "phone"),
	}
	if contact.ID != "" && contact.Name == "" && contact.Phone == "" {
		found := false
		for _, c := range s.store.Contacts() {
			if c.ID == contact.ID {
				contact, found = c, true
				break
			}
		}
		if !found {
			return nil, grpcstatus.Errorf(codes.NotFound, "contact %q not found", contact.ID)
		}
	}
	if contact.Name == "" && contact.Phone == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "contact_id, name or phone is required")
	}
	return reply(map[string]any{"chat_id": s.store.CreateNewChat(contact)})
}

func (s *ConversationService) PinChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.PinChat)
}

func (s *ConversationService) UnpinChat(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.chatCommand(req, s.store.UnpinChat)
}

func (s *ConversationService) BlockContact(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "chat_id")
	if err != nil {
		return nil, err
	}
	b, ok := s.store.BlockContact(id)
	if !ok {
		return applied(false)
	}
	return reply(map[string]any{"applied": true, "blocked": EncodeBlocked(b)})
}

func (s *ConversationService) UnblockContact(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireString(req, "blocked_id")
	if err != nil {
		return nil, err
	}
	s.store.UnblockContact(id)
	return applied(true)
}

func (s *ConversationService) ToggleNotifications(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"enabled": s.store.ToggleNotifications()})
}

// ResetDemo reloads the demo data set, discarding every change.
func (s *ConversationService) ResetDemo(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	chatstore.SeedDemo(s.store)
	s.logger.Info("demo data reloaded")
	s.bus.Emit(bus.KindChatsCleared, chatstore.ChangeEvent{})
	return applied(true)
}

func (s *ConversationService) ListGIFs(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"gifs": encodeList(catalog.GIFs(optionalString(req, "query")), EncodeGIF)})
}

func (s *ConversationService) ListImages(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	images := catalog.Images()
	out := make([]any, 0, len(images))
	for _, u := range images {
		out = append(out, u)
	}
	return reply(map[string]any{"images": out})
}

// ListLocations returns picker places. Each entry carries the attachment
// it resolves to, so clients send exactly what the daemon would.
func (s *ConversationService) ListLocations(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	places := catalog.Locations(optionalString(req, "query"))
	out := make([]any, 0, len(places))
	for _, p := range places {
		m := EncodePlace(p)
		m["attachment"] = EncodeAttachment(catalog.ResolveLocation(p))
		out = append(out, m)
	}
	return reply(map[string]any{"locations": out})
}
