package api

import (
	"github.com/google/uuid"
	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/status"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const watchBuffer = 256

// Event is a decoded WatchEvents envelope.
type Event struct {
	ID        string
	Session   string
	Kind      string
	ChatID    string
	MessageID string
	From, To  string // status changes only
}

// EncodeEvent returns the wire envelope for a bus event.
func EncodeEvent(session string, evt bus.Event) map[string]any {
	payload := map[string]any{}
	switch p := evt.Payload.(type) {
	case chatstore.ChangeEvent:
		payload["chat_id"] = p.ChatID
		payload["message_id"] = p.MessageID
	case status.StatusChange:
		payload["from"] = string(p.From)
		payload["to"] = string(p.To)
	}
	return map[string]any{
		"event_id":    uuid.NewString(),
		"session":     session,
		"kind":        evt.Kind,
		"occurred_at": encodeTime(evt.Timestamp),
		"payload":     payload,
	}
}

// DecodeEvent parses a WatchEvents envelope.
func DecodeEvent(m map[string]any) Event {
	p := object(m, "payload")
	return Event{
		ID:        str(m, "event_id"),
		Session:   str(m, "session"),
		Kind:      str(m, "kind"),
		ChatID:    str(p, "chat_id"),
		MessageID: str(p, "message_id"),
		From:      str(p, "from"),
		To:        str(p, "to"),
	}
}

// WatchEvents streams bus events whose kind starts with the requested
// namespace ("" for all) until the client goes away.
func (s *ConversationService) WatchEvents(req *structpb.Struct, stream grpc.ServerStream) error {
	if s.bus == nil {
		return grpcstatus.Error(codes.Unavailable, "event bus not initialized")
	}
	ns := optionalString(req, "namespace")
	ch, unsub := s.bus.Subscribe(ns, watchBuffer)
	defer unsub()

	s.logger.Debug("event watcher attached", zap.String("namespace", ns))
	defer s.logger.Debug("event watcher detached", zap.String("namespace", ns))

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return nil
			}
			out, err := structpb.NewStruct(EncodeEvent(s.sessionName, evt))
			if err != nil {
				return grpcstatus.Errorf(codes.Internal, "encode event: %v", err)
			}
			if err := stream.SendMsg(out); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
