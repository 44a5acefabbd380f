package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/catalog"
	"github.com/matheus3301/securechat/internal/chatstore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrNotFound is returned when the daemon reports an unknown chat or contact.
var ErrNotFound = errors.New("not found")

// Client wraps the gRPC connection to the daemon with typed calls.
type Client struct {
	conn *grpc.ClientConn
}

// SessionStatus is the daemon's view of its session.
type SessionStatus struct {
	Session       string
	Status        string
	Uptime        time.Duration
	ChatCount     int
	MessageCount  int
	Notifications bool
}

// StarredMessage pairs a starred message with its chat.
type StarredMessage struct {
	Chat    api.ChatView
	Message chatstore.Message
}

// Location is a picker place with the attachment it resolves to.
type Location struct {
	catalog.Place
	Attachment chatstore.Attachment
}

// New dials the daemon's Unix domain socket.
func New(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	return &Client{conn: conn}, nil
}

// NewWithConn wraps an existing connection. Close closes it.
func NewWithConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, req map[string]any) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, api.FullMethod(method), in, out); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s: %w: %s", method, ErrNotFound, status.Convert(err).Message())
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return api.Fields(out), nil
}

func (c *Client) chats(ctx context.Context, method string, req map[string]any) ([]api.ChatView, error) {
	resp, err := c.call(ctx, method, req)
	if err != nil {
		return nil, err
	}
	objs := api.Objects(resp, "chats")
	out := make([]api.ChatView, 0, len(objs))
	for _, o := range objs {
		out = append(out, api.DecodeChat(o))
	}
	return out, nil
}

func (c *Client) ack(ctx context.Context, method string, req map[string]any) error {
	_, err := c.call(ctx, method, req)
	return err
}

func chatReq(chatID string) map[string]any { return map[string]any{"chat_id": chatID} }

func msgReq(chatID, msgID string) map[string]any {
	return map[string]any{"chat_id": chatID, "message_id": msgID}
}

// Status returns the session status.
func (c *Client) Status(ctx context.Context) (SessionStatus, error) {
	resp, err := c.call(ctx, api.MethodGetSessionStatus, nil)
	if err != nil {
		return SessionStatus{}, err
	}
	return SessionStatus{
		Session:       api.String(resp, "session"),
		Status:        api.String(resp, "status"),
		Uptime:        time.Duration(api.Int(resp, "uptime_ms")) * time.Millisecond,
		ChatCount:     api.Int(resp, "chat_count"),
		MessageCount:  api.Int(resp, "message_count"),
		Notifications: api.Bool(resp, "notifications"),
	}, nil
}

// Chat returns a chat with its messages. Unknown ids yield ErrNotFound.
func (c *Client) Chat(ctx context.Context, chatID string) (api.ChatView, error) {
	resp, err := c.call(ctx, api.MethodGetChat, chatReq(chatID))
	if err != nil {
		return api.ChatView{}, err
	}
	return api.DecodeChat(api.Object(resp, "chat")), nil
}

func (c *Client) ActiveChats(ctx context.Context) ([]api.ChatView, error) {
	return c.chats(ctx, api.MethodListActiveChats, nil)
}

func (c *Client) ArchivedChats(ctx context.Context) ([]api.ChatView, error) {
	return c.chats(ctx, api.MethodListArchivedChats, nil)
}

func (c *Client) StarredConversations(ctx context.Context) ([]api.ChatView, error) {
	return c.chats(ctx, api.MethodListStarredConversations, nil)
}

func (c *Client) SearchChats(ctx context.Context, query string) ([]api.ChatView, error) {
	return c.chats(ctx, api.MethodSearchChats, map[string]any{"query": query})
}

// Contacts returns the contact list filtered by query.
func (c *Client) Contacts(ctx context.Context, query string) ([]chatstore.Contact, error) {
	resp, err := c.call(ctx, api.MethodListContacts, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}
	var out []chatstore.Contact
	for _, o := range api.Objects(resp, "contacts") {
		out = append(out, api.DecodeContact(o))
	}
	return out, nil
}

func (c *Client) BlockedContacts(ctx context.Context) ([]chatstore.BlockedContact, error) {
	resp, err := c.call(ctx, api.MethodListBlockedContacts, nil)
	if err != nil {
		return nil, err
	}
	var out []chatstore.BlockedContact
	for _, o := range api.Objects(resp, "blocked") {
		out = append(out, api.DecodeBlocked(o))
	}
	return out, nil
}

func (c *Client) IsPinned(ctx context.Context, chatID string) (bool, error) {
	resp, err := c.call(ctx, api.MethodIsPinned, chatReq(chatID))
	return api.Bool(resp, "pinned"), err
}

func (c *Client) IsConversationStarred(ctx context.Context, chatID string) (bool, error) {
	resp, err := c.call(ctx, api.MethodIsConversationStarred, chatReq(chatID))
	return api.Bool(resp, "starred"), err
}

func (c *Client) StarredMessages(ctx context.Context) ([]StarredMessage, error) {
	resp, err := c.call(ctx, api.MethodListStarredMessages, nil)
	if err != nil {
		return nil, err
	}
	var out []StarredMessage
	for _, o := range api.Objects(resp, "starred") {
		out = append(out, StarredMessage{
			Chat:    api.DecodeChat(api.Object(o, "chat")),
			Message: api.DecodeMessage(api.Object(o, "message")),
		})
	}
	return out, nil
}

func (c *Client) Notifications(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, api.MethodGetNotifications, nil)
	return api.Bool(resp, "enabled"), err
}

// SearchMessages returns matches within one chat, most recent first.
func (c *Client) SearchMessages(ctx context.Context, chatID, query string) ([]chatstore.MessageMatch, error) {
	resp, err := c.call(ctx, api.MethodSearchMessages, map[string]any{"chat_id": chatID, "query": query})
	if err != nil {
		return nil, err
	}
	var out []chatstore.MessageMatch
	for _, o := range api.Objects(resp, "matches") {
		out = append(out, chatstore.MessageMatch{
			Message: api.DecodeMessage(api.Object(o, "message")),
			Start:   api.Int(o, "start"),
			End:     api.Int(o, "end"),
		})
	}
	return out, nil
}

func (c *Client) Stats(ctx context.Context) (chatstore.Stats, error) {
	resp, err := c.call(ctx, api.MethodGetStats, nil)
	if err != nil {
		return chatstore.Stats{}, err
	}
	return api.DecodeStats(resp), nil
}

// SendMessage sends text to a chat. applied is false for unknown chats.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (m chatstore.Message, applied bool, err error) {
	resp, err := c.call(ctx, api.MethodSendMessage, map[string]any{"chat_id": chatID, "text": text})
	if err != nil {
		return chatstore.Message{}, false, err
	}
	return api.DecodeMessage(api.Object(resp, "message")), api.Bool(resp, "applied"), nil
}

// SendAttachment sends an attachment with optional text.
func (c *Client) SendAttachment(ctx context.Context, chatID, text string, att chatstore.Attachment) (m chatstore.Message, applied bool, err error) {
	resp, err := c.call(ctx, api.MethodSendAttachment, map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"attachment": api.EncodeAttachment(att),
	})
	if err != nil {
		return chatstore.Message{}, false, err
	}
	return api.DecodeMessage(api.Object(resp, "message")), api.Bool(resp, "applied"), nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodDeleteChat, chatReq(chatID))
}

func (c *Client) ArchiveChat(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodArchiveChat, chatReq(chatID))
}

func (c *Client) UnarchiveChat(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodUnarchiveChat, chatReq(chatID))
}

func (c *Client) StarMessage(ctx context.Context, chatID, msgID string) error {
	return c.ack(ctx, api.MethodStarMessage, msgReq(chatID, msgID))
}

// StarConversation toggles the conversation star and returns the new state.
func (c *Client) StarConversation(ctx context.Context, chatID string) (bool, error) {
	resp, err := c.call(ctx, api.MethodStarConversation, chatReq(chatID))
	return api.Bool(resp, "starred"), err
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, msgID string) error {
	return c.ack(ctx, api.MethodDeleteMessage, msgReq(chatID, msgID))
}

func (c *Client) MarkAsRead(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodMarkAsRead, chatReq(chatID))
}

func (c *Client) MarkAsUnread(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodMarkAsUnread, chatReq(chatID))
}

func (c *Client) MarkAllAsRead(ctx context.Context) error {
	return c.ack(ctx, api.MethodMarkAllAsRead, nil)
}

func (c *Client) DeleteAllChats(ctx context.Context) error {
	return c.ack(ctx, api.MethodDeleteAllChats, nil)
}

// CreateNewChat returns the chat id for contact, creating the chat if needed.
func (c *Client) CreateNewChat(ctx context.Context, contact chatstore.Contact) (string, error) {
	resp, err := c.call(ctx, api.MethodCreateNewChat, map[string]any{
		"contact_id": contact.ID,
		"name":       contact.Name,
		"phone":      contact.Phone,
	})
	return api.String(resp, "chat_id"), err
}

func (c *Client) PinChat(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodPinChat, chatReq(chatID))
}

func (c *Client) UnpinChat(ctx context.Context, chatID string) error {
	return c.ack(ctx, api.MethodUnpinChat, chatReq(chatID))
}

// BlockContact blocks the chat's contact and deletes the chat.
func (c *Client) BlockContact(ctx context.Context, chatID string) (b chatstore.BlockedContact, applied bool, err error) {
	resp, err := c.call(ctx, api.MethodBlockContact, chatReq(chatID))
	if err != nil {
		return chatstore.BlockedContact{}, false, err
	}
	return api.DecodeBlocked(api.Object(resp, "blocked")), api.Bool(resp, "applied"), nil
}

func (c *Client) UnblockContact(ctx context.Context, blockedID string) error {
	return c.ack(ctx, api.MethodUnblockContact, map[string]any{"blocked_id": blockedID})
}

// ToggleNotifications flips the preference and returns the new value.
func (c *Client) ToggleNotifications(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, api.MethodToggleNotifications, nil)
	return api.Bool(resp, "enabled"), err
}

// ResetDemo reloads the demo data set.
func (c *Client) ResetDemo(ctx context.Context) error {
	return c.ack(ctx, api.MethodResetDemo, nil)
}

func (c *Client) GIFs(ctx context.Context, query string) ([]catalog.GIF, error) {
	resp, err := c.call(ctx, api.MethodListGIFs, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}
	var out []catalog.GIF
	for _, o := range api.Objects(resp, "gifs") {
		out = append(out, api.DecodeGIF(o))
	}
	return out, nil
}

func (c *Client) Images(ctx context.Context) ([]string, error) {
	resp, err := c.call(ctx, api.MethodListImages, nil)
	if err != nil {
		return nil, err
	}
	raw, _ := resp["images"].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Client) Locations(ctx context.Context, query string) ([]Location, error) {
	resp, err := c.call(ctx, api.MethodListLocations, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}
	var out []Location
	for _, o := range api.Objects(resp, "locations") {
		att, _ := api.DecodeAttachment(api.Object(o, "attachment"))
		out = append(out, Location{Place: api.DecodePlace(o), Attachment: att})
	}
	return out, nil
}

// Watch streams daemon events whose kind starts with namespace ("" for
// all). The channel is closed when ctx is done or the stream ends.
func (c *Client) Watch(ctx context.Context, namespace string) (<-chan api.Event, error) {
	stream, err := c.conn.NewStream(ctx, &api.ServiceDesc.Streams[0], api.FullMethod(api.MethodWatchEvents))
	if err != nil {
		return nil, fmt.Errorf("watch events: %w", err)
	}
	req, err := structpb.NewStruct(map[string]any{"namespace": namespace})
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, fmt.Errorf("watch events: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("watch events: %w", err)
	}

	ch := make(chan api.Event, 64)
	go func() {
		defer close(ch)
		for {
			msg := new(structpb.Struct)
			// io.EOF, cancellation and transport errors all end the watch.
			if err := stream.RecvMsg(msg); err != nil {
				return
			}
			select {
			case ch <- api.DecodeEvent(msg.AsMap()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
