package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/status"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fixture struct {
	conn    *grpc.ClientConn
	store   *chatstore.Store
	machine *status.Machine
	bus     *bus.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := bus.New()
	st := chatstore.New(chatstore.WithBus(b))
	chatstore.SeedDemo(st)
	m := status.NewMachine(b)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	Register(srv, NewConversationService("test", st, m, b, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &fixture{conn: conn, store: st, machine: m, bus: b}
}

func (f *fixture) invoke(t *testing.T, method string, req map[string]any) (map[string]any, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	if err != nil {
		t.Fatal(err)
	}
	out := new(structpb.Struct)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (f *fixture) mustInvoke(t *testing.T, method string, req map[string]any) map[string]any {
	t.Helper()
	resp, err := f.invoke(t, method, req)
	if err != nil {
		t.Fatalf("%s error = %v", method, err)
	}
	return resp
}

func TestGetSessionStatus(t *testing.T) {
	f := newFixture(t)
	if err := f.machine.Transition(status.Seeding); err != nil {
		t.Fatal(err)
	}
	if err := f.machine.Transition(status.Ready); err != nil {
		t.Fatal(err)
	}

	resp := f.mustInvoke(t, MethodGetSessionStatus, nil)
	if String(resp, "session") != "test" {
		t.Errorf("session = %q, want test", String(resp, "session"))
	}
	if String(resp, "status") != string(status.Ready) {
		t.Errorf("status = %q, want READY", String(resp, "status"))
	}
	if Int(resp, "chat_count") != 13 {
		t.Errorf("chat_count = %d, want 13", Int(resp, "chat_count"))
	}
	if !Bool(resp, "notifications") {
		t.Error("notifications = false, want true")
	}
}

func TestGetChat(t *testing.T) {
	f := newFixture(t)

	resp := f.mustInvoke(t, MethodGetChat, map[string]any{"chat_id": "chat_1"})
	c := DecodeChat(Object(resp, "chat"))
	if c.ContactName != "Alice Johnson" || len(c.Messages) == 0 {
		t.Errorf("chat = %+v", c)
	}
	if c.Messages[0].Timestamp.IsZero() {
		t.Error("message timestamp lost on the wire")
	}

	_, err := f.invoke(t, MethodGetChat, map[string]any{"chat_id": "missing"})
	if grpcstatus.Code(err) != codes.NotFound {
		t.Errorf("missing chat code = %v, want NotFound", grpcstatus.Code(err))
	}

	_, err = f.invoke(t, MethodGetChat, nil)
	if grpcstatus.Code(err) != codes.InvalidArgument {
		t.Errorf("no chat_id code = %v, want InvalidArgument", grpcstatus.Code(err))
	}
}

func TestListActiveChatsCarriesPinned(t *testing.T) {
	f := newFixture(t)
	f.mustInvoke(t, MethodPinChat, map[string]any{"chat_id": "chat_4"})

	resp := f.mustInvoke(t, MethodListActiveChats, nil)
	chats := Objects(resp, "chats")
	if len(chats) != 10 {
		t.Fatalf("chats = %d, want 10", len(chats))
	}
	first := DecodeChat(chats[0])
	if first.ID != "chat_4" || !first.Pinned {
		t.Errorf("first = %s pinned=%v, want chat_4 pinned", first.ID, first.Pinned)
	}
	if _, ok := chats[0]["messages"]; ok {
		t.Error("list entries should not carry messages")
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	f := newFixture(t)

	resp := f.mustInvoke(t, MethodSendMessage, map[string]any{"chat_id": "chat_2", "text": "hello"})
	if !Bool(resp, "applied") {
		t.Fatal("applied = false")
	}
	m := DecodeMessage(Object(resp, "message"))
	if m.Text != "hello" || m.Sender != chatstore.SenderSelf || !m.Read {
		t.Errorf("message = %+v", m)
	}

	c, _ := f.store.GetChat("chat_2")
	if c.LastMessage != "hello" {
		t.Errorf("preview = %q", c.LastMessage)
	}

	resp = f.mustInvoke(t, MethodSendMessage, map[string]any{"chat_id": "missing", "text": "x"})
	if Bool(resp, "applied") {
		t.Error("send to unknown chat applied")
	}

	if _, err := f.invoke(t, MethodSendMessage, map[string]any{"chat_id": "chat_2"}); grpcstatus.Code(err) != codes.InvalidArgument {
		t.Errorf("missing text code = %v, want InvalidArgument", grpcstatus.Code(err))
	}
}

func TestSendAttachment(t *testing.T) {
	f := newFixture(t)

	loc := chatstore.LocationAttachment{Name: "Home", Address: "123 Main", Coordinates: &chatstore.Coordinates{Lat: 1.5, Lng: -2.25}}
	resp := f.mustInvoke(t, MethodSendAttachment, map[string]any{
		"chat_id":    "chat_1",
		"attachment": EncodeAttachment(loc),
	})
	m := DecodeMessage(Object(resp, "message"))
	got, ok := m.Attachment.(chatstore.LocationAttachment)
	if !ok {
		t.Fatalf("attachment = %T, want LocationAttachment", m.Attachment)
	}
	if got.Name != "Home" || got.Coordinates == nil || *got.Coordinates != *loc.Coordinates {
		t.Errorf("attachment = %+v", got)
	}
	if c, _ := f.store.GetChat("chat_1"); c.LastMessage != "📍 Home" {
		t.Errorf("preview = %q", c.LastMessage)
	}

	_, err := f.invoke(t, MethodSendAttachment, map[string]any{
		"chat_id":    "chat_1",
		"attachment": map[string]any{"kind": "video"},
	})
	if grpcstatus.Code(err) != codes.InvalidArgument {
		t.Errorf("bad kind code = %v, want InvalidArgument", grpcstatus.Code(err))
	}
}

func TestCreateNewChatByContactID(t *testing.T) {
	f := newFixture(t)

	resp := f.mustInvoke(t, MethodCreateNewChat, map[string]any{"contact_id": "contact_14"})
	id := String(resp, "chat_id")
	again := String(f.mustInvoke(t, MethodCreateNewChat, map[string]any{"contact_id": "contact_14"}), "chat_id")
	if id == "" || id != again {
		t.Errorf("chat ids = %q, %q; want equal and non-empty", id, again)
	}
	if c, ok := f.store.GetChat(id); !ok || c.ContactName != "Nina Patel" {
		t.Errorf("created chat = %+v", c)
	}

	if _, err := f.invoke(t, MethodCreateNewChat, map[string]any{"contact_id": "nobody"}); grpcstatus.Code(err) != codes.NotFound {
		t.Errorf("unknown contact code = %v, want NotFound", grpcstatus.Code(err))
	}
	if _, err := f.invoke(t, MethodCreateNewChat, nil); grpcstatus.Code(err) != codes.InvalidArgument {
		t.Errorf("empty request code = %v, want InvalidArgument", grpcstatus.Code(err))
	}
}

func TestBlockAndUnblock(t *testing.T) {
	f := newFixture(t)

	resp := f.mustInvoke(t, MethodBlockContact, map[string]any{"chat_id": "chat_5"})
	b := DecodeBlocked(Object(resp, "blocked"))
	if b.Name != "David Kim" || b.BlockedAt.IsZero() {
		t.Errorf("blocked = %+v", b)
	}

	list := Objects(f.mustInvoke(t, MethodListBlockedContacts, nil), "blocked")
	if len(list) != 3 {
		t.Fatalf("blocked list = %d, want 3", len(list))
	}

	f.mustInvoke(t, MethodUnblockContact, map[string]any{"blocked_id": b.ID})
	if n := len(f.store.BlockedContacts()); n != 2 {
		t.Errorf("blocked after unblock = %d, want 2", n)
	}
}

func TestStarredMessagesAndConversations(t *testing.T) {
	f := newFixture(t)

	resp := f.mustInvoke(t, MethodStarConversation, map[string]any{"chat_id": "archived_1"})
	if !Bool(resp, "starred") {
		t.Error("starred = false after first toggle")
	}
	convs := Objects(f.mustInvoke(t, MethodListStarredConversations, nil), "chats")
	if len(convs) != 1 || !DecodeChat(convs[0]).Archived {
		t.Errorf("starred conversations = %v", convs)
	}

	starred := Objects(f.mustInvoke(t, MethodListStarredMessages, nil), "starred")
	if len(starred) != len(f.store.StarredMessages()) {
		t.Errorf("starred messages = %d, want %d", len(starred), len(f.store.StarredMessages()))
	}
}

func TestSearchMessages(t *testing.T) {
	f := newFixture(t)
	resp := f.mustInvoke(t, MethodSearchMessages, map[string]any{"chat_id": "chat_1", "query": "saturday"})
	matches := Objects(resp, "matches")
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	m := DecodeMessage(Object(matches[0], "message"))
	start, end := Int(matches[0], "start"), Int(matches[0], "end")
	if m.Text[start:end] != "Saturday" {
		t.Errorf("highlight = %q", m.Text[start:end])
	}
}

func TestCatalogMethods(t *testing.T) {
	f := newFixture(t)

	if n := len(Objects(f.mustInvoke(t, MethodListGIFs, map[string]any{"query": "party"}), "gifs")); n != 1 {
		t.Errorf("gifs = %d, want 1", n)
	}
	images, _ := f.mustInvoke(t, MethodListImages, nil)["images"].([]any)
	if len(images) != 6 {
		t.Errorf("images = %d, want 6", len(images))
	}
	locs := Objects(f.mustInvoke(t, MethodListLocations, map[string]any{"query": "current"}), "locations")
	if len(locs) != 1 {
		t.Fatalf("locations = %d, want 1", len(locs))
	}
	att, err := DecodeAttachment(Object(locs[0], "attachment"))
	if err != nil {
		t.Fatal(err)
	}
	if loc := att.(chatstore.LocationAttachment); loc.Coordinates == nil || loc.Coordinates.Lat != 40.7128 {
		t.Errorf("current location attachment = %+v", loc)
	}
}

func TestToggleNotificationsAndReset(t *testing.T) {
	f := newFixture(t)

	if Bool(f.mustInvoke(t, MethodToggleNotifications, nil), "enabled") {
		t.Error("enabled = true after toggle")
	}
	if Bool(f.mustInvoke(t, MethodGetNotifications, nil), "enabled") {
		t.Error("GetNotifications = true after toggle")
	}

	f.mustInvoke(t, MethodDeleteAllChats, nil)
	if st := DecodeStats(f.mustInvoke(t, MethodGetStats, nil)); st.ActiveChats != 0 || st.ArchivedChats != 3 {
		t.Errorf("stats after delete all = %+v", st)
	}
	f.mustInvoke(t, MethodResetDemo, nil)
	if st := f.store.Stats(); st.ActiveChats != 10 {
		t.Errorf("active after reset = %d, want 10", st.ActiveChats)
	}
}

func TestWatchEvents(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream, err := f.conn.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod(MethodWatchEvents))
	if err != nil {
		t.Fatal(err)
	}
	req, _ := structpb.NewStruct(map[string]any{"namespace": "chat."})
	if err := stream.SendMsg(req); err != nil {
		t.Fatal(err)
	}
	if err := stream.CloseSend(); err != nil {
		t.Fatal(err)
	}

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for f.bus.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f.store.SendMessage("chat_1", "filtered out")
	f.store.ArchiveChat("chat_1")

	msg := new(structpb.Struct)
	if err := stream.RecvMsg(msg); err != nil {
		t.Fatalf("RecvMsg error = %v", err)
	}
	evt := DecodeEvent(msg.AsMap())
	if evt.Kind != bus.KindChatArchived || evt.ChatID != "chat_1" || evt.Session != "test" || evt.ID == "" {
		t.Errorf("event = %+v", evt)
	}
}

func TestAttachmentCodec(t *testing.T) {
	tests := []chatstore.Attachment{
		chatstore.ImageAttachment{URL: "u"},
		chatstore.GIFAttachment{URL: "g", Category: "love"},
		chatstore.ContactAttachment{Name: "n", Phone: "p"},
		chatstore.LocationAttachment{Name: "Home", Address: "a"},
	}
	for _, att := range tests {
		// Through structpb so numbers take their wire type.
		s, err := structpb.NewStruct(EncodeAttachment(att))
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecodeAttachment(s.AsMap())
		if err != nil {
			t.Fatalf("DecodeAttachment(%s) error = %v", att.Kind(), err)
		}
		if got != att {
			t.Errorf("round trip %s = %#v, want %#v", att.Kind(), got, att)
		}
	}
	if att, err := DecodeAttachment(nil); att != nil || err != nil {
		t.Errorf("DecodeAttachment(nil) = %v, %v", att, err)
	}
}
