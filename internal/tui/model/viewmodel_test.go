package model

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/status"
	"github.com/matheus3301/securechat/internal/tui/client"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func newTestViewModel(t *testing.T) (*ViewModel, *chatstore.Store) {
	t.Helper()
	vm, st, _ := newTestViewModelServer(t)
	return vm, st
}

func newTestViewModelServer(t *testing.T) (*ViewModel, *chatstore.Store, *grpc.Server) {
	t.Helper()
	b := bus.New()
	st := chatstore.New(chatstore.WithBus(b))
	chatstore.SeedDemo(st)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	api.Register(srv, api.NewConversationService("test", st, status.NewMachine(b), b, nil))
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
	c := client.NewWithConn(conn)
	t.Cleanup(func() { _ = c.Close() })
	return NewViewModel(c), st, srv
}

func TestReloadFillsCollections(t *testing.T) {
	vm, _ := newTestViewModel(t)
	if err := vm.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if n := len(vm.Chats()); n != 10 {
		t.Errorf("chats = %d, want 10", n)
	}
	if n := len(vm.Archived()); n != 3 {
		t.Errorf("archived = %d, want 3", n)
	}
	if n := len(vm.Blocked()); n != 2 {
		t.Errorf("blocked = %d, want 2", n)
	}
	if len(vm.StarredMessages()) == 0 {
		t.Error("no starred messages loaded")
	}
	if vm.Status().ChatCount != 13 {
		t.Errorf("status chat count = %d, want 13", vm.Status().ChatCount)
	}
	select {
	case <-vm.RefreshCh():
	default:
		t.Error("Reload did not signal a refresh")
	}
}

func TestFilter(t *testing.T) {
	vm, _ := newTestViewModel(t)
	ctx := context.Background()
	if err := vm.SetFilter(ctx, "marcus"); err != nil {
		t.Fatal(err)
	}
	chats := vm.Chats()
	if len(chats) != 1 || chats[0].ID != "chat_2" || vm.Filter() != "marcus" {
		t.Errorf("filtered chats = %+v", chats)
	}
	if err := vm.SetFilter(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if len(vm.Chats()) != 10 {
		t.Errorf("cleared filter chats = %d", len(vm.Chats()))
	}
}

func TestOpenMarksRead(t *testing.T) {
	vm, st := newTestViewModel(t)
	ctx := context.Background()
	if err := vm.Open(ctx, "chat_1"); err != nil {
		t.Fatal(err)
	}
	active, ok := vm.Active()
	if !ok || active.ID != "chat_1" || active.Unread || active.UnreadCount != 0 {
		t.Errorf("active = %+v ok=%v", active.Chat, ok)
	}
	if got, _ := st.GetChat("chat_1"); got.Unread {
		t.Error("store chat still unread")
	}
}

func TestActiveClosedWhenDeleted(t *testing.T) {
	vm, _ := newTestViewModel(t)
	ctx := context.Background()
	if err := vm.Open(ctx, "chat_3"); err != nil {
		t.Fatal(err)
	}
	err := vm.Do(ctx, func(ctx context.Context, c *client.Client) error {
		return c.DeleteChat(ctx, "chat_3")
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := vm.Active(); ok {
		t.Error("deleted chat still active")
	}
}

func TestWatchReloads(t *testing.T) {
	vm, st := newTestViewModel(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := vm.Watch(ctx, nil); err != nil {
		t.Fatal(err)
	}

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			if vm.LastEventKind() == bus.KindMessageSent {
				for _, c := range vm.Chats() {
					if c.ID == "chat_5" && c.LastMessage != "ping" {
						t.Errorf("chat_5 preview after event = %q", c.LastMessage)
					}
				}
				return
			}
			st.SendMessage("chat_5", "ping")
		case <-ctx.Done():
			t.Fatal("no reload after store change")
		}
	}
}

func TestWatchingClearsWhenStreamEnds(t *testing.T) {
	vm, _, srv := newTestViewModelServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if vm.Watching() {
		t.Fatal("Watching() before Watch")
	}
	if err := vm.Watch(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if !vm.Watching() {
		t.Fatal("Watching() = false after Watch")
	}
	if err := vm.Watch(ctx, nil); err != nil {
		t.Fatalf("second Watch on live stream: %v", err)
	}

	srv.Stop()

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for vm.Watching() {
		select {
		case <-tick.C:
		case <-ctx.Done():
			t.Fatal("Watching() still true after the daemon went away")
		}
	}
}
