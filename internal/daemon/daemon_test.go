package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/lock"
	"github.com/matheus3301/securechat/internal/status"
	"github.com/matheus3301/securechat/internal/tui/client"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// testParams lays out a session under a short /tmp path so the socket stays
// below the 104-char Unix socket limit on macOS.
func testParams(t *testing.T) Params {
	t.Helper()
	tmpDir, err := os.MkdirTemp("/tmp", "sc-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	return Params{
		SessionName:   "test",
		SessionDir:    filepath.Join(tmpDir, "s"),
		SocketPath:    filepath.Join(tmpDir, "d.sock"),
		LogPath:       filepath.Join(tmpDir, "s", "logs", "securechatd.log"),
		LogLevel:      zapcore.WarnLevel,
		Notifications: true,
	}
}

func dial(t *testing.T, socketPath string) *client.Client {
	t.Helper()
	c, err := client.New(socketPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDaemonLifecycle(t *testing.T) {
	p := testParams(t)
	app := fxtest.New(t, fx.NopLogger, Module(p))
	app.RequireStart()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dial(t, p.SocketPath)
	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Session != "test" {
		t.Errorf("session = %q, want test", st.Session)
	}
	if st.Status != string(status.Ready) {
		t.Errorf("status = %s, want READY", st.Status)
	}

	chats, err := c.ActiveChats(ctx)
	if err != nil {
		t.Fatalf("ActiveChats() error = %v", err)
	}
	if len(chats) != 10 {
		t.Errorf("active chats = %d, want 10", len(chats))
	}

	if _, ok, err := c.SendMessage(ctx, chats[0].ID, "hello"); err != nil || !ok {
		t.Fatalf("SendMessage() = %v, %v", ok, err)
	}
	got, err := c.Chat(ctx, chats[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastMessage != "hello" || got.Messages[len(got.Messages)-1].Text != "hello" {
		t.Errorf("chat after send = %+v", got.Chat)
	}

	info, err := os.Stat(p.SocketPath)
	if err != nil {
		t.Fatalf("socket missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("socket permission = %o, want 0600", perm)
	}

	app.RequireStop()

	if _, err := os.Stat(p.SocketPath); !os.IsNotExist(err) {
		t.Error("socket not removed on stop")
	}
	l, err := lock.Acquire(p.SessionDir)
	if err != nil {
		t.Fatalf("lock not released on stop: %v", err)
	}
	_ = l.Release()
}

// TestSecondDaemonRefused verifies a second daemon for the same session fails
// on the lock and leaves the first one's socket alone.
func TestSecondDaemonRefused(t *testing.T) {
	p := testParams(t)
	first := fxtest.New(t, fx.NopLogger, Module(p))
	first.RequireStart()
	defer first.RequireStop()

	second := fx.New(fx.NopLogger, Module(p))
	if second.Err() == nil {
		t.Fatal("second daemon started on a held session")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := dial(t, p.SocketPath).Status(ctx); err != nil {
		t.Errorf("first daemon unreachable after refused start: %v", err)
	}
}

func TestWatchThroughDaemon(t *testing.T) {
	p := testParams(t)
	app := fxtest.New(t, fx.NopLogger, Module(p))
	app.RequireStart()
	defer app.RequireStop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dial(t, p.SocketPath)

	events, err := c.Watch(ctx, "message.")
	if err != nil {
		t.Fatal(err)
	}

	// The subscription is registered asynchronously; resend until the
	// watcher sees one.
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				t.Fatal("event stream closed")
			}
			if evt.Kind != bus.KindMessageSent || evt.ChatID != "chat_2" {
				t.Errorf("event = %+v", evt)
			}
			return
		case <-tick.C:
			if _, _, err := c.SendMessage(ctx, "chat_2", "ping"); err != nil {
				t.Fatal(err)
			}
		case <-ctx.Done():
			t.Fatal("timeout waiting for message.sent")
		}
	}
}

// TestNewServerUsesParams verifies NewServer honours the socket override.
func TestNewServerUsesParams(t *testing.T) {
	p := testParams(t)
	lk, err := lock.Acquire(p.SessionDir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = lk.Release() }()

	svc := api.NewConversationService(p.SessionName, chatstore.New(), status.NewMachine(nil), bus.New(), nil)
	srv, err := NewServer(p, lk, zap.NewNop(), svc)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.SocketPath() != p.SocketPath {
		t.Errorf("SocketPath() = %q, want %q", srv.SocketPath(), p.SocketPath)
	}
	if _, statErr := os.Stat(p.SocketPath); statErr != nil {
		t.Fatalf("socket not created at %s: %v", p.SocketPath, statErr)
	}

	srv.Stop(context.Background())
}
