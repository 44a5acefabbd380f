package model

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/tui/client"
)

// DefaultTimeout bounds every daemon call made by the view model.
const DefaultTimeout = 5 * time.Second

// ViewModel caches daemon state for the views and signals UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	client  *client.Client
	timeout time.Duration

	status          client.SessionStatus
	stats           chatstore.Stats
	chats           []api.ChatView
	filter          string
	archived        []api.ChatView
	starredMessages []client.StarredMessage
	starredChats    []api.ChatView
	blocked         []chatstore.BlockedContact

	activeID string
	active   api.ChatView
	lastKind string
	watching bool

	refreshCh chan struct{}
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{
		client:    c,
		timeout:   DefaultTimeout,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Client exposes the underlying daemon client for one-off lookups.
func (vm *ViewModel) Client() *client.Client {
	return vm.client
}

// Reload fetches every cached collection. If the open chat disappeared
// (deleted or blocked elsewhere) it is closed.
func (vm *ViewModel) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, vm.timeout)
	defer cancel()

	vm.mu.RLock()
	filter, requested := vm.filter, vm.activeID
	vm.mu.RUnlock()
	activeID := requested

	st, err := vm.client.Status(ctx)
	if err != nil {
		return err
	}
	stats, err := vm.client.Stats(ctx)
	if err != nil {
		return err
	}
	var chats []api.ChatView
	if filter != "" {
		chats, err = vm.client.SearchChats(ctx, filter)
	} else {
		chats, err = vm.client.ActiveChats(ctx)
	}
	if err != nil {
		return err
	}
	archived, err := vm.client.ArchivedChats(ctx)
	if err != nil {
		return err
	}
	starredMsgs, err := vm.client.StarredMessages(ctx)
	if err != nil {
		return err
	}
	starredChats, err := vm.client.StarredConversations(ctx)
	if err != nil {
		return err
	}
	blocked, err := vm.client.BlockedContacts(ctx)
	if err != nil {
		return err
	}

	var active api.ChatView
	if activeID != "" {
		active, err = vm.client.Chat(ctx, activeID)
		if errors.Is(err, client.ErrNotFound) {
			activeID = ""
		} else if err != nil {
			return err
		}
	}

	vm.mu.Lock()
	vm.status = st
	vm.stats = stats
	vm.chats = chats
	vm.archived = archived
	vm.starredMessages = starredMsgs
	vm.starredChats = starredChats
	vm.blocked = blocked
	if vm.activeID == requested {
		vm.activeID = activeID
		vm.active = active
	}
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// SetFilter narrows the conversation list to chats matching query by name
// or message text. An empty query restores the full list.
func (vm *ViewModel) SetFilter(ctx context.Context, query string) error {
	vm.mu.Lock()
	vm.filter = query
	vm.mu.Unlock()
	return vm.Reload(ctx)
}

// Open loads a chat into the thread and marks it read.
func (vm *ViewModel) Open(ctx context.Context, chatID string) error {
	ctx, cancel := context.WithTimeout(ctx, vm.timeout)
	defer cancel()

	if err := vm.client.MarkAsRead(ctx, chatID); err != nil {
		return err
	}
	chat, err := vm.client.Chat(ctx, chatID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.activeID = chatID
	vm.active = chat
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// CloseChat forgets the open chat.
func (vm *ViewModel) CloseChat() {
	vm.mu.Lock()
	vm.activeID = ""
	vm.active = api.ChatView{}
	vm.mu.Unlock()
}

// Do runs fn against the daemon with the call timeout, then reloads.
func (vm *ViewModel) Do(ctx context.Context, fn func(ctx context.Context, c *client.Client) error) error {
	callCtx, cancel := context.WithTimeout(ctx, vm.timeout)
	err := fn(callCtx, vm.client)
	cancel()
	if err != nil {
		return err
	}
	return vm.Reload(ctx)
}

// Watch subscribes to the daemon's event stream and reloads on every event
// until ctx is done or the stream ends. It returns once the subscription is
// established; Watching reports whether it is still live. Calling Watch on a
// live subscription is a no-op.
func (vm *ViewModel) Watch(ctx context.Context, onErr func(error)) error {
	vm.mu.Lock()
	if vm.watching {
		vm.mu.Unlock()
		return nil
	}
	vm.watching = true
	vm.mu.Unlock()

	events, err := vm.client.Watch(ctx, "")
	if err != nil {
		vm.setWatching(false)
		return err
	}
	go func() {
		defer vm.setWatching(false)
		for evt := range events {
			if err := vm.Reload(ctx); err != nil && ctx.Err() == nil && onErr != nil {
				onErr(err)
			}
			vm.mu.Lock()
			vm.lastKind = evt.Kind
			vm.mu.Unlock()
		}
	}()
	return nil
}

func (vm *ViewModel) setWatching(on bool) {
	vm.mu.Lock()
	vm.watching = on
	vm.mu.Unlock()
}

// Watching reports whether an event subscription is live.
func (vm *ViewModel) Watching() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.watching
}

// Status returns the last session status.
func (vm *ViewModel) Status() client.SessionStatus {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}

// Stats returns the last store summary.
func (vm *ViewModel) Stats() chatstore.Stats {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.stats
}

// Chats returns the conversation list, filtered when a filter is set.
func (vm *ViewModel) Chats() []api.ChatView {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chats
}

// Filter returns the active conversation filter.
func (vm *ViewModel) Filter() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.filter
}

// Archived returns the archived chats.
func (vm *ViewModel) Archived() []api.ChatView {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.archived
}

// StarredMessages returns starred messages, newest first.
func (vm *ViewModel) StarredMessages() []client.StarredMessage {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.starredMessages
}

// StarredChats returns the starred conversations.
func (vm *ViewModel) StarredChats() []api.ChatView {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.starredChats
}

// Blocked returns the blocked contacts.
func (vm *ViewModel) Blocked() []chatstore.BlockedContact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.blocked
}

// Active returns the open chat, if any.
func (vm *ViewModel) Active() (api.ChatView, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.active, vm.activeID != ""
}

// LastEventKind returns the kind of the most recent watched event.
func (vm *ViewModel) LastEventKind() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.lastKind
}
