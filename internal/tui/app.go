package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/catalog"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/config"
	"github.com/matheus3301/securechat/internal/tui/client"
	"github.com/matheus3301/securechat/internal/tui/keys"
	"github.com/matheus3301/securechat/internal/tui/model"
	"github.com/matheus3301/securechat/internal/tui/ui"
	"github.com/matheus3301/securechat/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page ids. Breadcrumbs show the component names instead.
const (
	pageChats     = "chats"
	pageArchived  = "archived"
	pageStarred   = "starred"
	pageBlocked   = "blocked"
	pageNewChat   = "new"
	pageThread    = "thread"
	pageDetails   = "details"
	pageImages    = "images"
	pageGIFs      = "gifs"
	pageLocations = "locations"
	pageContacts  = "contacts"
	pageSettings  = "settings"
	pageHelp      = "help"
)

// pollInterval is the reload period used when the event stream is down.
const pollInterval = 5 * time.Second

// Options configures the TUI.
type Options struct {
	Session    string
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	vm       *model.ViewModel
	registry *keys.Registry
	flash    *ui.FlashModel
	opts     Options
	logger   *zap.Logger
	theme    *ui.Theme
	ctx      context.Context
	cancel   context.CancelFunc

	root       *tview.Flex
	body       *tview.Flex
	pages      *ui.Pages
	components map[string]ui.Component
	info       *ui.SessionInfo
	menu       *ui.Menu
	crumbs     *ui.Crumbs
	prompt     *ui.Prompt
	flashBar   *ui.FlashBar
	promptOn   bool

	chats     *views.ConversationList
	archived  *views.ConversationList
	starred   *views.StarredView
	blocked   *views.BlockedList
	newChat   *views.Picker
	thread    *views.MessageThread
	details   *views.ConversationInfo
	images    *views.Picker
	gifs      *views.Picker
	locations *views.Picker
	contacts  *views.Picker
	settings  *views.SettingsView
	help      *views.HelpView

	// Picker results backing the rows currently listed.
	contactResults  []chatstore.Contact
	imageResults    []string
	gifResults      []catalog.GIF
	locationResults []client.Location
	// attachFor is the chat the attachment pickers send to.
	attachFor string
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:      tview.NewApplication(),
		vm:       model.NewViewModel(c),
		registry: keys.NewRegistry(),
		flash:    ui.NewFlashModel(),
		opts:     opts,
		logger:   opts.Logger,
		theme:    ui.ResolveTheme(opts.Config.Theme, os.Getenv("COLORFGBG")),
		ctx:      ctx,
		cancel:   cancel,
	}

	a.setupBindings()
	a.build([]string{pageChats})
	return a
}

// build constructs every widget for the current theme and restores stack.
func (a *App) build(stack []string) {
	t := a.theme
	focus := func(p tview.Primitive) { a.app.SetFocus(p) }

	a.info = ui.NewSessionInfo(t)
	a.menu = ui.NewMenu(t)
	a.crumbs = ui.NewCrumbs(t)
	a.prompt = ui.NewPrompt(t)
	a.flashBar = ui.NewFlashBar(t)
	a.pages = ui.NewPages()

	a.chats = views.NewConversationList(t, "Conversations")
	a.archived = views.NewConversationList(t, "Archived")
	a.starred = views.NewStarredView(t)
	a.blocked = views.NewBlockedList(t)
	a.newChat = views.NewPicker(t, "New chat", focus)
	a.thread = views.NewMessageThread(t)
	a.details = views.NewConversationInfo(t)
	a.images = views.NewPicker(t, "Images", focus)
	a.gifs = views.NewPicker(t, "GIFs", focus)
	a.locations = views.NewPicker(t, "Locations", focus)
	a.contacts = views.NewPicker(t, "Share contact", focus)
	a.settings = views.NewSettingsView(t)
	a.help = views.NewHelpView(t)

	a.components = map[string]ui.Component{
		pageChats:     a.chats,
		pageArchived:  a.archived,
		pageStarred:   a.starred,
		pageBlocked:   a.blocked,
		pageNewChat:   a.newChat,
		pageThread:    a.thread,
		pageDetails:   a.details,
		pageImages:    a.images,
		pageGIFs:      a.gifs,
		pageLocations: a.locations,
		pageContacts:  a.contacts,
		pageSettings:  a.settings,
		pageHelp:      a.help,
	}
	for id, c := range a.components {
		a.pages.AddPage(id, c, true, false)
	}
	a.pages.SetOnChange(a.onStackChange)

	a.setupCallbacks()

	header := tview.NewFlex().
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(t), 14, 0, false)
	header.SetBackgroundColor(t.BgColor)

	a.body = tview.NewFlex().SetDirection(tview.FlexRow)
	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)
	a.root.SetBackgroundColor(t.BgColor)
	a.layoutBody()

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.captureInput)

	a.pages.Reset(stack[0])
	for _, id := range stack[1:] {
		a.pages.Push(id)
	}
	a.render()
}

func (a *App) layoutBody() {
	a.body.Clear()
	if a.promptOn {
		a.body.AddItem(a.prompt, 3, 0, true)
	}
	a.body.AddItem(a.pages, 0, 1, !a.promptOn)
}

func (a *App) onStackChange(stack []string) {
	labels := make([]string, len(stack))
	for i, id := range stack {
		labels[i] = a.components[id].Name()
	}
	a.crumbs.Update(labels)
	a.updateMenu()
	if comp, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(comp.FocusTarget())
	}
}

func (a *App) updateMenu() {
	id := a.pages.Current()
	comp, ok := a.components[id]
	if !ok {
		return
	}
	a.menu.Update(append(comp.Hints(), a.registry.Hints(id)...))
}

func (a *App) setupCallbacks() {
	a.chats.SetSelectedFunc(func(_, _ int) { a.openChat(a.chats.SelectedChat(), "") })
	a.archived.SetSelectedFunc(func(_, _ int) { a.openChat(a.archived.SelectedChat(), "") })

	a.thread.SetOnSend(func(text string) {
		chatID := a.thread.ChatID()
		a.run("send", func(ctx context.Context, c *client.Client) error {
			_, ok, err := c.SendMessage(ctx, chatID, text)
			if err == nil && !ok {
				err = errors.New("chat no longer exists")
			}
			return err
		})
	})
	a.thread.SetOnExitComposer(func() { a.app.SetFocus(a.thread.Messages()) })

	a.newChat.SetOnQuery(func(q string) { a.loadContacts(a.newChat, q) })
	a.newChat.SetOnSelect(func(i int) {
		contact := a.contactResults[i]
		go func() {
			id, err := a.vm.Client().CreateNewChat(a.ctx, contact)
			if err != nil {
				a.flash.Err(err)
				return
			}
			_ = a.vm.Reload(a.ctx)
			a.app.QueueUpdateDraw(func() {
				a.pages.Pop()
				a.openChat(id, "")
			})
		}()
	})

	a.contacts.SetOnQuery(func(q string) { a.loadContacts(a.contacts, q) })
	a.contacts.SetOnSelect(func(i int) {
		a.sendAttachment(catalog.ContactCard(a.contactResults[i]))
	})

	a.images.SetOnQuery(func(q string) { a.filterImages(q) })
	a.images.SetOnSelect(func(i int) { a.sendAttachment(catalog.Image(a.imageResults[i])) })

	a.gifs.SetOnQuery(func(q string) { a.loadGIFs(q) })
	a.gifs.SetOnSelect(func(i int) { a.sendAttachment(a.gifResults[i].Attachment()) })

	a.locations.SetOnQuery(func(q string) { a.loadLocations(q) })
	a.locations.SetOnSelect(func(i int) { a.sendAttachment(a.locationResults[i].Attachment) })

	a.settings.SetOnActivate(a.activateSetting)

	a.prompt.SetOnSubmit(a.submitPrompt)
	a.prompt.SetOnCancel(a.closePrompt)
}

func (a *App) setupBindings() {
	r := a.registry
	rk := func(ch rune, desc string, fn func()) *keys.Action {
		return &keys.Action{Key: tcell.KeyRune, Rune: ch, Description: desc, Handler: fn, Visible: true}
	}
	hidden := func(ch rune, fn func()) *keys.Action {
		return &keys.Action{Key: tcell.KeyRune, Rune: ch, Handler: fn}
	}

	r.AddGlobal(rk(':', "Command", func() { a.openPrompt(ui.PromptCommand) }))
	r.AddGlobal(rk('?', "Help", func() { a.pages.Push(pageHelp) }))
	r.AddGlobal(rk('q', "Back/Quit", a.back))
	r.AddGlobal(&keys.Action{Key: tcell.KeyEscape, Handler: a.back})

	// Conversation list.
	r.AddView(pageChats, rk('/', "Filter", func() { a.openPrompt(ui.PromptFilter) }))
	r.AddView(pageChats, rk('n', "New chat", a.openNewChat))
	r.AddView(pageChats, rk('p', "Pin/unpin", func() { a.togglePin(a.chats.SelectedChat()) }))
	r.AddView(pageChats, rk('S', "Star chat", func() { a.toggleStarChat(a.chats.SelectedChat()) }))
	r.AddView(pageChats, rk('a', "Archive", func() { a.archive(a.chats.SelectedChat()) }))
	r.AddView(pageChats, rk('r', "Mark read", func() { a.markRead(a.chats.SelectedChat(), true) }))
	r.AddView(pageChats, rk('u', "Mark unread", func() { a.markRead(a.chats.SelectedChat(), false) }))
	r.AddView(pageChats, rk('R', "Read all", a.markAllRead))
	r.AddView(pageChats, rk('B', "Block", func() { a.block(a.chats.SelectedChat()) }))
	r.AddView(pageChats, rk('D', "Delete", func() { a.deleteChat(a.chats.SelectedChat()) }))
	r.AddView(pageChats, rk('A', "Archived", func() { a.pages.Push(pageArchived) }))
	r.AddView(pageChats, rk('*', "Starred", func() { a.pages.Push(pageStarred) }))
	r.AddView(pageChats, rk('b', "Blocked", func() { a.pages.Push(pageBlocked) }))
	r.AddView(pageChats, rk(',', "Settings", func() { a.pages.Push(pageSettings) }))
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: '0', Label: "0-9", Description: "Clear/Jump", Visible: true,
		Handler: func() { a.applyFilter("") }})
	for n := 1; n <= 9; n++ {
		r.AddView(pageChats, hidden(rune('0'+n), func() { a.openChat(a.chats.ChatByIndex(n), "") }))
	}

	// Archived.
	r.AddView(pageArchived, rk('a', "Unarchive", func() { a.unarchive(a.archived.SelectedChat()) }))
	r.AddView(pageArchived, rk('D', "Delete", func() { a.deleteChat(a.archived.SelectedChat()) }))

	// Starred.
	r.AddView(pageStarred, &keys.Action{Key: tcell.KeyTab, Label: "Tab", Description: "Messages/chats", Visible: true,
		Handler: func() { a.app.SetFocus(a.starred.ToggleFocus()) }})
	r.AddView(pageStarred, &keys.Action{Key: tcell.KeyEnter, Handler: a.openStarred})
	r.AddView(pageStarred, rk('s', "Unstar", a.unstarFromStarred))

	// Blocked.
	r.AddView(pageBlocked, rk('u', "Unblock", a.unblockSelected))

	// Thread.
	r.AddView(pageThread, rk('i', "Compose", func() { a.app.SetFocus(a.thread.Composer()) }))
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'j', Label: "j/k", Description: "Select", Visible: true, Handler: func() { a.thread.SelectNext() }})
	r.AddView(pageThread, hidden('k', func() { a.thread.SelectPrev() }))
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyDown, Handler: func() { a.thread.SelectNext() }})
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyUp, Handler: func() { a.thread.SelectPrev() }})
	r.AddView(pageThread, rk('s', "Star msg", a.toggleStarMessage))
	r.AddView(pageThread, rk('x', "Delete msg", a.deleteMessage))
	r.AddView(pageThread, rk('/', "Search", func() { a.openPrompt(ui.PromptSearch) }))
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'n', Label: "n/N", Description: "Next/prev hit", Visible: true,
		Handler: func() { a.nextMatch(1) }})
	r.AddView(pageThread, hidden('N', func() { a.nextMatch(-1) }))
	r.AddView(pageThread, rk('I', "Image", func() { a.openAttachPicker(pageImages) }))
	r.AddView(pageThread, rk('g', "GIF", func() { a.openAttachPicker(pageGIFs) }))
	r.AddView(pageThread, rk('l', "Location", func() { a.openAttachPicker(pageLocations) }))
	r.AddView(pageThread, rk('c', "Contact", func() { a.openAttachPicker(pageContacts) }))
	r.AddView(pageThread, rk('d', "Details", a.openDetails))
	r.AddView(pageThread, hidden('p', func() { a.togglePin(a.thread.ChatID()) }))
	r.AddView(pageThread, hidden('S', func() { a.toggleStarChat(a.thread.ChatID()) }))
	r.AddView(pageThread, hidden('u', func() { a.markRead(a.thread.ChatID(), false) }))

	// Details.
	r.AddView(pageDetails, rk('p', "Pin/unpin", func() { a.togglePin(a.thread.ChatID()) }))
	r.AddView(pageDetails, rk('S', "Star chat", func() { a.toggleStarChat(a.thread.ChatID()) }))
	r.AddView(pageDetails, rk('a', "(Un)archive", a.toggleArchiveActive))
	r.AddView(pageDetails, rk('B', "Block", func() { a.block(a.thread.ChatID()) }))
	r.AddView(pageDetails, rk('D', "Delete", func() { a.deleteChat(a.thread.ChatID()) }))
}

func (a *App) captureInput(event *tcell.EventKey) *tcell.EventKey {
	if a.promptOn {
		return event
	}
	// Text inputs keep their keys. Esc leaves a picker; the composer
	// handles it through its done func.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		if event.Key() == tcell.KeyEscape && a.pages.Current() != pageThread {
			a.back()
			return nil
		}
		return event
	}

	if event.Key() == tcell.KeyTab {
		if p, ok := a.components[a.pages.Current()].(*views.Picker); ok {
			a.app.SetFocus(p.Input())
			return nil
		}
	}

	if a.registry.HandleEvent(a.pages.Current(), event) {
		return nil
	}
	return event
}

// back pops the page stack, or quits from the root page.
func (a *App) back() {
	if a.pages.Depth() <= 1 {
		if a.vm.Filter() != "" {
			a.applyFilter("")
			return
		}
		a.Stop()
		return
	}
	if a.pages.Pop() == pageThread {
		a.vm.CloseChat()
	}
}

// run executes fn against the daemon off the UI goroutine, flashing errors.
func (a *App) run(what string, fn func(ctx context.Context, c *client.Client) error) {
	go func() {
		if err := a.vm.Do(a.ctx, fn); err != nil {
			a.logger.Warn("command failed", zap.String("command", what), zap.Error(err))
			a.flash.Err(fmt.Errorf("%s: %w", what, err))
		}
	}()
}

func (a *App) openChat(chatID, highlightMsgID string) {
	if chatID == "" {
		return
	}
	go func() {
		if err := a.vm.Open(a.ctx, chatID); err != nil {
			a.flash.Err(err)
			return
		}
		chat, _ := a.vm.Active()
		a.app.QueueUpdateDraw(func() {
			a.thread.Update(chat)
			if highlightMsgID != "" && !a.thread.HighlightMessage(highlightMsgID) {
				a.flash.Warn("message no longer exists")
			}
			if a.pages.Current() == pageThread {
				a.onStackChange(a.pages.Stack())
			} else {
				a.pages.Push(pageThread)
			}
		})
		_ = a.vm.Reload(a.ctx)
	}()
}

func (a *App) openDetails() {
	a.details.Update(a.thread.Chat())
	a.pages.Push(pageDetails)
}

func (a *App) openStarred() {
	if a.starred.OnChats() {
		a.openChat(a.starred.SelectedChat(), "")
		return
	}
	chatID, msgID := a.starred.SelectedMessage()
	a.openChat(chatID, msgID)
}

func (a *App) unstarFromStarred() {
	chatID, msgID := a.starred.SelectedMessage()
	if a.starred.OnChats() {
		a.toggleStarChat(a.starred.SelectedChat())
		return
	}
	if msgID == "" {
		return
	}
	a.run("unstar", func(ctx context.Context, c *client.Client) error {
		return c.StarMessage(ctx, chatID, msgID)
	})
}

func (a *App) togglePin(chatID string) {
	if chatID == "" {
		return
	}
	a.run("pin", func(ctx context.Context, c *client.Client) error {
		pinned, err := c.IsPinned(ctx, chatID)
		if err != nil {
			return err
		}
		if pinned {
			a.flash.Info("Unpinned")
			return c.UnpinChat(ctx, chatID)
		}
		a.flash.Info("Pinned")
		return c.PinChat(ctx, chatID)
	})
}

func (a *App) toggleStarChat(chatID string) {
	if chatID == "" {
		return
	}
	a.run("star", func(ctx context.Context, c *client.Client) error {
		starred, err := c.StarConversation(ctx, chatID)
		if err == nil {
			if starred {
				a.flash.Info("Conversation starred")
			} else {
				a.flash.Info("Conversation unstarred")
			}
		}
		return err
	})
}

func (a *App) archive(chatID string) {
	if chatID == "" {
		return
	}
	a.run("archive", func(ctx context.Context, c *client.Client) error {
		a.flash.Info("Archived")
		return c.ArchiveChat(ctx, chatID)
	})
}

func (a *App) unarchive(chatID string) {
	if chatID == "" {
		return
	}
	a.run("unarchive", func(ctx context.Context, c *client.Client) error {
		a.flash.Info("Moved back to conversations")
		return c.UnarchiveChat(ctx, chatID)
	})
}

func (a *App) toggleArchiveActive() {
	chat := a.thread.Chat()
	if chat.Archived {
		a.unarchive(chat.ID)
	} else {
		a.archive(chat.ID)
	}
}

func (a *App) markRead(chatID string, read bool) {
	if chatID == "" {
		return
	}
	a.run("mark", func(ctx context.Context, c *client.Client) error {
		if read {
			return c.MarkAsRead(ctx, chatID)
		}
		return c.MarkAsUnread(ctx, chatID)
	})
}

func (a *App) markAllRead() {
	a.run("mark all read", func(ctx context.Context, c *client.Client) error {
		a.flash.Info("All chats marked as read")
		return c.MarkAllAsRead(ctx)
	})
}

func (a *App) block(chatID string) {
	if chatID == "" {
		return
	}
	leaving := chatID == a.thread.ChatID()
	a.run("block", func(ctx context.Context, c *client.Client) error {
		b, ok, err := c.BlockContact(ctx, chatID)
		if err == nil && ok {
			a.flash.Infof("Blocked %s", b.DisplayName())
			if leaving {
				a.leaveThread()
			}
		}
		return err
	})
}

func (a *App) deleteChat(chatID string) {
	if chatID == "" {
		return
	}
	leaving := chatID == a.thread.ChatID()
	a.run("delete", func(ctx context.Context, c *client.Client) error {
		if err := c.DeleteChat(ctx, chatID); err != nil {
			return err
		}
		a.flash.Info("Chat deleted")
		if leaving {
			a.leaveThread()
		}
		return nil
	})
}

// leaveThread drops the thread and anything above it from the stack.
func (a *App) leaveThread() {
	a.app.QueueUpdateDraw(func() {
		for a.pages.Contains(pageThread) && a.pages.Depth() > 1 {
			a.pages.Pop()
		}
		a.vm.CloseChat()
	})
}

func (a *App) unblockSelected() {
	b, ok := a.blocked.Selected()
	if !ok {
		return
	}
	a.run("unblock", func(ctx context.Context, c *client.Client) error {
		a.flash.Infof("Unblocked %s", b.DisplayName())
		return c.UnblockContact(ctx, b.ID)
	})
}

func (a *App) toggleStarMessage() {
	m, ok := a.thread.SelectedMessage()
	if !ok {
		return
	}
	chatID := a.thread.ChatID()
	a.run("star message", func(ctx context.Context, c *client.Client) error {
		return c.StarMessage(ctx, chatID, m.ID)
	})
}

func (a *App) deleteMessage() {
	m, ok := a.thread.SelectedMessage()
	if !ok {
		return
	}
	chatID := a.thread.ChatID()
	a.run("delete message", func(ctx context.Context, c *client.Client) error {
		return c.DeleteMessage(ctx, chatID, m.ID)
	})
}

func (a *App) nextMatch(delta int) {
	a.thread.NextMatch(delta)
	if s := a.thread.MatchStatus(); s != "" {
		a.flash.Info(s)
	}
}

func (a *App) searchThread(query string) {
	chatID := a.thread.ChatID()
	go func() {
		matches, err := a.vm.Client().SearchMessages(a.ctx, chatID, query)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.thread.SetMatches(query, matches)
			a.flash.Info(a.thread.MatchStatus())
		})
	}()
}

func (a *App) applyFilter(query string) {
	go func() {
		if err := a.vm.SetFilter(a.ctx, query); err != nil {
			a.flash.Err(err)
		}
	}()
}

func (a *App) openNewChat() {
	a.newChat.Reset()
	a.loadContacts(a.newChat, "")
	a.pages.Push(pageNewChat)
}

func (a *App) openAttachPicker(page string) {
	a.attachFor = a.thread.ChatID()
	p := a.components[page].(*views.Picker)
	p.Reset()
	switch page {
	case pageImages:
		a.filterImages("")
	case pageGIFs:
		a.loadGIFs("")
	case pageLocations:
		a.loadLocations("")
	case pageContacts:
		a.loadContacts(a.contacts, "")
	}
	a.pages.Push(page)
}

func (a *App) sendAttachment(att chatstore.Attachment) {
	chatID := a.attachFor
	a.pages.Pop()
	a.app.SetFocus(a.thread.Messages())
	a.run("send "+string(att.Kind()), func(ctx context.Context, c *client.Client) error {
		_, ok, err := c.SendAttachment(ctx, chatID, "", att)
		if err == nil && !ok {
			err = errors.New("chat no longer exists")
		}
		return err
	})
}

func (a *App) loadContacts(p *views.Picker, query string) {
	go func() {
		contacts, err := a.vm.Client().Contacts(a.ctx, query)
		if err != nil {
			a.flash.Err(err)
			return
		}
		items := make([]views.PickerItem, len(contacts))
		for i, c := range contacts {
			items[i] = views.PickerItem{Title: c.DisplayName(), Detail: c.Phone}
		}
		a.app.QueueUpdateDraw(func() {
			a.contactResults = contacts
			p.SetItems(items)
		})
	}()
}

func (a *App) filterImages(query string) {
	go func() {
		urls, err := a.vm.Client().Images(a.ctx)
		if err != nil {
			a.flash.Err(err)
			return
		}
		var kept []string
		var items []views.PickerItem
		for i, u := range urls {
			if query != "" && !strings.Contains(strings.ToLower(u), strings.ToLower(query)) {
				continue
			}
			kept = append(kept, u)
			items = append(items, views.PickerItem{Title: fmt.Sprintf("Photo %d", i+1), Detail: u})
		}
		a.app.QueueUpdateDraw(func() {
			a.imageResults = kept
			a.images.SetItems(items)
		})
	}()
}

func (a *App) loadGIFs(query string) {
	go func() {
		gifs, err := a.vm.Client().GIFs(a.ctx, query)
		if err != nil {
			a.flash.Err(err)
			return
		}
		items := make([]views.PickerItem, len(gifs))
		for i, g := range gifs {
			items[i] = views.PickerItem{Title: g.Category, Detail: g.URL}
		}
		a.app.QueueUpdateDraw(func() {
			a.gifResults = gifs
			a.gifs.SetItems(items)
		})
	}()
}

func (a *App) loadLocations(query string) {
	go func() {
		locs, err := a.vm.Client().Locations(a.ctx, query)
		if err != nil {
			a.flash.Err(err)
			return
		}
		items := make([]views.PickerItem, len(locs))
		for i, l := range locs {
			title := l.Name
			if l.Current {
				title = "Current location"
			}
			items[i] = views.PickerItem{Title: title, Detail: l.Address}
		}
		a.app.QueueUpdateDraw(func() {
			a.locationResults = locs
			a.locations.SetItems(items)
		})
	}()
}

func (a *App) activateSetting(s views.Setting) {
	switch s {
	case views.SettingNotifications:
		a.toggleNotifications()
	case views.SettingTheme:
		a.setTheme(ui.NextTheme(a.opts.Config.Theme))
	case views.SettingMarkAllRead:
		a.markAllRead()
	case views.SettingDeleteAll:
		a.run("delete all", func(ctx context.Context, c *client.Client) error {
			a.flash.Warn("All chats deleted")
			return c.DeleteAllChats(ctx)
		})
	case views.SettingReset:
		a.run("reset", func(ctx context.Context, c *client.Client) error {
			a.flash.Info("Demo data restored")
			return c.ResetDemo(ctx)
		})
	}
}

func (a *App) toggleNotifications() {
	a.run("notifications", func(ctx context.Context, c *client.Client) error {
		on, err := c.ToggleNotifications(ctx)
		if err != nil {
			return err
		}
		a.opts.Config.SetNotifications(on)
		if err := a.saveConfig(); err != nil {
			return err
		}
		if on {
			a.flash.Info("Notifications on")
		} else {
			a.flash.Info("Notifications off")
		}
		return nil
	})
}

// setTheme persists name and rebuilds the widgets with the new palette.
func (a *App) setTheme(name string) {
	prev := a.opts.Config.Theme
	a.opts.Config.Theme = name
	if err := a.opts.Config.Validate(); err != nil {
		a.opts.Config.Theme = prev
		a.flash.Err(err)
		return
	}
	if err := a.saveConfig(); err != nil {
		a.flash.Err(err)
	}
	a.theme = ui.ResolveTheme(name, os.Getenv("COLORFGBG"))
	chat := a.thread.Chat()
	a.build(a.pages.Stack())
	a.thread.Update(chat)
	a.details.Update(chat)
	a.flash.Infof("Theme: %s", name)
}

func (a *App) saveConfig() error {
	if a.opts.ConfigPath == "" {
		return nil
	}
	return config.Save(a.opts.ConfigPath, a.opts.Config)
}

func (a *App) openPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	if mode == ui.PromptFilter {
		a.prompt.SetText(a.vm.Filter())
	}
	a.promptOn = true
	a.layoutBody()
	a.app.SetFocus(a.prompt)
}

func (a *App) closePrompt() {
	a.promptOn = false
	a.layoutBody()
	if comp, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(comp.FocusTarget())
	}
}

func (a *App) submitPrompt(mode ui.PromptMode, text string) {
	a.closePrompt()
	switch mode {
	case ui.PromptFilter:
		a.applyFilter(text)
	case ui.PromptSearch:
		a.searchThread(text)
	case ui.PromptCommand:
		a.execCommand(ParseCommand(text))
	}
}

func (a *App) showRoot(page string) {
	a.pages.Reset(pageChats)
	if page != pageChats {
		a.pages.Push(page)
	}
}

func (a *App) execCommand(cmd Command) {
	switch cmd.Name {
	case CmdQuit:
		a.Stop()
	case CmdHelp:
		a.pages.Push(pageHelp)
	case CmdChats:
		a.showRoot(pageChats)
	case CmdArchived:
		a.showRoot(pageArchived)
	case CmdStarred:
		a.showRoot(pageStarred)
	case CmdBlocked:
		a.showRoot(pageBlocked)
	case CmdSettings:
		a.showRoot(pageSettings)
	case CmdNew:
		a.showRoot(pageChats)
		a.openNewChat()
	case CmdSearch:
		a.showRoot(pageChats)
		a.applyFilter(cmd.Args)
	case CmdChat:
		a.openChatByName(cmd.Args)
	case CmdReadAll:
		a.markAllRead()
	case CmdDeleteAll:
		a.activateSetting(views.SettingDeleteAll)
	case CmdReset:
		a.activateSetting(views.SettingReset)
	case CmdNotifications:
		a.toggleNotifications()
	case CmdTheme:
		name := cmd.Args
		if name == "" {
			name = ui.NextTheme(a.opts.Config.Theme)
		}
		a.setTheme(name)
	default:
		a.flash.Warn("unknown command: " + cmd.Name)
	}
}

func (a *App) openChatByName(name string) {
	if name == "" {
		a.flash.Warn("usage: :chat <name>")
		return
	}
	lower := strings.ToLower(name)
	for _, c := range a.vm.Chats() {
		if strings.Contains(strings.ToLower(c.DisplayName()), lower) {
			a.openChat(c.ID, "")
			return
		}
	}
	a.flash.Warn(fmt.Sprintf("no chat matching %q", name))
}

// render pushes the view model snapshot into every view.
func (a *App) render() {
	st := a.vm.Status()
	stats := a.vm.Stats()
	a.info.Update(&ui.SessionData{
		Session:       a.opts.Session,
		Status:        st.Status,
		ChatCount:     st.ChatCount,
		MessageCount:  st.MessageCount,
		Unread:        stats.Unread,
		Uptime:        st.Uptime,
		Notifications: st.Notifications,
		Theme:         a.theme.Name,
	})

	a.chats.Update(a.vm.Chats())
	a.chats.SetFilter(a.vm.Filter())
	a.archived.Update(a.vm.Archived())
	a.starred.Update(a.vm.StarredMessages(), a.vm.StarredChats())
	a.blocked.Update(a.vm.Blocked())
	a.settings.Update(views.SettingsState{
		Notifications: st.Notifications,
		Theme:         a.opts.Config.Theme,
		Unread:        stats.Unread,
		Chats:         stats.ActiveChats + stats.ArchivedChats,
	})
	if chat, ok := a.vm.Active(); ok && chat.ID == a.thread.ChatID() {
		a.thread.Update(chat)
		if a.pages.Current() == pageDetails {
			a.details.Update(chat)
		}
	}
	a.updateMenu()
}

// Run starts the TUI application.
func (a *App) Run() error {
	go func() {
		if err := a.vm.Reload(a.ctx); err != nil {
			a.flash.Err(err)
		}
		if err := a.vm.Watch(a.ctx, a.flash.Err); err != nil {
			a.logger.Warn("event stream unavailable, polling", zap.Error(err))
		}
		a.startRefreshLoop()
	}()

	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		var ticks int
		for {
			select {
			case <-a.vm.RefreshCh():
				a.app.QueueUpdateDraw(a.render)
			case msg := <-a.flash.Watch():
				a.app.QueueUpdateDraw(func() { a.flashBar.Update(&msg) })
			case <-ticker.C:
				ticks++
				if ticks%int(pollInterval/time.Second) == 0 {
					a.resync()
				}
				a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// resync re-subscribes when the event stream has dropped, for example
// after a daemon restart, and reloads so changes made meanwhile show up.
func (a *App) resync() {
	if a.vm.Watching() {
		return
	}
	if err := a.vm.Watch(a.ctx, a.flash.Err); err == nil {
		a.logger.Info("event stream restored")
	}
	if err := a.vm.Reload(a.ctx); err != nil {
		a.flash.Err(err)
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
