package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/config"
	"github.com/matheus3301/securechat/internal/session"
	"github.com/matheus3301/securechat/internal/tui/client"
	"github.com/matheus3301/securechat/internal/tui/ui"
)

// errUsage marks argument mistakes so main can print the usage text.
var errUsage = errors.New("usage")

type command struct {
	args string
	help string
	run  func(ctx context.Context, c *client.Client, args []string, jsonOut bool) error
}

var commands = map[string]command{
	"status":     {"", "Show session status", cmdStatus},
	"stats":      {"", "Show store counters", cmdStats},
	"sessions":   {"list", "List known sessions", cmdSessions},
	"chats":      {"[--archived|--starred]", "List conversations", cmdChats},
	"search":     {"<query>", "Search conversations by name, phone or text", cmdSearch},
	"show":       {"<chat-id>", "Show a conversation and its messages", cmdShow},
	"find":       {"<chat-id> <query>", "Search messages inside a conversation", cmdFind},
	"send":       {"<chat-id> <text...>", "Send a text message", cmdSend},
	"archive":    {"<chat-id>", "Archive a conversation", chatAction((*client.Client).ArchiveChat)},
	"unarchive":  {"<chat-id>", "Move a conversation back to the list", chatAction((*client.Client).UnarchiveChat)},
	"pin":        {"<chat-id>", "Pin a conversation", chatAction((*client.Client).PinChat)},
	"unpin":      {"<chat-id>", "Unpin a conversation", chatAction((*client.Client).UnpinChat)},
	"read":       {"<chat-id>", "Mark a conversation as read", chatAction((*client.Client).MarkAsRead)},
	"unread":     {"<chat-id>", "Mark a conversation as unread", chatAction((*client.Client).MarkAsUnread)},
	"delete":     {"<chat-id>", "Delete a conversation", chatAction((*client.Client).DeleteChat)},
	"star":       {"<chat-id> [message-id]", "Toggle the star on a conversation or message", cmdStar},
	"delete-msg": {"<chat-id> <message-id>", "Delete a message", cmdDeleteMessage},
	"read-all":   {"", "Mark every active conversation as read", cmdReadAll},
	"delete-all": {"", "Delete every conversation", cmdDeleteAll},
	"starred":    {"", "List starred messages", cmdStarred},
	"contacts":   {"[query]", "List contacts", cmdContacts},
	"new":        {"<contact>", "Open or create a chat with a contact", cmdNew},
	"block":      {"<chat-id>", "Block a conversation's contact", cmdBlock},
	"unblock":    {"<blocked-id>", "Unblock a contact", cmdUnblock},
	"blocked":    {"", "List blocked contacts", cmdBlocked},
	"notify":     {"", "Toggle notifications", cmdNotify},
	"reset":      {"", "Restore the demo data", cmdReset},
	"watch":      {"[namespace]", "Stream daemon events", cmdWatch},
}

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.LoadOrDefault(session.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	sessionName, err := session.Resolve(*sessionFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	socketPath := session.SocketPath(sessionName)
	c, err := client.New(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot connect to daemon for session %q: %v\n", sessionName, err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if args[0] != "watch" {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, 10*time.Second)
		defer stop()
	}

	if err := cmd.run(ctx, c, args[1:], *jsonFlag); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: securechatctl %s %s\n", args[0], cmd.args)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: securechatctl [--session <name>] [--json] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(os.Stderr, "  %-34s %s\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
}

func chatAction(fn func(*client.Client, context.Context, string) error) func(context.Context, *client.Client, []string, bool) error {
	return func(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
		if len(args) != 1 {
			return errUsage
		}
		if err := fn(c, ctx, args[0]); err != nil {
			return err
		}
		return printOK(jsonOut)
	}
}

func printOK(jsonOut bool) error {
	if jsonOut {
		outputJSON(map[string]bool{"ok": true})
		return nil
	}
	fmt.Println("OK")
	return nil
}

func cmdStatus(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(st)
		return nil
	}
	notif := "off"
	if st.Notifications {
		notif = "on"
	}
	fmt.Printf("Session:       %s\n", st.Session)
	fmt.Printf("Status:        %s\n", st.Status)
	fmt.Printf("Uptime:        %s\n", ui.FormatDuration(st.Uptime))
	fmt.Printf("Chats:         %d\n", st.ChatCount)
	fmt.Printf("Messages:      %d\n", st.MessageCount)
	fmt.Printf("Notifications: %s\n", notif)
	return nil
}

func cmdStats(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	st, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(st)
		return nil
	}
	fmt.Printf("Active chats:   %d\n", st.ActiveChats)
	fmt.Printf("Archived chats: %d\n", st.ArchivedChats)
	fmt.Printf("Blocked:        %d\n", st.Blocked)
	fmt.Printf("Messages:       %d\n", st.Messages)
	fmt.Printf("Unread:         %d\n", st.Unread)
	return nil
}

func cmdSessions(_ context.Context, _ *client.Client, args []string, jsonOut bool) error {
	if len(args) != 1 || args[0] != "list" {
		return errUsage
	}
	names, err := session.List()
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(names)
		return nil
	}
	if len(names) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	for _, name := range names {
		fmt.Printf("%-20s %s\n", name, session.Dir(name))
	}
	return nil
}

func cmdChats(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	list := c.ActiveChats
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "--archived":
		list = c.ArchivedChats
	case len(args) == 1 && args[0] == "--starred":
		list = c.StarredConversations
	default:
		return errUsage
	}
	chats, err := list(ctx)
	if err != nil {
		return err
	}
	printChats(chats, jsonOut)
	return nil
}

func cmdSearch(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) == 0 {
		return errUsage
	}
	chats, err := c.SearchChats(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printChats(chats, jsonOut)
	return nil
}

func printChats(chats []api.ChatView, jsonOut bool) {
	if jsonOut {
		outputJSON(chats)
		return
	}
	if len(chats) == 0 {
		fmt.Println("No conversations.")
		return
	}
	for _, ch := range chats {
		flags := ""
		if ch.Pinned {
			flags += "^"
		}
		if ch.Starred {
			flags += "*"
		}
		if ch.Spam {
			flags += "!"
		}
		unread := ""
		if ch.Unread {
			unread = fmt.Sprintf("(%d)", ch.UnreadCount)
		}
		fmt.Printf("%-38s %-3s %-22s %-5s %-10s %s\n", ch.ID, flags, ch.DisplayName(), unread, ch.TimeLabel, ch.LastMessage)
	}
}

func cmdShow(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) != 1 {
		return errUsage
	}
	ch, err := c.Chat(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(ch)
		return nil
	}
	fmt.Printf("%s  %s\n\n", ch.DisplayName(), ch.ContactPhone)
	for _, m := range ch.Messages {
		sender := ch.DisplayName()
		if m.FromSelf() {
			sender = "You"
		}
		star := ""
		if m.Starred {
			star = " *"
		}
		text := m.Text
		if m.Attachment != nil {
			text = strings.TrimSpace("[" + m.Attachment.Label() + "] " + text)
		}
		fmt.Printf("%s %s %s%s: %s\n", m.ID, m.Timestamp.Local().Format("2006-01-02 15:04"), sender, star, text)
	}
	return nil
}

func cmdFind(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) < 2 {
		return errUsage
	}
	matches, err := c.SearchMessages(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(matches)
		return nil
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s %s\n", m.Message.ID, m.Message.Text)
	}
	return nil
}

func cmdSend(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) < 2 {
		return errUsage
	}
	m, applied, err := c.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("no chat with id %q", args[0])
	}
	if jsonOut {
		outputJSON(m)
		return nil
	}
	fmt.Println(m.ID)
	return nil
}

func cmdStar(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	switch len(args) {
	case 1:
		starred, err := c.StarConversation(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOut {
			outputJSON(map[string]bool{"starred": starred})
			return nil
		}
		fmt.Printf("Starred: %v\n", starred)
		return nil
	case 2:
		if err := c.StarMessage(ctx, args[0], args[1]); err != nil {
			return err
		}
		return printOK(jsonOut)
	default:
		return errUsage
	}
}

func cmdDeleteMessage(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := c.DeleteMessage(ctx, args[0], args[1]); err != nil {
		return err
	}
	return printOK(jsonOut)
}

func cmdReadAll(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	if err := c.MarkAllAsRead(ctx); err != nil {
		return err
	}
	return printOK(jsonOut)
}

func cmdDeleteAll(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	if err := c.DeleteAllChats(ctx); err != nil {
		return err
	}
	return printOK(jsonOut)
}

func cmdStarred(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	msgs, err := c.StarredMessages(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(msgs)
		return nil
	}
	if len(msgs) == 0 {
		fmt.Println("No starred messages.")
		return nil
	}
	for _, sm := range msgs {
		fmt.Printf("%-22s %s %s\n", sm.Chat.DisplayName(), sm.Message.ID, sm.Message.Text)
	}
	return nil
}

func cmdContacts(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	contacts, err := c.Contacts(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(contacts)
		return nil
	}
	for _, ct := range contacts {
		fmt.Printf("%-22s %s\n", ct.DisplayName(), ct.Phone)
	}
	return nil
}

func cmdNew(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) == 0 {
		return errUsage
	}
	query := strings.Join(args, " ")
	contacts, err := c.Contacts(ctx, query)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no contact matching %q", query)
	}
	id, err := c.CreateNewChat(ctx, contacts[0])
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(map[string]string{"chat_id": id})
		return nil
	}
	fmt.Println(id)
	return nil
}

func cmdBlock(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) != 1 {
		return errUsage
	}
	b, applied, err := c.BlockContact(ctx, args[0])
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("no chat with id %q", args[0])
	}
	if jsonOut {
		outputJSON(b)
		return nil
	}
	fmt.Printf("Blocked %s (%s)\n", b.DisplayName(), b.ID)
	return nil
}

func cmdUnblock(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := c.UnblockContact(ctx, args[0]); err != nil {
		return err
	}
	return printOK(jsonOut)
}

func cmdBlocked(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	blocked, err := c.BlockedContacts(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(blocked)
		return nil
	}
	if len(blocked) == 0 {
		fmt.Println("No blocked contacts.")
		return nil
	}
	for _, b := range blocked {
		fmt.Printf("%-38s %-22s %s\n", b.ID, b.DisplayName(), b.Phone)
	}
	return nil
}

func cmdNotify(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	on, err := c.ToggleNotifications(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(map[string]bool{"notifications": on})
		return nil
	}
	fmt.Printf("Notifications: %v\n", on)
	return nil
}

func cmdReset(ctx context.Context, c *client.Client, _ []string, jsonOut bool) error {
	if err := c.ResetDemo(ctx); err != nil {
		return err
	}
	return printOK(jsonOut)
}

func cmdWatch(ctx context.Context, c *client.Client, args []string, jsonOut bool) error {
	if len(args) > 1 {
		return errUsage
	}
	namespace := ""
	if len(args) == 1 {
		namespace = args[0]
	}
	events, err := c.Watch(ctx, namespace)
	if err != nil {
		return err
	}
	for evt := range events {
		if jsonOut {
			outputJSON(evt)
			continue
		}
		switch {
		case evt.From != "" || evt.To != "":
			fmt.Printf("%s %s -> %s\n", evt.Kind, evt.From, evt.To)
		case evt.MessageID != "":
			fmt.Printf("%s chat=%s message=%s\n", evt.Kind, evt.ChatID, evt.MessageID)
		default:
			fmt.Printf("%s chat=%s\n", evt.Kind, evt.ChatID)
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return errors.New("event stream closed")
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
