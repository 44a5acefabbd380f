package tui

import "strings"

// Command names accepted in : mode.
const (
	CmdQuit          = "quit"
	CmdHelp          = "help"
	CmdChats         = "chats"
	CmdArchived      = "archived"
	CmdStarred       = "starred"
	CmdBlocked       = "blocked"
	CmdNew           = "new"
	CmdSettings      = "settings"
	CmdSearch        = "search"
	CmdChat          = "chat"
	CmdReadAll       = "readall"
	CmdDeleteAll     = "deleteall"
	CmdReset         = "reset"
	CmdTheme         = "theme"
	CmdNotifications = "notifications"
)

var commandAliases = map[string]string{
	"q":      CmdQuit,
	"q!":     CmdQuit,
	"exit":   CmdQuit,
	"h":      CmdHelp,
	"?":      CmdHelp,
	"c":      CmdChats,
	"list":   CmdChats,
	"a":      CmdArchived,
	"arch":   CmdArchived,
	"s":      CmdStarred,
	"star":   CmdStarred,
	"b":      CmdBlocked,
	"n":      CmdNew,
	"set":    CmdSettings,
	"find":   CmdSearch,
	"open":   CmdChat,
	"notify": CmdNotifications,
}

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':') and
// resolves aliases to their canonical name.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), ":"))
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if canonical, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = canonical
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}
