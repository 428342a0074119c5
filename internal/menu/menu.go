package menu

import (
	"fmt"
	"strings"
	"unicode"
)

// CommandID names a command raised by the menu or tray adapters.
type CommandID string

const (
	CommandQuit                  CommandID = "quit"
	CommandAbout                 CommandID = "about"
	CommandOpenURL               CommandID = "open-url"
	CommandAddNewServer          CommandID = "add-new-server"
	CommandSelectServer          CommandID = "select-server"
	CommandReloadServer          CommandID = "reload-server"
	CommandOpenDevToolsForServer CommandID = "open-devtools-for-server"
	CommandGoBack                CommandID = "go-back"
	CommandGoForward             CommandID = "go-forward"
	CommandReloadApp             CommandID = "reload-app"
	CommandToggleDevTools        CommandID = "toggle-devtools"
	CommandResetAppData          CommandID = "reset-app-data"
	CommandToggle                CommandID = "toggle"
)

// Option names a toggle target.
type Option string

const (
	OptionShowTrayIcon              Option = "showTrayIcon"
	OptionShowFullScreen            Option = "showFullScreen"
	OptionShowWindowOnUnreadChanged Option = "showWindowOnUnreadChanged"
	OptionShowMenuBar               Option = "showMenuBar"
	OptionShowServerList            Option = "showServerList"
)

// Options lists every toggle target in menu order.
func Options() []Option {
	return []Option{
		OptionShowTrayIcon,
		OptionShowFullScreen,
		OptionShowWindowOnUnreadChanged,
		OptionShowMenuBar,
		OptionShowServerList,
	}
}

// ReloadOptions is the reload-server payload.
type ReloadOptions struct {
	IgnoringCache     bool
	ClearCertificates bool
}

// Command is a named command plus its payload. Only the payload fields
// relevant to ID are meaningful.
type Command struct {
	ID     CommandID
	URL    string
	Reload ReloadOptions
	Option Option
}

func SelectServer(url string) Command {
	return Command{ID: CommandSelectServer, URL: url}
}

func OpenURL(url string) Command {
	return Command{ID: CommandOpenURL, URL: url}
}

func ReloadServer(opts ReloadOptions) Command {
	return Command{ID: CommandReloadServer, Reload: opts}
}

func Toggle(option Option) Command {
	return Command{ID: CommandToggle, Option: option}
}

// Simple builds a command that carries no payload.
func Simple(id CommandID) Command {
	return Command{ID: id}
}

// Label renders the command for traces and help output.
func (c Command) Label() string {
	label := prettyLabel(string(c.ID))
	switch c.ID {
	case CommandSelectServer, CommandOpenURL:
		return label + " " + c.URL
	case CommandToggle:
		return label + " " + string(c.Option)
	case CommandReloadServer:
		var flags []string
		if c.Reload.IgnoringCache {
			flags = append(flags, "ignoring cache")
		}
		if c.Reload.ClearCertificates {
			flags = append(flags, "clearing certificates")
		}
		if len(flags) > 0 {
			return label + " (" + strings.Join(flags, ", ") + ")"
		}
	}
	return label
}

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
}

// Result communicates the outcome of executing a command.
type Result struct {
	Info string
	// Noop is set when the command had nothing to act on, such as a reload
	// with no active session. It is not an error.
	Noop bool
	Err  error
}

// Action executes one command.
type Action func(Command) Result

// RootItems returns the commands offered by the console shell, in display order.
func RootItems() []Item {
	ids := []CommandID{
		CommandAddNewServer,
		CommandReloadServer,
		CommandGoBack,
		CommandGoForward,
		CommandOpenDevToolsForServer,
		CommandReloadApp,
		CommandToggleDevTools,
		CommandResetAppData,
		CommandAbout,
		CommandQuit,
	}
	items := make([]Item, 0, len(ids)+len(Options()))
	for _, id := range ids {
		items = append(items, Item{ID: string(id), Label: prettyLabel(string(id))})
	}
	for _, option := range Options() {
		items = append(items, Item{ID: string(CommandToggle) + " " + string(option), Label: "toggle " + prettyLabel(splitCamel(string(option)))})
	}
	return items
}

// Parse reads the textual command form used by the console and the exec
// subcommand, e.g. "select-server https://chat.example" or
// "reload-server ignoringCache clearCertificates".
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	id := CommandID(fields[0])
	args := fields[1:]
	switch id {
	case CommandSelectServer, CommandOpenURL:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s requires exactly one url", id)
		}
		return Command{ID: id, URL: args[0]}, nil
	case CommandToggle:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("toggle requires an option name")
		}
		option := Option(args[0])
		if !option.Valid() {
			return Command{}, fmt.Errorf("unknown toggle option %q", args[0])
		}
		return Toggle(option), nil
	case CommandReloadServer:
		var opts ReloadOptions
		for _, arg := range args {
			switch arg {
			case "ignoringCache":
				opts.IgnoringCache = true
			case "clearCertificates":
				opts.ClearCertificates = true
			default:
				return Command{}, fmt.Errorf("unknown reload-server flag %q", arg)
			}
		}
		return ReloadServer(opts), nil
	case CommandQuit, CommandAbout, CommandAddNewServer, CommandOpenDevToolsForServer,
		CommandGoBack, CommandGoForward, CommandReloadApp, CommandToggleDevTools, CommandResetAppData:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", id)
		}
		return Simple(id), nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

// ParseScript parses one command per line, skipping blanks and # comments.
func ParseScript(input string) ([]Command, error) {
	var commands []Command
	for i, line := range splitLines(input) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cmd, err := Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Valid reports whether o is a known toggle option.
func (o Option) Valid() bool {
	for _, known := range Options() {
		if o == known {
			return true
		}
	}
	return false
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
