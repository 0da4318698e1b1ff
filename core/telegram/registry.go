package telegram

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/m3rciful/utilbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Command describes a slash command shown in the Telegram command menu.
type Command struct {
	Description string
	Hidden      bool
}

// Registry holds the bot command menu. Dispatching happens in the app.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// RegisterCommand adds a command; invalid or duplicate names are logged and skipped.
func (r *Registry) RegisterCommand(name string, cmd Command) bool {
	reason := ""
	switch {
	case r == nil:
		return false
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		reason = "no_slash_prefix"
	case strings.TrimSpace(cmd.Description) == "":
		reason = "no_description"
	}
	if _, exists := r.commands[name]; exists && reason == "" {
		reason = "duplicate"
	}
	if reason != "" {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("command", name),
			slog.String("reason", reason),
		)
		return false
	}
	r.commands[name] = cmd
	return true
}

// LookupCommand finds a command by name with or without the leading slash.
func (r *Registry) LookupCommand(name string) (Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ListCommands returns the commands sorted by name, optionally without hidden ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	list := make([]tele.Command, 0, len(r.commands))
	for name, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// CommandSetter is the part of tele.API used to publish the command menu.
type CommandSetter interface {
	SetCommands(opts ...any) error
}

// InitBotCommands publishes the visible commands as the bot command menu.
func InitBotCommands(ctx context.Context, bot CommandSetter, reg *Registry) error {
	if bot == nil || reg == nil {
		return nil
	}
	cmds := reg.ListCommands(true)
	if err := bot.SetCommands(cmds); err != nil {
		logger.LogEvent(ctx, logger.TWire, slog.LevelError, "register.commands.set",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.LogEvent(ctx, logger.TWire, slog.LevelInfo, "register.commands.set",
		slog.String("status", "ok"),
		slog.Int("commands", len(cmds)),
	)
	return nil
}
