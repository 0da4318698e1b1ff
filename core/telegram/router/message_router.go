package router

import (
	"context"
	"strings"
	"time"

	tg "github.com/m3rciful/utilbot/core/telegram"
	tghelpers "github.com/m3rciful/utilbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Inbound is a chat message reduced to what conversation handlers need.
type Inbound struct {
	UserID int64
	ChatID int64
	Text   string
	// Media is set for photos, stickers, documents and other non-text payloads.
	Media bool
}

// InboundHandler processes one inbound message.
type InboundHandler func(ctx context.Context, in Inbound) error

// TextRoutes routes text and media messages to h and logs a handler summary
// per update.
func TextRoutes(h InboundHandler) []tg.Route {
	if h == nil {
		return nil
	}
	text := func(c tele.Context) error {
		in := inboundFrom(c)
		in.Text = c.Text()
		return handleWithSummary(c, handlerName(in), time.Now(), func() error {
			return h(tghelpers.BuildContext(c), in)
		})
	}
	media := func(c tele.Context) error {
		in := inboundFrom(c)
		in.Media = true
		return handleWithSummary(c, "media", time.Now(), func() error {
			return h(tghelpers.BuildContext(c), in)
		})
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: text},
		{Endpoint: tele.OnMedia, Handler: media},
	}
}

func inboundFrom(c tele.Context) Inbound {
	userID, chatID := tghelpers.Identity(c)
	return Inbound{UserID: userID, ChatID: chatID}
}

// handlerName labels the summary with the command token, or "text".
func handlerName(in Inbound) string {
	fields := strings.Fields(in.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "text"
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return normalizeHandlerName(cmd)
}
