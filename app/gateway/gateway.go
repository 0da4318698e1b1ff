// Package gateway delivers flow replies through the Telegram Bot API.
package gateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/utilbot/app/flow"
	"github.com/m3rciful/utilbot/core/logger"
	tghelpers "github.com/m3rciful/utilbot/core/telegram/helpers"
	"github.com/m3rciful/utilbot/core/telegram/keyboard"
	tgsender "github.com/m3rciful/utilbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

const component = "tg"

// Sender is the part of *tele.Bot used for outbound messages.
type Sender interface {
	Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error)
}

// Gateway implements flow.Gateway. Text and photo replies go through the
// dispatcher when one is set; polls are always sent synchronously so the
// flow learns whether the group chat accepted them.
type Gateway struct {
	api        Sender
	dispatcher *tgsender.Dispatcher
}

var _ flow.Gateway = (*Gateway)(nil)

// New returns a Gateway. dispatcher may be nil.
func New(api Sender, dispatcher *tgsender.Dispatcher) *Gateway {
	return &Gateway{api: api, dispatcher: dispatcher}
}

// SendText sends a text message to a chat.
func (g *Gateway) SendText(ctx context.Context, to int64, text string, opts flow.TextOptions) error {
	sendOpts := &tele.SendOptions{}
	if opts.Markdown {
		sendOpts.ParseMode = tele.ModeMarkdown
	}
	if opts.RemoveKeyboard {
		sendOpts.ReplyMarkup = keyboard.RemoveKeyboard()
	}
	return g.deliver(ctx, "send_text", "sendMessage", opts.RemoveKeyboard, func() error {
		_, err := g.api.Send(tele.ChatID(to), text, sendOpts)
		return err
	})
}

// SendPhoto sends a photo by URL; Telegram downloads it.
func (g *Gateway) SendPhoto(ctx context.Context, to int64, url, caption string) error {
	photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
	return g.deliver(ctx, "send_photo", "sendPhoto", false, func() error {
		_, err := g.api.Send(tele.ChatID(to), photo)
		return err
	})
}

// SendPoll posts a regular poll to chatID and waits for Telegram's answer.
func (g *Gateway) SendPoll(ctx context.Context, chatID int64, question string, options []string) error {
	poll := &tele.Poll{Type: tele.PollRegular, Question: question}
	for _, o := range options {
		poll.Options = append(poll.Options, tele.PollOption{Text: o})
	}
	if _, err := g.api.Send(tele.ChatID(chatID), poll); err != nil {
		logger.Warn(ctx, component, "send.poll",
			slog.String("status", "fail"),
			slog.Int64("target_chat", chatID),
			slog.String("err", tgsender.SanitizeError(err)),
			slog.String("err_kind", tgsender.ClassifyError(err)),
		)
		return err
	}
	tghelpers.RecordSent(ctx, false)
	return nil
}

// deliver queues run on the dispatcher, falling back to a direct call when
// there is no dispatcher or its queue cannot take the job.
func (g *Gateway) deliver(ctx context.Context, action, endpoint string, withKeyboard bool, run func() error) error {
	if g.dispatcher != nil {
		err := g.dispatcher.Enqueue(ctx, action, endpoint, run)
		if err == nil {
			tghelpers.RecordSent(ctx, withKeyboard)
			return nil
		}
		if !errors.Is(err, tgsender.ErrQueueFull) && !errors.Is(err, tgsender.ErrQueueClosed) {
			return err
		}
		logger.Warn(ctx, component, "send.fallback_sync",
			slog.String("action", action),
			slog.String("reason", err.Error()),
		)
	}
	if err := run(); err != nil {
		return err
	}
	tghelpers.RecordSent(ctx, withKeyboard)
	return nil
}
