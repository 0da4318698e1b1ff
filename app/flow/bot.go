// Package flow implements the per-user conversation state machine: command
// dispatch, input validation and the weather, exchange, cute and poll flows.
package flow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/m3rciful/utilbot/app/journal"
	"github.com/m3rciful/utilbot/core/logger"
	"github.com/m3rciful/utilbot/core/telegram/state"
)

const component = "flow"

// Commands understood by the bot.
const (
	CmdStart    = "/start"
	CmdHelp     = "/help"
	CmdCancel   = "/cancel"
	CmdWeather  = "/weather"
	CmdExchange = "/exchange"
	CmdCute     = "/cute"
	CmdPoll     = "/poll"
)

// CommandInfo describes a command for the client command menu.
type CommandInfo struct {
	Name        string
	Description string
	// Hidden commands work but stay out of /help and the menu.
	Hidden bool
}

// Commands lists every command in menu order.
func Commands() []CommandInfo {
	return []CommandInfo{
		{Name: CmdStart, Description: "Greeting"},
		{Name: CmdHelp, Description: "List of commands"},
		{Name: CmdWeather, Description: "Current weather for a location"},
		{Name: CmdExchange, Description: "Currency exchange rate"},
		{Name: CmdCute, Description: "Picture of a cute cat or dog"},
		{Name: CmdPoll, Description: "Create a poll in a group chat"},
		{Name: CmdCancel, Description: "Cancel the current input", Hidden: true},
	}
}

// Message is one inbound chat message.
type Message struct {
	UserID int64
	ChatID int64
	Text   string
	// Media marks messages without text (photos, stickers, documents).
	Media bool
}

// Options configures a Bot. Store and Gateway are required.
type Options struct {
	Store    state.Store
	Gateway  Gateway
	Weather  WeatherSource
	Exchange RateSource
	Dogs     DogSource
	// CatURL builds the cat picture URL for the given time.
	CatURL  func(now time.Time) string
	Journal Recorder
	// PickDog chooses between a dog and a cat for /cute; defaults to a fair coin.
	PickDog func() bool
	Now     func() time.Time
}

// Bot routes messages through the conversation state machine.
type Bot struct {
	store    state.Store
	gateway  Gateway
	weather  WeatherSource
	exchange RateSource
	dogs     DogSource
	catURL   func(time.Time) string
	journal  Recorder
	pickDog  func() bool
	now      func() time.Time
}

// New constructs a Bot from opts.
func New(opts Options) (*Bot, error) {
	if opts.Store == nil {
		return nil, errors.New("flow: store is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("flow: gateway is required")
	}
	b := &Bot{
		store:    opts.Store,
		gateway:  opts.Gateway,
		weather:  opts.Weather,
		exchange: opts.Exchange,
		dogs:     opts.Dogs,
		catURL:   opts.CatURL,
		journal:  opts.Journal,
		pickDog:  opts.PickDog,
		now:      opts.Now,
	}
	if b.journal == nil {
		b.journal = journal.Noop{}
	}
	if b.pickDog == nil {
		b.pickDog = func() bool { return rand.IntN(2) == 1 }
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b, nil
}

// Handle processes one message. Replies that fail to reach the gateway are
// returned as *TransportError; every other failure is answered in chat.
func (b *Bot) Handle(ctx context.Context, msg Message) error {
	cmd := commandToken(msg.Text)
	if !msg.Media && cmd == CmdCancel {
		return b.cancel(ctx, msg)
	}

	sess := b.store.Get(msg.UserID)
	if !sess.Idle() {
		ctx = logger.WithState(ctx, string(sess.State))
		if msg.Media {
			logger.Debug(ctx, component, "flow.media_ignored")
			return nil
		}
		return b.step(ctx, msg, sess)
	}

	if msg.Media {
		return b.sendText(ctx, msg.ChatID, replyUnknown, TextOptions{Markdown: true})
	}

	switch cmd {
	case CmdStart:
		return b.sendText(ctx, msg.ChatID, replyStart, TextOptions{})
	case CmdHelp:
		return b.sendText(ctx, msg.ChatID, helpText, TextOptions{Markdown: true})
	case CmdWeather:
		return b.start(ctx, msg, WeatherFlow, promptWeather)
	case CmdExchange:
		return b.start(ctx, msg, ExchangeFlow, promptExchange)
	case CmdPoll:
		return b.start(ctx, msg, PollFlow, promptPoll)
	case CmdCute:
		return b.cute(ctx, msg)
	}
	return b.sendText(ctx, msg.ChatID, replyUnknown, TextOptions{Markdown: true})
}

// commandToken returns the first word of text with any @botname suffix
// removed, or "" when text is not a command.
func commandToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}

func (b *Bot) cancel(ctx context.Context, msg Message) error {
	sess := b.store.Get(msg.UserID)
	if sess.Idle() {
		return nil
	}
	b.store.Clear(msg.UserID)

	logger.Info(ctx, component, "flow.cancel", slog.String("prior_state", string(sess.State)))
	if def, ok := Owner(sess.State); ok {
		recordTransition(def.Kind, sess.State, state.StateIdle)
		recordOutcome(def.Kind, OutcomeCancelled)
		b.record(ctx, msg, def.Kind, OutcomeCancelled, string(sess.State))
	}
	return b.sendText(ctx, msg.ChatID, replyCancel, TextOptions{RemoveKeyboard: true})
}

func (b *Bot) start(ctx context.Context, msg Message, def Definition, prompt string) error {
	first := def.First()
	b.store.Start(msg.UserID, first)
	recordTransition(def.Kind, state.StateIdle, first)
	logger.Debug(logger.WithState(ctx, string(first)), component, "flow.start", slog.String("flow", string(def.Kind)))
	return b.sendText(ctx, msg.ChatID, prompt, TextOptions{})
}

// step validates msg for the current state and runs its processor.
func (b *Bot) step(ctx context.Context, msg Message, sess state.Session) error {
	if _, ok := Owner(sess.State); !ok {
		logger.Warn(ctx, component, "flow.unknown_state")
		b.store.ClearIf(msg.UserID, sess.State)
		return b.sendText(ctx, msg.ChatID, replyUnknown, TextOptions{Markdown: true})
	}

	if err := Validate(sess.State, msg.Text); err != nil {
		logger.Debug(ctx, component, "flow.invalid_input", slog.String("err", err.Error()))
		return b.sendText(ctx, msg.ChatID, invalidReply(sess.State), TextOptions{})
	}

	switch sess.State {
	case StateWeatherLocation:
		return b.processWeather(ctx, msg)
	case StateExchangePair:
		return b.processExchange(ctx, msg)
	case StatePollChatID:
		return b.advance(ctx, msg, PollFlow, StatePollChatID, fieldGroupChatID, msg.Text, promptPollQuestion)
	case StatePollQuestion:
		return b.advance(ctx, msg, PollFlow, StatePollQuestion, fieldQuestion, msg.Text, promptPollOptions)
	case StatePollOptions:
		return b.processPoll(ctx, msg, sess)
	}
	return nil
}

// advance stores a field and moves to the next state of def, then prompts.
// Nothing is sent when the session left from in the meantime.
func (b *Bot) advance(ctx context.Context, msg Message, def Definition, from state.State, key, value, prompt string) error {
	next, ok := def.Next(from)
	if !ok {
		return nil
	}
	if !b.store.Advance(msg.UserID, from, next, key, value) {
		logger.Info(ctx, component, "flow.stale_input", slog.String("expected", string(from)))
		return nil
	}
	recordTransition(def.Kind, from, next)
	return b.sendText(ctx, msg.ChatID, prompt, TextOptions{})
}

// keep stores a field while staying in st. It reports false when the
// session is no longer in st.
func (b *Bot) keep(ctx context.Context, msg Message, st state.State, key string, value any) bool {
	if b.store.Advance(msg.UserID, st, st, key, value) {
		return true
	}
	logger.Info(ctx, component, "flow.stale_input", slog.String("expected", string(st)))
	return false
}

// finish clears a terminal session and sends reply. When the session moved
// on while the processor was busy the reply is dropped.
func (b *Bot) finish(ctx context.Context, msg Message, def Definition, outcome, detail, reply string) error {
	if !b.store.ClearIf(msg.UserID, def.Terminal) {
		logger.Info(ctx, component, "flow.stale_reply",
			slog.String("flow", string(def.Kind)),
			slog.String("outcome", outcome),
		)
		recordOutcome(def.Kind, OutcomeStale)
		return nil
	}
	recordTransition(def.Kind, def.Terminal, state.StateIdle)
	recordOutcome(def.Kind, outcome)
	b.record(ctx, msg, def.Kind, outcome, detail)
	return b.sendText(ctx, msg.ChatID, reply, TextOptions{})
}

// fail logs err and ends the flow with a failure reply.
func (b *Bot) fail(ctx context.Context, msg Message, def Definition, outcome string, err error, reply string) error {
	logger.Warn(ctx, component, "flow.failed",
		slog.String("flow", string(def.Kind)),
		slog.String("outcome", outcome),
		slog.String("err", err.Error()),
	)
	return b.finish(ctx, msg, def, outcome, err.Error(), reply)
}

func (b *Bot) sendText(ctx context.Context, to int64, text string, opts TextOptions) error {
	if err := b.gateway.SendText(ctx, to, text, opts); err != nil {
		return &TransportError{Op: "send_text", Err: err}
	}
	return nil
}

func (b *Bot) record(ctx context.Context, msg Message, kind Kind, outcome, detail string) {
	err := b.journal.Record(ctx, journal.Entry{
		UserID:  msg.UserID,
		ChatID:  msg.ChatID,
		Flow:    string(kind),
		Outcome: outcome,
		Detail:  detail,
	})
	if err != nil {
		logger.Warn(ctx, component, "flow.journal_failed", slog.String("err", err.Error()))
	}
}
