package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/utilbot/app/flow"
	tghelpers "github.com/m3rciful/utilbot/core/telegram/helpers"
	tgsender "github.com/m3rciful/utilbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

type call struct {
	to   tele.Recipient
	what any
	opts []any
}

type fakeSender struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeSender) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{to: to, what: what, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &tele.Message{}, nil
}

func (f *fakeSender) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func TestSendTextSync(t *testing.T) {
	api := &fakeSender{}
	gw := New(api, nil)
	ctx, counters := tghelpers.WithCounters(context.Background())

	require.NoError(t, gw.SendText(ctx, 42, "*Available commands:*", flow.TextOptions{Markdown: true}))
	require.NoError(t, gw.SendText(ctx, 42, "Cancelled.", flow.TextOptions{RemoveKeyboard: true}))

	calls := api.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, tele.ChatID(42), calls[0].to)
	assert.Equal(t, "*Available commands:*", calls[0].what)
	opts := calls[0].opts[0].(*tele.SendOptions)
	assert.Equal(t, tele.ModeMarkdown, opts.ParseMode)
	assert.Nil(t, opts.ReplyMarkup)

	opts = calls[1].opts[0].(*tele.SendOptions)
	require.NotNil(t, opts.ReplyMarkup)
	assert.True(t, opts.ReplyMarkup.RemoveKeyboard)
	assert.Empty(t, opts.ParseMode)

	msgs, kb := counters.Snapshot()
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
}

func TestSendTextSyncError(t *testing.T) {
	gw := New(&fakeSender{err: errors.New("boom")}, nil)
	assert.Error(t, gw.SendText(context.Background(), 1, "hi", flow.TextOptions{}))
}

func TestSendPhotoThroughDispatcher(t *testing.T) {
	api := &fakeSender{}
	d := tgsender.NewDispatcher(tgsender.Options{Workers: 1, QueueSize: 4})
	gw := New(api, d)

	require.NoError(t, gw.SendPhoto(context.Background(), 7, "https://random.dog/a.jpg", "Here is your cutie."))
	d.Close()

	calls := api.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, tele.ChatID(7), calls[0].to)
	photo, ok := calls[0].what.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "https://random.dog/a.jpg", photo.FileURL)
	assert.Equal(t, "Here is your cutie.", photo.Caption)
}

func TestClosedDispatcherFallsBackToSync(t *testing.T) {
	api := &fakeSender{}
	d := tgsender.NewDispatcher(tgsender.Options{Workers: 1})
	d.Close()
	gw := New(api, d)

	require.NoError(t, gw.SendText(context.Background(), 3, "late reply", flow.TextOptions{}))
	assert.Len(t, api.snapshot(), 1)
}

func TestSendPoll(t *testing.T) {
	api := &fakeSender{}
	gw := New(api, tgsender.NewDispatcher(tgsender.Options{Workers: 1}))

	require.NoError(t, gw.SendPoll(context.Background(), -100, "Lunch?", []string{"pizza", " sushi"}))

	calls := api.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, tele.ChatID(-100), calls[0].to)
	poll, ok := calls[0].what.(*tele.Poll)
	require.True(t, ok)
	assert.Equal(t, "Lunch?", poll.Question)
	assert.Equal(t, tele.PollRegular, poll.Type)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, "pizza", poll.Options[0].Text)
	assert.Equal(t, " sushi", poll.Options[1].Text)
}

func TestSendPollErrorIsReturned(t *testing.T) {
	gw := New(&fakeSender{err: errors.New("telegram: chat not found (400)")}, nil)
	assert.Error(t, gw.SendPoll(context.Background(), -1, "q", []string{"a", "b"}))
}
