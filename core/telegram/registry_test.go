package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type recordingSetter struct {
	got []any
	err error
}

func (r *recordingSetter) SetCommands(opts ...any) error {
	r.got = opts
	return r.err
}

func TestRegistryRegisterAndList(t *testing.T) {
	reg := NewRegistry()
	assert.True(t, reg.RegisterCommand("/weather", Command{Description: "Weather"}))
	assert.True(t, reg.RegisterCommand("/cancel", Command{Description: "Cancel", Hidden: true}))
	assert.True(t, reg.RegisterCommand("/cute", Command{Description: "Cute"}))

	assert.False(t, reg.RegisterCommand("weather", Command{Description: "x"}))
	assert.False(t, reg.RegisterCommand("/weather", Command{Description: "again"}))
	assert.False(t, reg.RegisterCommand("/poll", Command{}))

	assert.Equal(t, []tele.Command{
		{Text: "cute", Description: "Cute"},
		{Text: "weather", Description: "Weather"},
	}, reg.ListCommands(true))
	assert.Len(t, reg.ListCommands(false), 3)

	cmd, ok := reg.LookupCommand("cancel")
	require.True(t, ok)
	assert.True(t, cmd.Hidden)
	_, ok = reg.LookupCommand("/poll")
	assert.False(t, ok)
}

func TestInitBotCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", Command{Description: "Start"})

	setter := &recordingSetter{}
	require.NoError(t, InitBotCommands(context.Background(), setter, reg))
	require.Len(t, setter.got, 1)
	assert.Equal(t, []tele.Command{{Text: "start", Description: "Start"}}, setter.got[0])

	setter.err = errors.New("unauthorized")
	assert.Error(t, InitBotCommands(context.Background(), setter, reg))
}

func TestBuildPoller(t *testing.T) {
	lp, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, defaultLongPollTimeout, lp.Timeout)

	wh, ok := BuildPoller(PollerOptions{
		RunMode: "webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.com/hook"},
	}).(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", wh.Listen)
	assert.Equal(t, "https://bot.example.com/hook", wh.Endpoint.PublicURL)
}
