package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/utilbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

func routeFor(t *testing.T, h InboundHandler, endpoint string) tele.HandlerFunc {
	t.Helper()
	for _, r := range TextRoutes(h) {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	t.Fatalf("no route for %q", endpoint)
	return nil
}

func update(text string, photo bool) tele.Context {
	msg := &tele.Message{
		Sender: &tele.User{ID: 5},
		Chat:   &tele.Chat{ID: 6},
		Text:   text,
	}
	if photo {
		msg.Photo = &tele.Photo{File: tele.File{FileID: "f"}}
	}
	return tele.NewContext(nil, tele.Update{ID: 9, Message: msg})
}

func TestTextRouteBuildsInbound(t *testing.T) {
	var (
		got Inbound
		rid string
	)
	h := routeFor(t, func(ctx context.Context, in Inbound) error {
		got = in
		rid = logger.RIDFrom(ctx)
		return nil
	}, tele.OnText)

	require.NoError(t, h(update("/weather", false)))
	assert.Equal(t, Inbound{UserID: 5, ChatID: 6, Text: "/weather"}, got)
	assert.Equal(t, "9:6:5", rid)
}

func TestMediaRouteMarksMedia(t *testing.T) {
	var got Inbound
	h := routeFor(t, func(_ context.Context, in Inbound) error {
		got = in
		return nil
	}, tele.OnMedia)

	require.NoError(t, h(update("", true)))
	assert.True(t, got.Media)
	assert.Equal(t, int64(5), got.UserID)
}

func TestTextRoutePropagatesErrors(t *testing.T) {
	boom := errors.New("send failed")
	h := routeFor(t, func(context.Context, Inbound) error { return boom }, tele.OnText)
	assert.ErrorIs(t, h(update("Kyiv", false)), boom)
}

func TestHandlerName(t *testing.T) {
	assert.Equal(t, "weather", handlerName(Inbound{Text: "/weather@util_bot now"}))
	assert.Equal(t, "text", handlerName(Inbound{Text: "Kyiv"}))
	assert.Equal(t, "text", handlerName(Inbound{Text: "   "}))
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "flood wait" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "FLOOD_WAIT", deriveErrorCode(codedErr{}))
	assert.Equal(t, "PLAINERR", deriveErrorCode(&plainErr{}))
	assert.Empty(t, deriveErrorCode(nil))
}
