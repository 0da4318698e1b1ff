package flow

import (
	"context"

	"github.com/m3rciful/utilbot/app/journal"
	"github.com/m3rciful/utilbot/app/upstream"
)

// TextOptions tunes a text reply.
type TextOptions struct {
	// Markdown selects Telegram's legacy Markdown parse mode.
	Markdown bool
	// RemoveKeyboard asks the client to hide any reply keyboard.
	RemoveKeyboard bool
}

// Gateway delivers outbound messages.
type Gateway interface {
	SendText(ctx context.Context, to int64, text string, opts TextOptions) error
	SendPhoto(ctx context.Context, to int64, url, caption string) error
	SendPoll(ctx context.Context, chatID int64, question string, options []string) error
}

// WeatherSource returns the current weather for a location.
type WeatherSource interface {
	Current(ctx context.Context, location string) (upstream.Weather, error)
}

// RateSource returns a currency conversion rate.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (upstream.Rate, error)
}

// DogSource returns the URL of a random dog picture.
type DogSource interface {
	RandomURL(ctx context.Context) (string, error)
}

// Recorder persists finished flows.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}
