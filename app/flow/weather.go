package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/m3rciful/utilbot/app/upstream"
)

// processWeather answers the weather.location state and always ends the flow.
func (b *Bot) processWeather(ctx context.Context, msg Message) error {
	if !b.keep(ctx, msg, StateWeatherLocation, fieldLocation, msg.Text) {
		return nil
	}

	w, err := b.weather.Current(ctx, msg.Text)
	if err == nil {
		return b.finish(ctx, msg, WeatherFlow, OutcomeOK, w.Name, formatWeather(w))
	}
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		// the upstream wording is shown to the user as is
		return b.fail(ctx, msg, WeatherFlow, OutcomeUpstreamError, err, upErr.Code+" "+upErr.Message)
	}
	return b.fail(ctx, msg, WeatherFlow, OutcomeUnavailable, err, replyWeatherUnavailable)
}

func formatWeather(w upstream.Weather) string {
	return fmt.Sprintf("Weather in %s, %s: %s, temp: %s, feels like: %s, wind: %s.",
		w.Name, w.Country, w.Description, w.Temp, w.FeelsLike, w.WindSpeed)
}
