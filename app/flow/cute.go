package flow

import (
	"context"
	"log/slog"

	"github.com/m3rciful/utilbot/core/logger"
)

// cute sends a random cat or dog picture to the user directly. It keeps no
// session state.
func (b *Bot) cute(ctx context.Context, msg Message) error {
	animal := "cat"
	var photo string
	if b.pickDog() {
		animal = "dog"
		url, err := b.dogs.RandomURL(ctx)
		if err != nil {
			logger.Warn(ctx, component, "flow.failed",
				slog.String("flow", string(KindCute)),
				slog.String("err", err.Error()),
			)
			recordOutcome(KindCute, OutcomeUnavailable)
			b.record(ctx, msg, KindCute, OutcomeUnavailable, animal)
			return b.sendText(ctx, msg.ChatID, replyCuteUnavailable, TextOptions{})
		}
		photo = url
	} else {
		photo = b.catURL(b.now())
	}

	if err := b.gateway.SendPhoto(ctx, msg.UserID, photo, cuteCaption); err != nil {
		return &TransportError{Op: "send_photo", Err: err}
	}
	recordOutcome(KindCute, OutcomeOK)
	b.record(ctx, msg, KindCute, OutcomeOK, animal)
	return nil
}
