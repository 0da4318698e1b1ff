package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/utilbot/app/upstream"
)

// processExchange answers the exchange.pair state. Input was validated as two
// three-letter codes.
func (b *Bot) processExchange(ctx context.Context, msg Message) error {
	if !b.keep(ctx, msg, StateExchangePair, fieldPair, msg.Text) {
		return nil
	}

	codes := strings.Fields(strings.ToUpper(msg.Text))
	from, to := codes[0], codes[1]

	rate, err := b.exchange.Rate(ctx, from, to)
	if err != nil {
		outcome := OutcomeUnavailable
		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			outcome = OutcomeUpstreamError
		}
		return b.fail(ctx, msg, ExchangeFlow, outcome, err, replyExchangeUnavailable)
	}
	return b.finish(ctx, msg, ExchangeFlow, OutcomeOK, from+" "+to,
		fmt.Sprintf("%s to %s: %s.", rate.From, rate.To, rate.Value))
}
