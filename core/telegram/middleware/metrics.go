package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	tghelpers "github.com/m3rciful/utilbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

var updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "utilbot_telegram_updates_total",
	Help: "Telegram updates received by kind",
}, []string{"kind"})

// metricsContext counts replies sent directly through tele.Context.
type metricsContext struct{ tele.Context }

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) record(err error, opts []any) error {
	if err == nil {
		tghelpers.RecordSent(tghelpers.BuildContext(m.Context), hasKeyboard(opts))
	}
	return err
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what any, opts ...any) error {
	return m.record(m.Context.Send(what, opts...), opts)
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what any, opts ...any) error {
	return m.record(m.Context.Reply(what, opts...), opts)
}

// MessageMetricsMiddleware attaches per-update reply counters and counts the update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		updatesTotal.WithLabelValues(UpdateKind(c.Update())).Inc()
		ctx, _ := tghelpers.WithCounters(tghelpers.BuildContext(c))
		tghelpers.StoreContext(c, ctx)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag of the current update.
func GetCounters(c tele.Context) (int, bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, false
	}
	return tghelpers.CountersFrom(ctx).Snapshot()
}
