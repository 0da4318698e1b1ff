package helpers

import (
	"context"
	"sync/atomic"
)

type countersKey struct{}

// Counters tracks replies produced while handling one update. It is safe for
// concurrent use because replies may be sent from dispatcher workers.
type Counters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

// WithCounters returns ctx carrying a fresh Counters value.
func WithCounters(ctx context.Context) (context.Context, *Counters) {
	c := &Counters{}
	return context.WithValue(ctx, countersKey{}, c), c
}

// CountersFrom returns the counters attached by WithCounters, or nil.
func CountersFrom(ctx context.Context) *Counters {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(countersKey{}).(*Counters)
	return c
}

// RecordSent counts one outbound message for the update in ctx.
func RecordSent(ctx context.Context, withKeyboard bool) {
	c := CountersFrom(ctx)
	if c == nil {
		return
	}
	c.messages.Add(1)
	if withKeyboard {
		c.keyboard.Store(true)
	}
}

// Snapshot returns the message count and whether any reply carried a keyboard.
func (c *Counters) Snapshot() (int, bool) {
	if c == nil {
		return 0, false
	}
	return int(c.messages.Load()), c.keyboard.Load()
}
