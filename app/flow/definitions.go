package flow

import (
	"slices"

	"github.com/m3rciful/utilbot/core/telegram/state"
)

// Kind names a flow or a stateless command in logs, metrics and the journal.
type Kind string

const (
	KindWeather  Kind = "weather"
	KindExchange Kind = "exchange"
	KindPoll     Kind = "poll"
	KindCute     Kind = "cute"
)

// Definition is the ordered list of states of one flow. Definitions are
// static and never mutated.
type Definition struct {
	Kind     Kind
	States   []state.State
	Terminal state.State
}

// First returns the state a new session of this flow starts in.
func (d Definition) First() state.State {
	return d.States[0]
}

// Next returns the state following st, or false for the terminal state.
func (d Definition) Next(st state.State) (state.State, bool) {
	i := slices.Index(d.States, st)
	if i < 0 || i+1 >= len(d.States) {
		return "", false
	}
	return d.States[i+1], true
}

var (
	WeatherFlow = Definition{
		Kind:     KindWeather,
		States:   []state.State{StateWeatherLocation},
		Terminal: StateWeatherLocation,
	}
	ExchangeFlow = Definition{
		Kind:     KindExchange,
		States:   []state.State{StateExchangePair},
		Terminal: StateExchangePair,
	}
	PollFlow = Definition{
		Kind:     KindPoll,
		States:   []state.State{StatePollChatID, StatePollQuestion, StatePollOptions},
		Terminal: StatePollOptions,
	}
)

var definitions = []Definition{WeatherFlow, ExchangeFlow, PollFlow}

// Owner returns the definition declaring st.
func Owner(st state.State) (Definition, bool) {
	for _, d := range definitions {
		if slices.Contains(d.States, st) {
			return d, true
		}
	}
	return Definition{}, false
}
