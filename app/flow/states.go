package flow

import "github.com/m3rciful/utilbot/core/telegram/state"

// Conversation states. Each one belongs to exactly one Definition.
const (
	StateWeatherLocation state.State = "weather.location"
	StateExchangePair    state.State = "exchange.pair"
	StatePollChatID      state.State = "poll.chat_id"
	StatePollQuestion    state.State = "poll.question"
	StatePollOptions     state.State = "poll.options"
)

// Session field keys.
const (
	fieldLocation    = "location"
	fieldPair        = "exchange_data"
	fieldGroupChatID = "group_chat_id"
	fieldQuestion    = "question"
	fieldOptions     = "options"
)
