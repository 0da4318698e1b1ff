package flow

import (
	"github.com/m3rciful/utilbot/core/telegram/format"
	"github.com/m3rciful/utilbot/core/telegram/state"
)

const (
	replyStart   = "Hello there. Type /help to get the list of commands."
	replyUnknown = "Invalid entry. Use /help"
	replyCancel  = "Cancelled."
)

const (
	promptWeather           = "Enter location name."
	replyWeatherUnavailable = "Could not get the weather right now. Please try again later."
)

const (
	promptExchange           = "Enter from currency and to currency separated by space."
	replyExchangeInvalid     = `Invalid query. Example: "USD EUR".`
	replyExchangeUnavailable = "Could not get the exchange rate right now. Please try again later."
)

const (
	cuteCaption          = "Here is your cutie."
	replyCuteUnavailable = "Could not fetch a cute animal right now. Please try again later."
)

const (
	promptPoll              = "Creating a poll for a group chat. State a group chat ID (example: -912691444; don't forget to invite the bot to the chat)."
	replyPollChatInvalid    = "Invalid group chat ID. Example: -912691444. Don't forget to invite the bot to the chat."
	promptPollQuestion      = "State a question."
	promptPollOptions       = "State options. Separate them by a semicolon and a space."
	replyPollOptionsInvalid = "At least 2 options are required. Separate them by a semicolon and a space."
	replyPollSent           = "Poll sent to the group chat "
	replyPollRejected       = "Could not send the poll to the group chat %s. Make sure the bot is a member of the chat."
)

var helpText = format.Lines(
	format.Bold("Available commands:"),
	CmdStart, CmdHelp, CmdWeather, CmdExchange, CmdCute, CmdPoll,
)

// invalidReply is the re-prompt sent when input fails validation in st.
func invalidReply(st state.State) string {
	switch st {
	case StateWeatherLocation:
		return promptWeather
	case StateExchangePair:
		return replyExchangeInvalid
	case StatePollChatID:
		return replyPollChatInvalid
	case StatePollOptions:
		return replyPollOptionsInvalid
	}
	return replyUnknown
}
