package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/m3rciful/utilbot/core/logger"
	"github.com/m3rciful/utilbot/core/telegram/state"
)

// PollDraft is the poll assembled by the poll flow.
type PollDraft struct {
	GroupChatID string
	Question    string
	Options     []string
}

// ChatID parses the validated group chat id.
func (d PollDraft) ChatID() (int64, error) {
	return strconv.ParseInt(d.GroupChatID, 10, 64)
}

// processPoll answers poll.options: it sends the poll to the group chat and
// confirms to the user.
func (b *Bot) processPoll(ctx context.Context, msg Message, sess state.Session) error {
	options := SplitOptions(msg.Text)
	if !b.keep(ctx, msg, StatePollOptions, fieldOptions, options) {
		return nil
	}
	draft := PollDraft{
		GroupChatID: sess.String(fieldGroupChatID),
		Question:    sess.String(fieldQuestion),
		Options:     options,
	}

	chatID, err := draft.ChatID()
	if err == nil {
		err = b.gateway.SendPoll(ctx, chatID, draft.Question, draft.Options)
	}
	if err != nil {
		return b.fail(ctx, msg, PollFlow, OutcomeRejected, err, fmt.Sprintf(replyPollRejected, draft.GroupChatID))
	}

	// The poll is already out, so the user hears about it even if the
	// session moved on meanwhile.
	if b.store.ClearIf(msg.UserID, PollFlow.Terminal) {
		recordTransition(KindPoll, PollFlow.Terminal, state.StateIdle)
	} else {
		logger.Info(ctx, component, "flow.stale_reply",
			slog.String("flow", string(KindPoll)),
			slog.String("outcome", OutcomeOK),
		)
	}
	recordOutcome(KindPoll, OutcomeOK)
	b.record(ctx, msg, KindPoll, OutcomeOK, draft.GroupChatID)
	return b.sendText(ctx, msg.ChatID, replyPollSent+draft.GroupChatID, TextOptions{})
}
