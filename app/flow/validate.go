package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/m3rciful/utilbot/core/telegram/state"
)

var (
	exchangePairRe = regexp.MustCompile(`^[A-Za-z]{3} [A-Za-z]{3}$`)
	groupChatIDRe  = regexp.MustCompile(`^-\d+$`)
	// a word character, "; ", a word character; word characters are Unicode
	// letters, digits and underscore
	pollOptionsRe = regexp.MustCompile(`[\p{L}\p{N}_]; [\p{L}\p{N}_]`)
)

// ValidationError reports input rejected by the current state. The session
// is left untouched and the user is re-prompted.
type ValidationError struct {
	State state.State
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for state %s", e.State)
}

// Code labels the error in handler summaries.
func (e *ValidationError) Code() string { return "validation" }

// Validate checks input against the format expected by st. States without a
// format check accept anything.
func Validate(st state.State, input string) error {
	var ok bool
	switch st {
	case StateWeatherLocation:
		ok = strings.TrimSpace(input) != ""
	case StateExchangePair:
		ok = exchangePairRe.MatchString(input)
	case StatePollChatID:
		ok = validGroupChatID(input)
	case StatePollOptions:
		ok = pollOptionsRe.MatchString(input)
	default:
		ok = true
	}
	if !ok {
		return &ValidationError{State: st, Input: input}
	}
	return nil
}

func validGroupChatID(input string) bool {
	if !groupChatIDRe.MatchString(input) {
		return false
	}
	_, err := strconv.ParseInt(input, 10, 64)
	return err == nil
}

// SplitOptions splits poll options on ';' keeping surrounding spaces, so
// "red; blue" yields "red" and " blue".
func SplitOptions(input string) []string {
	return strings.Split(input, ";")
}
