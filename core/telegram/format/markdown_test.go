package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b \*c\* \[d\]`, EscapeMarkdown("a_b *c* [d]"))
	assert.Equal(t, "plain /help", EscapeMarkdown("plain /help"))
}

func TestBoldAndLines(t *testing.T) {
	assert.Equal(t, "*Available commands:*\n/start\n/help", Lines(Bold("Available commands:"), "", "/start", "/help"))
}
