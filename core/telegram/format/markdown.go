package format

import (
	"strings"
)

var mdV1Escaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeMarkdown escapes text for Telegram's legacy Markdown parse mode.
func EscapeMarkdown(text string) string {
	return mdV1Escaper.Replace(text)
}

// Bold wraps escaped text in legacy Markdown bold markers.
func Bold(text string) string {
	return "*" + EscapeMarkdown(text) + "*"
}

// Lines joins non-empty parts with newlines.
func Lines(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
