// Package state provides the in-memory conversation state store used by the
// bot. Sessions are keyed by Telegram user id, live for the process lifetime
// and are never persisted.
package state
