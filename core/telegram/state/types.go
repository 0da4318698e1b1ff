package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session is a snapshot of a user's conversation: the current state and the
// field values collected by the active flow.
type Session struct {
	State  State
	Fields map[string]any
}

// Idle reports whether no flow is active.
func (s Session) Idle() bool {
	return s.State == "" || s.State == StateIdle
}

// String returns a string field or "" when absent or of another type.
func (s Session) String(key string) string {
	v, _ := s.Fields[key].(string)
	return v
}

// Strings returns a list field or nil when absent or of another type.
func (s Session) Strings(key string) []string {
	v, _ := s.Fields[key].([]string)
	return v
}

// Store keeps one session per user. Every method is atomic; callers that
// must not overwrite a concurrent change use the compare-and-* variants.
type Store interface {
	// Get returns a copy of the session, or an idle session when none exists.
	Get(userID int64) Session
	// Start replaces any existing session with a fresh one in the given state.
	Start(userID int64, st State)
	// SetState moves the session to st, keeping its fields.
	SetState(userID int64, st State)
	// SetField stores a field value on the session.
	SetField(userID int64, key string, value any)
	// Advance stores the field and moves to next only if the session is
	// still in expected. It reports whether the write happened.
	Advance(userID int64, expected, next State, key string, value any) bool
	// Clear resets the session to idle with no fields.
	Clear(userID int64)
	// ClearIf clears the session only if it is in expected.
	ClearIf(userID int64, expected State) bool
	// InProgress reports whether the user has a non-idle session.
	InProgress(userID int64) bool
	// Len returns the number of stored sessions.
	Len() int
}
