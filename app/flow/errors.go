package flow

import "fmt"

// TransportError reports that the messaging gateway could not deliver a
// reply. It is returned from Bot.Handle to the transport layer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
