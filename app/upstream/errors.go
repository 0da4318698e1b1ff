package upstream

import "fmt"

// Upstream names used in errors, logs and metric labels.
const (
	NameWeather  = "weather"
	NameExchange = "exchange"
	NameDog      = "dog"
)

// Error is an error reported by an upstream API, or a response that could not
// be interpreted. Code and Message carry the upstream values verbatim.
type Error struct {
	Upstream string
	// Status is the HTTP status of the response.
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Upstream, e.Code, e.Message)
}
