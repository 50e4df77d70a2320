package ws

// EventError is a per-event failure reported in-band to the originating
// connection. It never closes the connection or escapes the dispatch loop.
type EventError struct {
	Kind    string
	Message string
}

const (
	errKindInvalidRequest = "invalid_request"
	errKindUnauthorized   = "unauthorized"
	errKindPersistence    = "persistence_failure"
)

func (e *EventError) Error() string {
	return e.Message
}

func invalidRequest(message string) *EventError {
	return &EventError{Kind: errKindInvalidRequest, Message: message}
}

func unauthorized(message string) *EventError {
	return &EventError{Kind: errKindUnauthorized, Message: message}
}

func persistenceFailure(message string) *EventError {
	return &EventError{Kind: errKindPersistence, Message: message}
}
