package observability

// Routing keys for websocket lifecycle events.
const (
	RoutingKeyWSEvents      = "ws_events.realtime"
	RoutingKeyNotifications = "notifications.created"
)

type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}

// WSEventPayload describes a websocket lifecycle event for the audit stream.
type WSEventPayload struct {
	Event      string `json:"event"`
	ConnID     string `json:"conn_id"`
	UserID     int    `json:"user_id"`
	IP         string `json:"ip"`
	DurationMS int64  `json:"duration_ms"`
	Reason     string `json:"reason,omitempty"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
