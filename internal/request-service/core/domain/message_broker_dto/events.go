package messagebrokerdto

// RequestStatusEvent is published to the request_topic exchange after every
// successful lifecycle transition. Consumers (the notification worker, and
// anything external) treat it as fire-and-forget.
type RequestStatusEvent struct {
	RequestID        string `json:"request_id"`
	RequesterID      string `json:"requester_id"`
	Status           string `json:"status"`
	AssignedMechanic string `json:"assigned_mechanic,omitempty"`
	Timestamp        string `json:"timestamp"`
	CorrelationID    string `json:"correlation_id"`
}
