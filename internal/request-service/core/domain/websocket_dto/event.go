package websocketdto

import "encoding/json"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RequestStatusUpdateDto is pushed to the requester's websocket when their
// request changes status.
type RequestStatusUpdateDto struct {
	RequestID        string `json:"request_id"`
	Status           string `json:"status"`
	AssignedMechanic string `json:"assigned_mechanic,omitempty"`
	CorrelationID    string `json:"correlation_id"`
}
