package live

import "encoding/json"

// Event types pushed to subscribers.
const (
	EventTimingUpdate = "timing_update"
	EventMessage      = "message"
	EventError        = "error"
)

// Event is one message on a room. Payload is pre-marshalled once per
// publish, not once per subscriber.
type Event struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into an Event. A payload that cannot marshal is
// a programming error; the event is returned with a null payload and the
// error surfaced to the caller.
func NewEvent(eventType, room string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{Type: eventType, Room: room}, err
	}
	return Event{Type: eventType, Room: room, Payload: raw}, nil
}

// clientRequest is the inbound frame a subscriber sends to join or leave a
// session room.
type clientRequest struct {
	Action  string `json:"action"`
	Session string `json:"session"`
}
