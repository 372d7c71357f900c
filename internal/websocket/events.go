// internal/websocket/events.go
package websocket

import (
	"encoding/json"
	"time"
)

const (
	EventConnected   = "connected"
	EventResultReady = "result_ready"
	EventPing        = "ping"
	EventPong        = "pong"
)

// Event is the wire envelope for every frame the hub sends or accepts.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ParseEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
