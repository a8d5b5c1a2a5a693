package service

import (
	"encoding/json"

	ws "clinicpos/internal/websocket"
)

// Event is the payload broadcast to connected billing terminals.
type Event struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// broadcast pushes an event to all websocket clients. Best-effort: a
// nil hub (tests) or marshal failure never affects the operation.
func broadcast(hub *ws.Hub, event string, data map[string]interface{}) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return
	}
	hub.Broadcast <- payload
}
