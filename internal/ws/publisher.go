package ws

import (
	"context"
	"encoding/json"

	"smart-resume-match/internal/events"
)

// Publish broadcasts evt as JSON to every connected client. Slow clients
// are dropped by the hub rather than blocking the caller.
func (h *Hub) Publish(_ context.Context, evt events.Event) error {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}
