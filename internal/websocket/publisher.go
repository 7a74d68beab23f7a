package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publish sends an event to a room's Redis channel. Every server process
// subscribed to that room rebroadcasts it to its local clients.
func (h *Handler) Publish(ctx context.Context, roomID string, event Event) error {
	if roomID == "" {
		return fmt.Errorf("websocket publish: roomID required")
	}
	if h.redisClient == nil {
		return fmt.Errorf("websocket publish: redis client not initialised")
	}

	messageJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("websocket publish: marshal payload: %w", err)
	}

	if err := h.redisClient.Publish(ctx, roomID, string(messageJSON)).Err(); err != nil {
		return fmt.Errorf("websocket publish: redis publish: %w", err)
	}
	return nil
}
