package engine

import (
	"fmt"
	"time"
)

// handleCursor relays a pointer position to the rest of the room, tagged
// with the sender's identity, color and drawing flag. Updates are
// throttled server-side to roughly 30fps; dropped updates produce no
// traffic.
func (e *Engine) handleCursor(c *Client, data map[string]interface{}) error {
	if c.room == nil || c.left {
		return nil
	}

	x, ok := data["x"].(float64)
	if !ok {
		return fmt.Errorf("missing cursor x")
	}
	y, ok := data["y"].(float64)
	if !ok {
		return fmt.Errorf("missing cursor y")
	}

	p, applied := c.room.SetCursor(c.ID, x, y, time.Now())
	if !applied {
		return nil
	}

	return e.broadcast(c.room, c.ID, map[string]interface{}{
		"type":        "cursor",
		"userId":      string(c.ID),
		"displayName": p.DisplayName,
		"color":       p.Color,
		"x":           x,
		"y":           y,
		"drawing":     p.Drawing,
	})
}

// handleDrawing flips the sender's drawing-in-progress flag and notifies
// the rest of the room.
func (e *Engine) handleDrawing(c *Client, drawing bool) error {
	if c.room == nil || c.left {
		return nil
	}

	p, applied := c.room.SetDrawing(c.ID, drawing)
	if !applied {
		return nil
	}

	event := "drawing:stop"
	if drawing {
		event = "drawing:start"
	}

	return e.broadcast(c.room, c.ID, map[string]interface{}{
		"type":        event,
		"userId":      string(c.ID),
		"displayName": p.DisplayName,
	})
}
