package engine

import (
	"errors"
	"fmt"

	"drawsync/internal/room"
)

const maxDisplayName = 64

// displayName sanitizes the client-supplied name. Names are not unique
// and an empty one is allowed through as-is.
func (e *Engine) displayName(data map[string]interface{}) string {
	name, _ := data["displayName"].(string)
	name = e.validator.SanitizeString(name)
	if len(name) > maxDisplayName {
		name = name[:maxDisplayName]
	}
	return name
}

// handleCreate makes a new room with the sender as its sole member.
func (e *Engine) handleCreate(c *Client, data map[string]interface{}) error {
	if c.room != nil || c.left {
		return nil
	}

	rm, err := e.rooms.Create()
	if err != nil {
		if errors.Is(err, room.ErrServerFull) {
			return e.replyError(c, "server_full", err.Error())
		}
		return fmt.Errorf("create room: %w", err)
	}

	p, err := rm.AddParticipant(c.ID, e.displayName(data), c.conn)
	if err != nil {
		// fresh room cannot be full; treat as fatal for this event
		e.rooms.Destroy(rm.Code)
		return fmt.Errorf("join own room: %w", err)
	}
	c.room = rm

	e.audit.Record("room:create", map[string]interface{}{
		"room":   rm.Code,
		"userId": string(c.ID),
	})

	return e.reply(c, map[string]interface{}{
		"type":   "room:created",
		"roomId": rm.Code,
		"self":   p.Info(),
	})
}

// handleJoin adds the sender to an existing room and sends back the full
// state snapshot, so the joiner's first view matches the store at the
// instant of the read. Everyone else gets a join notice.
func (e *Engine) handleJoin(c *Client, data map[string]interface{}) error {
	if c.room != nil || c.left {
		return nil
	}

	code, ok := data["roomId"].(string)
	if !ok {
		return fmt.Errorf("missing roomId")
	}

	rm, found := e.rooms.Get(code)
	if !found {
		return e.replyError(c, "not_found", room.ErrRoomNotFound.Error())
	}

	p, err := rm.AddParticipant(c.ID, e.displayName(data), c.conn)
	if err != nil {
		if errors.Is(err, room.ErrRoomFull) {
			return e.replyError(c, "room_full", err.Error())
		}
		return fmt.Errorf("join room: %w", err)
	}
	c.room = rm

	if err := e.broadcast(rm, c.ID, map[string]interface{}{
		"type": "user:joined",
		"user": p.Info(),
	}); err != nil {
		return err
	}

	e.audit.Record("room:join", map[string]interface{}{
		"room":   rm.Code,
		"userId": string(c.ID),
	})

	snap := rm.Snapshot()
	return e.reply(c, map[string]interface{}{
		"type":         "room:joined",
		"roomId":       rm.Code,
		"self":         p.Info(),
		"objects":      snap.Objects,
		"participants": snap.Participants,
		"timestamp":    snap.LastUpdate.UnixMilli(),
	})
}

// handleSync re-sends the full current snapshot to the requester only.
// Tolerated but ignored before a join.
func (e *Engine) handleSync(c *Client) error {
	if c.room == nil || c.left {
		return nil
	}

	snap := c.room.Snapshot()
	return e.reply(c, map[string]interface{}{
		"type":         "sync",
		"objects":      snap.Objects,
		"participants": snap.Participants,
		"timestamp":    snap.LastUpdate.UnixMilli(),
	})
}

// leave removes the participant and destroys the room when it empties.
// Remaining participants get a departure notice carrying the departed
// identity. A leave before any join is ignored like every other
// wrong-state event: the connection stays unjoined and may still create
// or join a room.
func (e *Engine) leave(c *Client) {
	rm := c.room
	if rm == nil {
		return
	}
	c.room = nil
	c.left = true

	p, remaining := rm.RemoveParticipant(c.ID)
	if p == nil {
		return
	}

	if remaining == 0 {
		e.rooms.Destroy(rm.Code)
		e.audit.Record("room:destroy", map[string]interface{}{"room": rm.Code})
		return
	}

	e.broadcast(rm, c.ID, map[string]interface{}{
		"type": "user:left",
		"user": p.Info(),
	})
	e.audit.Record("room:leave", map[string]interface{}{
		"room":   rm.Code,
		"userId": string(c.ID),
	})
}
