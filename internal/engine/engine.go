// Package engine is the synchronization core: it receives client intents,
// validates them against the room registry, mutates room state, and
// decides what gets fanned out to whom. Each connection moves through an
// implicit Unjoined -> Joined -> Left state machine; events arriving in
// the wrong state are dropped.
package engine

import (
	"encoding/json"
	"fmt"

	"drawsync/internal/middleware"
	"drawsync/internal/object"
	"drawsync/internal/room"
	"drawsync/internal/user"
)

// Engine orchestrates all room and presence mutations. It owns no state
// of its own beyond its collaborators, so independent instances can be
// constructed for tests.
type Engine struct {
	rooms     *room.Manager
	validator *object.Validator
	limits    *middleware.Limits
	fanout    Fanout
	audit     Recorder
}

func New(rooms *room.Manager, validator *object.Validator, limits *middleware.Limits, fanout Fanout, audit Recorder) *Engine {
	return &Engine{
		rooms:     rooms,
		validator: validator,
		limits:    limits,
		fanout:    fanout,
		audit:     audit,
	}
}

// Client is the engine's per-connection state.
type Client struct {
	ID   user.ID
	conn user.Sender
	room *room.Room // nil while unjoined
	left bool
}

// NewClient registers a fresh connection in the unjoined state.
func (e *Engine) NewClient(conn user.Sender) *Client {
	return &Client{ID: user.NewID(), conn: conn}
}

// Room exposes the client's current room; nil while unjoined.
func (c *Client) Room() *room.Room {
	return c.room
}

// Route decodes one inbound event and dispatches it. Returned errors mean
// a malformed payload; the caller logs and moves on, nothing is sent back
// to the client beyond the explicit error replies inside the handlers.
func (e *Engine) Route(c *Client, msg []byte) error {
	var data map[string]interface{}
	if err := json.Unmarshal(msg, &data); err != nil {
		return fmt.Errorf("unmarshal base message: %w", err)
	}

	messageType, ok := data["type"].(string)
	if !ok {
		return fmt.Errorf("missing message type")
	}

	switch messageType {
	case "room:create":
		return e.handleCreate(c, data)
	case "room:join":
		return e.handleJoin(c, data)
	case "room:leave":
		e.leave(c)
		return nil
	case "object:added":
		return e.handleObjectAdded(c, data)
	case "object:modified":
		return e.handleObjectModified(c, data)
	case "object:removed":
		return e.handleObjectRemoved(c, data)
	case "canvas:cleared":
		return e.handleCanvasCleared(c)
	case "cursor":
		return e.handleCursor(c, data)
	case "drawing:start":
		return e.handleDrawing(c, true)
	case "drawing:stop":
		return e.handleDrawing(c, false)
	case "sync:request":
		return e.handleSync(c)
	default:
		return fmt.Errorf("unknown message type: %s", messageType)
	}
}

// Disconnect runs the leave path when the transport reports a dead
// connection.
func (e *Engine) Disconnect(c *Client) {
	e.leave(c)
}

// reply sends a message to the originating client only.
func (e *Engine) reply(c *Client, v map[string]interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	return c.conn.Send(msg)
}

// replyError reports a recoverable failure to the requester. Errors are
// never surfaced to other participants.
func (e *Engine) replyError(c *Client, code, message string) error {
	return e.reply(c, map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": message,
	})
}

func (e *Engine) broadcast(rm *room.Room, sender user.ID, v map[string]interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal broadcast message: %w", err)
	}
	e.fanout.ToOthers(rm, sender, msg)
	return nil
}
