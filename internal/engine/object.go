package engine

import (
	"errors"
	"fmt"

	"drawsync/internal/object"
	"drawsync/internal/room"
)

// handleObjectAdded validates and stores a new object, then relays the
// mutation verbatim to everyone else in the room.
func (e *Engine) handleObjectAdded(c *Client, data map[string]interface{}) error {
	if c.room == nil || c.left {
		return nil
	}

	objMsg, ok := data["object"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("missing object data")
	}

	id, ok := objMsg["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("missing object id")
	}

	objType, ok := objMsg["type"].(string)
	if !ok {
		return fmt.Errorf("missing or invalid object type")
	}

	props, ok := objMsg["props"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("missing or invalid object props")
	}

	if err := e.limits.ValidateObjectComplexity(props); err != nil {
		return err
	}

	sanitized, err := e.validator.ValidateProps(objType, props)
	if err != nil {
		return fmt.Errorf("object validation failed: %w", err)
	}

	zIndex, _ := objMsg["zIndex"].(float64)

	obj := &object.Drawing{
		ID:      e.validator.SanitizeString(id),
		Type:    objType,
		Props:   sanitized,
		OwnerID: string(c.ID),
		ZIndex:  int(zIndex),
	}

	if err := c.room.AddObject(obj); err != nil {
		if errors.Is(err, room.ErrTooManyObjects) {
			return e.replyError(c, "too_many_objects", err.Error())
		}
		return err
	}

	e.audit.Record("object:added", map[string]interface{}{
		"room":     c.room.Code,
		"userId":   string(c.ID),
		"objectId": obj.ID,
	})

	objMsg["id"] = obj.ID
	objMsg["props"] = sanitized
	data["object"] = objMsg
	data["userId"] = string(c.ID)
	return e.broadcast(c.room, c.ID, data)
}

// handleObjectModified shallow-merges a partial property set into the
// object at id. An absent id is a silent no-op: nothing is stored and
// nothing is broadcast.
func (e *Engine) handleObjectModified(c *Client, data map[string]interface{}) error {
	if c.room == nil || c.left {
		return nil
	}

	id, ok := data["id"].(string)
	if !ok {
		return fmt.Errorf("missing object id")
	}

	props, ok := data["props"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("missing or invalid object props")
	}

	if err := e.limits.ValidateObjectComplexity(props); err != nil {
		return err
	}

	sanitized := e.validator.SanitizeMap(props)
	if !c.room.MergeObject(id, sanitized) {
		return nil
	}

	e.audit.Record("object:modified", map[string]interface{}{
		"room":     c.room.Code,
		"userId":   string(c.ID),
		"objectId": id,
	})

	data["props"] = sanitized
	data["userId"] = string(c.ID)
	return e.broadcast(c.room, c.ID, data)
}

// handleObjectRemoved deletes the object at id; absence is a no-op on the
// store, but the removal still relays so all views converge.
func (e *Engine) handleObjectRemoved(c *Client, data map[string]interface{}) error {
	if c.room == nil || c.left {
		return nil
	}

	id, ok := data["id"].(string)
	if !ok {
		return fmt.Errorf("missing object id")
	}

	c.room.DeleteObject(id)

	e.audit.Record("object:removed", map[string]interface{}{
		"room":     c.room.Code,
		"userId":   string(c.ID),
		"objectId": id,
	})

	data["userId"] = string(c.ID)
	return e.broadcast(c.room, c.ID, data)
}

// handleCanvasCleared empties the room's object store.
func (e *Engine) handleCanvasCleared(c *Client) error {
	if c.room == nil || c.left {
		return nil
	}

	c.room.ClearObjects()

	e.audit.Record("canvas:cleared", map[string]interface{}{
		"room":   c.room.Code,
		"userId": string(c.ID),
	})

	return e.broadcast(c.room, c.ID, map[string]interface{}{
		"type":   "canvas:cleared",
		"userId": string(c.ID),
	})
}
