package user

import (
	"time"

	"github.com/google/uuid"
)

// ID identifies one connected participant. It is assigned by the transport
// at connection time and is stable for the connection's lifetime. A
// distinct type keeps it from being confused with display names.
type ID string

// NewID generates a fresh participant identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Sender delivers one outbound message to a single connection.
// The transport's websocket wrapper implements it; tests substitute fakes.
type Sender interface {
	Send(msg []byte) error
}

// Participant is one connected client within a room.
type Participant struct {
	ID          ID
	DisplayName string
	Color       string
	CursorX     float64
	CursorY     float64
	CursorKnown bool
	Drawing     bool
	Conn        Sender

	lastCursor time.Time
}

// ThrottleCursor reports whether a cursor update at now should be applied,
// limiting updates to roughly 30 per second. It records now as the last
// accepted update when it returns true.
func (p *Participant) ThrottleCursor(now time.Time) bool {
	if !p.lastCursor.IsZero() && now.Sub(p.lastCursor) < 33*time.Millisecond {
		return false
	}
	p.lastCursor = now
	return true
}

// Info is the participant's public identity, as sent to other clients.
type Info struct {
	ID          ID     `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Drawing     bool   `json:"drawing"`
}

// Info returns the participant's broadcastable identity.
func (p *Participant) Info() Info {
	return Info{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Color:       p.Color,
		Drawing:     p.Drawing,
	}
}
