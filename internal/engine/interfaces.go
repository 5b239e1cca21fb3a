package engine

import (
	"drawsync/internal/room"
	"drawsync/internal/user"
)

// Fanout delivers one message to a room's connections. room.Broadcaster is
// the production implementation; tests substitute a recording fake.
type Fanout interface {
	ToOthers(rm *room.Room, sender user.ID, msg []byte)
	ToAll(rm *room.Room, msg []byte)
}

// Recorder is the write-side hook for the audit trail, called after each
// accepted mutation.
type Recorder interface {
	Record(event string, payload map[string]interface{})
}
