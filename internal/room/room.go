package room

import (
	"errors"
	"sync"
	"time"

	"drawsync/internal/object"
	"drawsync/internal/user"
)

var (
	// ErrRoomFull is returned when a join would exceed the room's capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomNotFound is returned when a room code resolves to nothing.
	ErrRoomNotFound = errors.New("room not found")
	// ErrServerFull is returned when the global room limit is reached.
	ErrServerFull = errors.New("server at maximum room capacity")
	// ErrTooManyObjects is returned when a room's object cap is reached.
	ErrTooManyObjects = errors.New("room at maximum object capacity")
)

// Room is one collaborative canvas session: its participants and the
// authoritative keyed object store. A room with zero participants is not
// retained; the engine destroys it on the last leave.
type Room struct {
	Code string

	capacity   int
	maxObjects int

	participants map[user.ID]*user.Participant
	objects      map[string]*object.Drawing
	lastUpdate   time.Time
	createdAt    time.Time
	mu           sync.RWMutex
}

func newRoom(code string, capacity, maxObjects int) *Room {
	return &Room{
		Code:         code,
		capacity:     capacity,
		maxObjects:   maxObjects,
		participants: make(map[user.ID]*user.Participant),
		objects:      make(map[string]*object.Drawing),
		createdAt:    time.Now(),
	}
}

// AddParticipant registers a new participant and assigns the first unused
// palette color. Fails with ErrRoomFull at capacity.
func (r *Room) AddParticipant(id user.ID, displayName string, conn user.Sender) (*user.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) >= r.capacity {
		return nil, ErrRoomFull
	}

	inUse := make(map[string]bool, len(r.participants))
	for _, p := range r.participants {
		inUse[p.Color] = true
	}

	p := &user.Participant{
		ID:          id,
		DisplayName: displayName,
		Color:       user.PickColor(inUse),
		Conn:        conn,
	}
	r.participants[id] = p
	return p, nil
}

// RemoveParticipant removes a participant and returns their last-known
// state, so the departure notice can carry their identity. The second
// return is the remaining participant count.
func (r *Room) RemoveParticipant(id user.ID) (*user.Participant, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, len(r.participants)
	}
	delete(r.participants, id)
	return p, len(r.participants)
}

// Participant looks up one participant by id.
func (r *Room) Participant(id user.ID) (*user.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[id]
	return p, ok
}

// SetCursor records a participant's pointer position. No-op if the
// participant is gone, which defends against events racing a disconnect.
// The second return is false when the update was dropped, either because
// the participant vanished or the throttle window rejected it.
func (r *Room) SetCursor(id user.ID, x, y float64, now time.Time) (*user.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, false
	}
	if !p.ThrottleCursor(now) {
		return nil, false
	}
	p.CursorX, p.CursorY = x, y
	p.CursorKnown = true
	return p, true
}

// SetDrawing flips a participant's drawing-in-progress flag. No-op if the
// participant is gone.
func (r *Room) SetDrawing(id user.ID, drawing bool) (*user.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, false
	}
	p.Drawing = drawing
	return p, true
}

// ParticipantCount returns the number of participants in the room.
func (r *Room) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.participants)
}

// Connections returns a snapshot of current participants for fan-out.
func (r *Room) Connections() []*user.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*user.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, p)
	}
	return out
}

// AddObject inserts or overwrites wholesale at obj.ID. Fails with
// ErrTooManyObjects when inserting a new id past the room's object cap.
func (r *Room) AddObject(obj *object.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[obj.ID]; !exists && len(r.objects) >= r.maxObjects {
		return ErrTooManyObjects
	}
	r.objects[obj.ID] = obj
	r.lastUpdate = time.Now()
	return nil
}

// MergeObject shallow-merges partial props into the object at id: new keys
// added, existing keys overwritten, untouched keys preserved. Returns
// false without touching the store when id is absent.
func (r *Room) MergeObject(id string, partial map[string]interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, exists := r.objects[id]
	if !exists {
		return false
	}
	for k, v := range partial {
		obj.Props[k] = v
	}
	r.lastUpdate = time.Now()
	return true
}

// DeleteObject removes the object at id; no-op if absent, in which case
// lastUpdate is left alone since nothing was mutated.
func (r *Room) DeleteObject(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[id]; !exists {
		return
	}
	delete(r.objects, id)
	r.lastUpdate = time.Now()
}

// ClearObjects empties the object store entirely.
func (r *Room) ClearObjects() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects = make(map[string]*object.Drawing)
	r.lastUpdate = time.Now()
}

// Object retrieves one object by id.
func (r *Room) Object(id string) (*object.Drawing, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[id]
	return obj, ok
}

// ObjectCount returns the number of objects in the room.
func (r *Room) ObjectCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.objects)
}

// Snapshot is a consistent view of the room's state, handed to joining
// and resyncing clients before live updates resume.
type Snapshot struct {
	Objects      []*object.Drawing `json:"objects"`
	Participants []user.Info       `json:"participants"`
	LastUpdate   time.Time         `json:"lastUpdate"`
}

// Snapshot copies the full current state under one lock acquisition, so a
// joiner's first view is never interleaved with a mutation.
func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	objs := make([]*object.Drawing, 0, len(r.objects))
	for _, obj := range r.objects {
		objs = append(objs, obj.Clone())
	}

	roster := make([]user.Info, 0, len(r.participants))
	for _, p := range r.participants {
		roster = append(roster, p.Info())
	}

	return Snapshot{
		Objects:      objs,
		Participants: roster,
		LastUpdate:   r.lastUpdate,
	}
}
