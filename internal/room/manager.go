package room

import (
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6
)

// Manager is the session registry. It owns every live Room, assigns room
// codes, and is the only way rooms are created or destroyed.
type Manager struct {
	rooms       map[string]*Room
	maxRooms    int
	maxRoomSize int
	maxObjects  int
	mu          sync.RWMutex
}

func NewManager(maxRooms, maxRoomSize, maxObjects int) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		maxRooms:    maxRooms,
		maxRoomSize: maxRoomSize,
		maxObjects:  maxObjects,
	}
}

// Create registers a new empty room under a freshly generated code. Codes
// are short human-typeable tokens; generation retries until the code does
// not collide with a live room, so concurrently-live codes are unique.
func (m *Manager) Create() (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rooms) >= m.maxRooms {
		return nil, ErrServerFull
	}

	for {
		code, err := gonanoid.Generate(codeAlphabet, codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := m.rooms[code]; taken {
			continue
		}
		rm := newRoom(code, m.maxRoomSize, m.maxObjects)
		m.rooms[code] = rm
		return rm, nil
	}
}

// Get looks up a room by code. Absence is a normal outcome: clients may
// reference stale or mistyped codes.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rm, ok := m.rooms[code]
	return rm, ok
}

// Destroy removes a room from the registry. Callers must have confirmed
// the room is empty.
func (m *Manager) Destroy(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, code)
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}

// ParticipantTotal sums participants across all rooms, for health reporting.
func (m *Manager) ParticipantTotal() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, rm := range m.rooms {
		total += rm.ParticipantCount()
	}
	return total
}
