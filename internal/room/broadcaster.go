package room

import (
	"log"
	"sync"

	"drawsync/internal/user"
)

// Broadcaster fans one message out to a room's connections.
type Broadcaster struct{}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// ToOthers sends msg to every participant in the room except sender. The
// sender already holds the authoritative local copy it just produced, so
// echoing it back would be redundant traffic.
func (b *Broadcaster) ToOthers(rm *Room, sender user.ID, msg []byte) {
	b.send(rm, msg, func(p *user.Participant) bool { return p.ID != sender })
}

// ToAll sends msg to every participant in the room, sender included.
func (b *Broadcaster) ToAll(rm *Room, msg []byte) {
	b.send(rm, msg, func(*user.Participant) bool { return true })
}

func (b *Broadcaster) send(rm *Room, msg []byte, include func(*user.Participant) bool) {
	targets := make([]*user.Participant, 0)
	for _, p := range rm.Connections() {
		if include(p) {
			targets = append(targets, p)
		}
	}

	// Concurrent write to all targets; delivery is fire-and-forget.
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []*user.Participant

	for _, p := range targets {
		wg.Add(1)
		go func(p *user.Participant) {
			defer wg.Done()

			if err := p.Conn.Send(msg); err != nil {
				log.Printf("broadcast failed for participant %s: %v", p.ID, err)
				mu.Lock()
				failed = append(failed, p)
				mu.Unlock()
			}
		}(p)
	}

	wg.Wait()

	// Dead connections are dropped from the room; the transport's read
	// loop notices the closed socket and runs the full leave path.
	for _, p := range failed {
		rm.RemoveParticipant(p.ID)
	}
}
