// Package audit keeps a bounded in-memory trail of accepted mutations for
// observability. The newest entry overwrites the oldest once the buffer is
// full; nothing is persisted.
package audit

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained.
const DefaultCapacity = 100

// Entry is one recorded event.
type Entry struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	At      time.Time              `json:"at"`
}

// Log is a fixed-size ring of recent entries.
type Log struct {
	entries []Entry
	next    int
	filled  bool
	mu      sync.Mutex
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{entries: make([]Entry, capacity)}
}

// Record appends one event, overwriting the oldest entry beyond capacity.
func (l *Log) Record(event string, payload map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = Entry{Event: event, Payload: payload, At: time.Now()}
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.filled = true
	}
}

// Entries returns the retained entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	size := l.next
	if l.filled {
		size = len(l.entries)
	}

	out := make([]Entry, 0, size)
	for i := 1; i <= size; i++ {
		idx := l.next - i
		if idx < 0 {
			idx += len(l.entries)
		}
		out = append(out, l.entries[idx])
	}
	return out
}

// Handler serves the retained entries as JSON, newest first.
func (l *Log) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(l.Entries()); err != nil {
			log.Printf("encode audit entries: %v", err)
		}
	}
}
