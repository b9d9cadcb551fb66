package ledger

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Entry is an immutable record of one completed delivery.
type Entry struct {
	Scope         snowflake.ID
	ScopeName     string
	Requester     snowflake.ID
	RequesterName string
	Module        string
	Item          string
	DeliveredAt   time.Time
}

// CapacityFunc reports how many entries to retain for a scope.
type CapacityFunc func(scope snowflake.ID) int

// Ledger is the bounded, most-recent-first delivery history.
type Ledger struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity CapacityFunc
}

func New(capacity CapacityFunc) *Ledger {
	return &Ledger{capacity: capacity}
}

// Record prepends the entry then trims the tail down to the capacity of
// the entry's scope.
func (l *Ledger) Record(entry Entry) {
	limit := max(l.capacity(entry.Scope), 0)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > limit {
		l.entries = l.entries[:limit]
	}
}

func (l *Ledger) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
