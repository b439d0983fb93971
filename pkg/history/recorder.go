package history

import (
	"sync"
	"time"

	"github.com/getmockd/mockclient/internal/id"
)

// subscriberBuffer is the channel capacity handed to each subscriber.
const subscriberBuffer = 100

// Recorder is an append-only log of values.
type Recorder[T any] struct {
	mu      sync.RWMutex
	entries []Entry[T]
	now     func() time.Time

	subMu       sync.RWMutex
	subscribers map[chan Entry[T]]struct{}
}

// New creates an empty Recorder.
func New[T any]() *Recorder[T] {
	return &Recorder[T]{
		now:         time.Now,
		subscribers: make(map[chan Entry[T]]struct{}),
	}
}

// Append records v and returns the resulting entry.
func (r *Recorder[T]) Append(v T) Entry[T] {
	r.mu.Lock()
	entry := Entry[T]{
		Index:     len(r.entries),
		ID:        id.ULID(),
		Timestamp: r.now(),
		Value:     v,
	}
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	// Notify subscribers (non-blocking)
	r.subMu.RLock()
	for sub := range r.subscribers {
		select {
		case sub <- entry:
		default:
			// Drop if subscriber is slow
		}
	}
	r.subMu.RUnlock()

	return entry
}

// Len returns the number of recorded entries.
func (r *Recorder[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// At returns the entry at index i.
func (r *Recorder[T]) At(i int) (Entry[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.entries) {
		var zero Entry[T]
		return zero, false
	}
	return r.entries[i], true
}

// First returns the oldest entry.
func (r *Recorder[T]) First() (Entry[T], bool) {
	return r.At(0)
}

// Last returns the newest entry.
func (r *Recorder[T]) Last() (Entry[T], bool) {
	r.mu.RLock()
	n := len(r.entries)
	r.mu.RUnlock()
	return r.At(n - 1)
}

// Get retrieves an entry by ID.
func (r *Recorder[T]) Get(entryID string) (Entry[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == entryID {
			return e, true
		}
	}
	var zero Entry[T]
	return zero, false
}

// Entries returns a copy of all entries in recording order.
func (r *Recorder[T]) Entries() []Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[T], len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the entries for which keep reports true, oldest first.
func (r *Recorder[T]) Filter(keep func(Entry[T]) bool) []Entry[T] {
	var out []Entry[T]
	for _, e := range r.Entries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Subscribe registers a subscriber to receive new entries.
// Returns a channel that will receive entries and an unsubscribe function.
// Entries are dropped for subscribers that fall behind.
func (r *Recorder[T]) Subscribe() (<-chan Entry[T], func()) {
	ch := make(chan Entry[T], subscriberBuffer)

	r.subMu.Lock()
	r.subscribers[ch] = struct{}{}
	r.subMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subscribers, ch)
			r.subMu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}
