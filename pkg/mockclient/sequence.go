package mockclient

import "sync"

// sequenceQueue is a FIFO of items consumed one per resolution.
type sequenceQueue struct {
	mu       sync.Mutex
	items    []Item
	consumed int
}

func (q *sequenceQueue) push(items ...Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// pop removes and returns the head of the queue. exhausted is set when the
// queue is empty and at least one item was consumed before.
func (q *sequenceQueue) pop() (item Item, ok, exhausted bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, q.consumed > 0
	}
	item = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.consumed++
	return item, true, false
}

func (q *sequenceQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
