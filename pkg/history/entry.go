package history

import "time"

// Entry is one recorded value along with its ordinal and recording time.
type Entry[T any] struct {
	// Index is the zero-based position in the recorder.
	Index int `json:"index"`

	// ID is a ULID, sortable by recording time.
	ID string `json:"id"`

	// Timestamp is when the value was appended.
	Timestamp time.Time `json:"timestamp"`

	// Value is the recorded payload.
	Value T `json:"value"`
}

// Snapshot is the serialized form of a recorder.
type Snapshot[T any] struct {
	Version int        `json:"version"`
	Entries []Entry[T] `json:"entries"`
}

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1
