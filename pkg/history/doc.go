// Package history provides an append-only, concurrency-safe log of recorded
// exchanges.
//
// A Recorder assigns each appended value a strictly increasing Index, a ULID
// and a timestamp inside one critical section, so concurrent appends never
// share an ordinal. Entries are never removed or rewritten once appended.
//
// Recorders can be snapshotted to JSON and read back, which is how the test
// SDK dumps a failed test's history for offline inspection:
//
//	rec := history.New[*mockclient.Response]()
//	rec.Append(resp)
//	_ = rec.WriteJSON(os.Stdout)
package history
