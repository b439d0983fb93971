// Package id provides identifier generation for mockclient.
//
//   - ULID: time-sortable identifiers stamped on history entries so a dumped
//     history sorts in call order even after it leaves the process
//   - UUID: random identifiers (google/uuid) used for fixture recording sessions
//   - Short: 16-character hex IDs for temporary file names
//
// Randomness comes from crypto/rand.
package id
