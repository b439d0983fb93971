package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getmockd/mockclient/internal/id"
)

// ErrUnsupportedSnapshot is returned when a snapshot has an unknown version.
var ErrUnsupportedSnapshot = errors.New("unsupported history snapshot version")

// WriteJSON writes an indented snapshot of the recorder to w.
func (r *Recorder[T]) WriteJSON(w io.Writer) error {
	snap := Snapshot[T]{Version: SnapshotVersion, Entries: r.Entries()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return nil
}

// SaveFile writes a snapshot to path, replacing any existing file atomically.
func (r *Recorder[T]) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+id.Short()+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename history file: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON[T any](rd io.Reader) ([]Entry[T], error) {
	var snap Snapshot[T]
	if err := json.NewDecoder(rd).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, snap.Version)
	}
	return snap.Entries, nil
}

// LoadFile reads a snapshot file written by SaveFile.
func LoadFile[T any](path string) ([]Entry[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()
	return ReadJSON[T](f)
}
