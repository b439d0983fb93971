package history

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockclient/internal/id"
)

type exchange struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

func TestRecorder_Append(t *testing.T) {
	rec := New[exchange]()

	e := rec.Append(exchange{URL: "/a", Status: 200})

	assert.Equal(t, 0, e.Index)
	assert.True(t, id.IsValidULID(e.ID))
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, 1, rec.Len())
}

func TestRecorder_EmptyAccessors(t *testing.T) {
	rec := New[exchange]()

	_, ok := rec.First()
	assert.False(t, ok)
	_, ok = rec.Last()
	assert.False(t, ok)
	_, ok = rec.At(0)
	assert.False(t, ok)
	_, ok = rec.Get("nonexistent")
	assert.False(t, ok)
	assert.Empty(t, rec.Entries())
}

func TestRecorder_FirstLast(t *testing.T) {
	rec := New[exchange]()
	rec.Append(exchange{URL: "/a"})
	rec.Append(exchange{URL: "/b"})
	rec.Append(exchange{URL: "/c"})

	first, ok := rec.First()
	require.True(t, ok)
	assert.Equal(t, "/a", first.Value.URL)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "/c", last.Value.URL)
	assert.Equal(t, 2, last.Index)

	got, ok := rec.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestRecorder_EntriesIsCopy(t *testing.T) {
	rec := New[exchange]()
	rec.Append(exchange{URL: "/a"})

	entries := rec.Entries()
	entries[0].Value.URL = "/mutated"
	entries = append(entries, Entry[exchange]{})
	_ = entries

	first, _ := rec.First()
	assert.Equal(t, "/a", first.Value.URL)
	assert.Equal(t, 1, rec.Len())
}

func TestRecorder_Filter(t *testing.T) {
	rec := New[exchange]()
	rec.Append(exchange{URL: "/a", Status: 200})
	rec.Append(exchange{URL: "/b", Status: 500})
	rec.Append(exchange{URL: "/c", Status: 200})

	ok := rec.Filter(func(e Entry[exchange]) bool { return e.Value.Status == 200 })

	require.Len(t, ok, 2)
	assert.Equal(t, "/a", ok[0].Value.URL)
	assert.Equal(t, "/c", ok[1].Value.URL)
}

func TestRecorder_ConcurrentAppend(t *testing.T) {
	rec := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				rec.Append(n)
			}
		}(i)
	}
	wg.Wait()

	entries := rec.Entries()
	require.Len(t, entries, 1000)
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
		assert.False(t, seen[e.ID], "duplicate ID %s", e.ID)
		seen[e.ID] = true
	}
}

func TestRecorder_Subscribe(t *testing.T) {
	rec := New[exchange]()
	ch, unsubscribe := rec.Subscribe()
	defer unsubscribe()

	rec.Append(exchange{URL: "/a"})

	select {
	case e := <-ch:
		assert.Equal(t, "/a", e.Value.URL)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for entry")
	}
}

func TestRecorder_UnsubscribeTwice(t *testing.T) {
	rec := New[exchange]()
	ch, unsubscribe := rec.Subscribe()

	unsubscribe()
	assert.NotPanics(t, unsubscribe)

	_, open := <-ch
	assert.False(t, open)

	// Appending after unsubscribe must not panic on the closed channel.
	assert.NotPanics(t, func() { rec.Append(exchange{URL: "/b"}) })
}

func TestRecorder_SlowSubscriberDoesNotBlock(t *testing.T) {
	rec := New[int]()
	_, unsubscribe := rec.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			rec.Append(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("append blocked on a slow subscriber")
	}
	assert.Equal(t, subscriberBuffer*2, rec.Len())
}

func TestSnapshot_RoundTrip(t *testing.T) {
	rec := New[exchange]()
	rec.Append(exchange{URL: "/a", Status: 200})
	rec.Append(exchange{URL: "/b", Status: 404})

	var buf bytes.Buffer
	require.NoError(t, rec.WriteJSON(&buf))

	entries, err := ReadJSON[exchange](&buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/b", entries[1].Value.URL)
	assert.Equal(t, 404, entries[1].Value.Status)
	assert.Equal(t, 1, entries[1].Index)
}

func TestSnapshot_File(t *testing.T) {
	rec := New[exchange]()
	rec.Append(exchange{URL: "/a"})

	path := filepath.Join(t.TempDir(), "nested", "history.json")
	require.NoError(t, rec.SaveFile(path))

	entries, err := LoadFile[exchange](path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/a", entries[0].Value.URL)
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{not json`},
		{"unknown version", `{"version": 99, "entries": []}`},
		{"missing version", `{"entries": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON[exchange](strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := ReadJSON[exchange](strings.NewReader(`{"version": 2}`))
	assert.ErrorIs(t, err, ErrUnsupportedSnapshot)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile[exchange](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
