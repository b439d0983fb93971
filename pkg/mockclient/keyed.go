package mockclient

import (
	"sort"
	"sync"

	"github.com/getmockd/mockclient/internal/matching"
)

// keyedStore holds items matched by request type or URL pattern. Entries are
// never consumed.
type keyedStore struct {
	mu       sync.RWMutex
	types    map[string]Item
	patterns []matching.Pattern // registration order
	items    []Item             // parallel to patterns
}

func newKeyedStore() *keyedStore {
	return &keyedStore{types: make(map[string]Item)}
}

// has reports whether key is registered as kind. Callers hold mu.
func (s *keyedStore) has(kind keyKind, key string) bool {
	switch kind {
	case kindType:
		_, ok := s.types[key]
		return ok
	case kindURL:
		return s.patternIndex(key) >= 0
	}
	return false
}

func (s *keyedStore) patternIndex(raw string) int {
	for i, p := range s.patterns {
		if p.String() == raw {
			return i
		}
	}
	return -1
}

// put stores item. Type keys are overwritten; a pattern that is already
// registered keeps its first item and reports a duplicate. Callers hold mu.
func (s *keyedStore) put(kind keyKind, key string, item Item) error {
	switch kind {
	case kindType:
		s.types[key] = item
	case kindURL:
		if s.patternIndex(key) >= 0 {
			return duplicateKeyError(kind, key)
		}
		s.patterns = append(s.patterns, matching.Compile(key))
		s.items = append(s.items, item)
	}
	return nil
}

// lookupType returns the item stored under the first registered name.
func (s *keyedStore) lookupType(names ...string) (Item, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range names {
		if name == "" {
			continue
		}
		if item, ok := s.types[name]; ok {
			return item, name, true
		}
	}
	return nil, "", false
}

// lookupURL returns the item of the most specific pattern matching rawURL.
func (s *keyedStore) lookupURL(rawURL string) (Item, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := matching.Best(s.patterns, rawURL)
	if i < 0 {
		return nil, "", false
	}
	return s.items[i], s.patterns[i].String(), true
}

func (s *keyedStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.types) + len(s.patterns)
}

// keys returns type keys sorted, followed by patterns in registration order.
func (s *keyedStore) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.types)+len(s.patterns))
	for k := range s.types {
		out = append(out, k)
	}
	sort.Strings(out)
	for _, p := range s.patterns {
		out = append(out, p.String())
	}
	return out
}
