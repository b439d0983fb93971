package mockclient

import (
	"fmt"

	"github.com/getmockd/mockclient/internal/matching"
)

// CaptureMethod selects where a registered item is stored.
type CaptureMethod string

const (
	// CaptureAuto stores items without a key in the sequence and classifies
	// keys by shape.
	CaptureAuto CaptureMethod = ""
	// CaptureSequence appends the item to the sequence. No key is allowed.
	CaptureSequence CaptureMethod = "sequence"
	// CaptureType stores the item under a request type name.
	CaptureType CaptureMethod = "type"
	// CaptureURL stores the item under a URL pattern.
	CaptureURL CaptureMethod = "url"
)

// Valid reports whether m is a supported capture method.
func (m CaptureMethod) Valid() bool {
	switch m {
	case CaptureAuto, CaptureSequence, CaptureType, CaptureURL:
		return true
	}
	return false
}

// ParseCaptureMethod validates s as a capture method.
func ParseCaptureMethod(s string) (CaptureMethod, error) {
	m := CaptureMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCaptureMethod, s)
	}
	return m, nil
}

// Registration pairs an item with where it is stored.
type Registration struct {
	Key    string
	Method CaptureMethod
	Item   Item
}

// Seq registers item at the end of the sequence.
func Seq(item Item) Registration {
	return Registration{Method: CaptureSequence, Item: item}
}

// ForType registers item under a request type name.
func ForType(typeName string, item Item) Registration {
	return Registration{Key: typeName, Method: CaptureType, Item: item}
}

// ForURL registers item under a URL pattern.
func ForURL(pattern string, item Item) Registration {
	return Registration{Key: pattern, Method: CaptureURL, Item: item}
}

// For registers item under key, classified by shape. An empty key routes to
// the sequence.
func For(key string, item Item) Registration {
	return Registration{Key: key, Item: item}
}

// keyKind is the store a registration lands in.
type keyKind int

const (
	kindSequence keyKind = iota
	kindType
	kindURL
)

func (k keyKind) String() string {
	switch k {
	case kindType:
		return "type"
	case kindURL:
		return "url pattern"
	default:
		return "sequence"
	}
}

// placement validates r and decides where it is stored.
func (r Registration) placement() (keyKind, error) {
	if !r.Method.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCaptureMethod, string(r.Method))
	}
	if isNilItem(r.Item) {
		return 0, fmt.Errorf("%w: nil item for key %q", ErrInvalidItem, r.Key)
	}
	if resp, ok := r.Item.(*Response); ok && resp.Err() != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidItem, resp.Err())
	}
	if ref, ok := r.Item.(FixtureRef); ok && ref.Key == "" {
		return 0, fmt.Errorf("%w: empty fixture key", ErrInvalidItem)
	}

	switch r.Method {
	case CaptureSequence:
		if r.Key != "" {
			return 0, fmt.Errorf("%w: sequence items take no key, got %q", ErrInvalidCaptureMethod, r.Key)
		}
		return kindSequence, nil
	case CaptureType, CaptureURL:
		if r.Key == "" {
			return 0, fmt.Errorf("%w: %s capture requires a key", ErrInvalidCaptureMethod, r.Method)
		}
		if r.Method == CaptureType {
			return kindType, nil
		}
		return kindURL, nil
	}

	switch {
	case r.Key == "":
		return kindSequence, nil
	case matching.IsPattern(r.Key):
		return kindURL, nil
	default:
		return kindType, nil
	}
}

// storedItem returns the copy of item that is kept by a store.
func storedItem(item Item) Item {
	if resp, ok := item.(*Response); ok {
		return resp.Clone()
	}
	return item
}
