package mockclient

import "fmt"

// Item is a registered response: a *Response, a FixtureRef or a
// ResponderFunc. No other implementations exist.
type Item interface {
	isItem()
}

func (*Response) isItem() {}

// FixtureRef names a fixture to be loaded from the client's FixtureStore.
type FixtureRef struct {
	Key string
}

func (FixtureRef) isItem() {}

// Fixture returns a reference to the fixture stored under key.
func Fixture(key string) FixtureRef {
	return FixtureRef{Key: key}
}

// ResponderFunc computes a response from the request being resolved. It must
// return a *Response or a FixtureRef.
type ResponderFunc func(Request) Item

func (ResponderFunc) isItem() {}

// Dynamic wraps fn as an Item.
func Dynamic(fn func(Request) Item) ResponderFunc {
	return ResponderFunc(fn)
}

// FixtureStore loads fixtures by key.
type FixtureStore interface {
	Fixture(key string) (*Response, error)
}

// RequestAwareStore is implemented by fixture stores that need the request
// being resolved, such as stores that record missing fixtures. Resolve
// prefers FixtureFor over Fixture when a store implements both.
type RequestAwareStore interface {
	FixtureFor(key string, req Request) (*Response, error)
}

// isNilItem reports whether item is nil or a typed nil.
func isNilItem(item Item) bool {
	switch v := item.(type) {
	case nil:
		return true
	case *Response:
		return v == nil
	case ResponderFunc:
		return v == nil
	}
	return false
}

func describeItem(item Item) string {
	if isNilItem(item) {
		return "nil"
	}
	switch v := item.(type) {
	case *Response:
		return fmt.Sprintf("response(%d)", v.status)
	case FixtureRef:
		return fmt.Sprintf("fixture(%q)", v.Key)
	case ResponderFunc:
		return "responder"
	}
	return fmt.Sprintf("%T", item)
}
