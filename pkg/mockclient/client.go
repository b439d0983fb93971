package mockclient

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/getmockd/mockclient/pkg/history"
	"github.com/getmockd/mockclient/pkg/logging"
)

// MockClient resolves requests to registered responses and records every
// exchange. It is safe for concurrent use.
type MockClient struct {
	sequence *sequenceQueue
	keyed    *keyedStore
	history  *history.Recorder[*Response]
	fixtures FixtureStore
	logger   *slog.Logger

	seed []Registration
}

// Option configures a MockClient.
type Option func(*MockClient)

// WithResponses pre-registers responses as AddResponses would.
func WithResponses(regs ...Registration) Option {
	return func(c *MockClient) {
		c.seed = append(c.seed, regs...)
	}
}

// WithFixtures sets the store FixtureRef items are loaded from.
func WithFixtures(store FixtureStore) Option {
	return func(c *MockClient) {
		c.fixtures = store
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *MockClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a MockClient. It fails only if a WithResponses registration is
// invalid.
func New(opts ...Option) (*MockClient, error) {
	c := &MockClient{
		sequence: &sequenceQueue{},
		keyed:    newKeyedStore(),
		history:  history.New[*Response](),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.seed) > 0 {
		if err := c.AddResponses(c.seed...); err != nil {
			return nil, err
		}
		c.seed = nil
	}
	return c, nil
}

// AddResponse registers one item. With CaptureAuto an empty key appends to
// the sequence and a non-empty key is classified as a type name or URL
// pattern. A type key that is already registered is overwritten; a URL
// pattern that is already registered keeps its first item and an error
// matching ErrDuplicateMatchKey is returned.
func (c *MockClient) AddResponse(item Item, method CaptureMethod, key string) error {
	reg := Registration{Key: key, Method: method, Item: item}
	kind, err := reg.placement()
	if err != nil {
		return err
	}

	if kind == kindSequence {
		c.sequence.push(storedItem(item))
	} else {
		c.keyed.mu.Lock()
		err = c.keyed.put(kind, key, storedItem(item))
		c.keyed.mu.Unlock()
		if err != nil {
			return err
		}
	}

	c.logger.Debug("registered mock response",
		"kind", kind.String(),
		"key", key,
		"item", describeItem(item),
	)
	return nil
}

// AddResponses registers a batch. The batch is validated as a whole before
// anything is stored: a match key repeated within the batch or already
// registered fails with an error matching both ErrInvalidCaptureMethod and
// ErrDuplicateMatchKey, and nothing is registered.
func (c *MockClient) AddResponses(regs ...Registration) error {
	type placed struct {
		reg  Registration
		kind keyKind
	}
	batch := make([]placed, 0, len(regs))
	for _, reg := range regs {
		kind, err := reg.placement()
		if err != nil {
			return err
		}
		batch = append(batch, placed{reg: reg, kind: kind})
	}

	c.keyed.mu.Lock()
	seen := make(map[keyKind]map[string]bool, 2)
	for _, p := range batch {
		if p.kind == kindSequence {
			continue
		}
		if seen[p.kind] == nil {
			seen[p.kind] = make(map[string]bool)
		}
		if seen[p.kind][p.reg.Key] || c.keyed.has(p.kind, p.reg.Key) {
			c.keyed.mu.Unlock()
			return duplicateKeyError(p.kind, p.reg.Key)
		}
		seen[p.kind][p.reg.Key] = true
	}

	var queued []Item
	for _, p := range batch {
		if p.kind == kindSequence {
			queued = append(queued, storedItem(p.reg.Item))
			continue
		}
		// Duplicates were ruled out above.
		_ = c.keyed.put(p.kind, p.reg.Key, storedItem(p.reg.Item))
	}
	c.keyed.mu.Unlock()

	if len(queued) > 0 {
		c.sequence.push(queued...)
	}

	c.logger.Debug("registered mock responses", "count", len(batch))
	return nil
}

// AddResponseMap registers items keyed by match key in sorted key order, so
// the registration order used for tie-breaks does not depend on map
// iteration. An empty key routes to the sequence.
func (c *MockClient) AddResponseMap(m map[string]Item) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	regs := make([]Registration, 0, len(keys))
	for _, k := range keys {
		regs = append(regs, For(k, m[k]))
	}
	return c.AddResponses(regs...)
}

// IsEmpty reports whether no keyed responses are registered and the sequence
// is empty.
func (c *MockClient) IsEmpty() bool {
	return c.keyed.len() == 0 && c.sequence.len() == 0
}

// SequenceLen returns the number of unconsumed sequence items.
func (c *MockClient) SequenceLen() int {
	return c.sequence.len()
}

// Keys returns the registered match keys: type names sorted, then URL
// patterns in registration order.
func (c *MockClient) Keys() []string {
	return c.keyed.keys()
}

// Fixtures returns the configured fixture store, or nil.
func (c *MockClient) Fixtures() FixtureStore {
	return c.fixtures
}

// GuessNextResponse finds the item for req and evaluates it. The result is a
// *Response bound to req or a FixtureRef. Sequence items are consumed.
func (c *MockClient) GuessNextResponse(req Request) (Item, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrNoMockResponse)
	}

	item, source, err := c.lookup(req)
	if err != nil {
		c.logger.Warn("no mock response found",
			"type", req.RequestType(),
			"method", req.Method(),
			"url", req.URL(),
		)
		return nil, err
	}

	out, err := c.evaluate(req, item)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("resolved mock response",
		"type", req.RequestType(),
		"url", req.URL(),
		"source", source,
		"item", describeItem(out),
	)
	return out, nil
}

// lookup applies the resolution order and returns the raw item and a label
// for where it came from.
func (c *MockClient) lookup(req Request) (Item, string, error) {
	if item, key, ok := c.keyed.lookupType(req.RequestType(), connectorType(req)); ok {
		return item, "type:" + key, nil
	}
	if item, pattern, ok := c.keyed.lookupURL(req.URL()); ok {
		return item, "url:" + pattern, nil
	}
	item, ok, exhausted := c.sequence.pop()
	if ok {
		return item, "sequence", nil
	}
	return nil, "", &NoMockError{
		RequestType: req.RequestType(),
		Method:      req.Method(),
		URL:         req.URL(),
		Exhausted:   exhausted,
	}
}

// evaluate runs a ResponderFunc and binds responses to req.
func (c *MockClient) evaluate(req Request, item Item) (Item, error) {
	if fn, ok := item.(ResponderFunc); ok {
		item = fn(req)
	}

	switch v := item.(type) {
	case *Response:
		if v == nil {
			break
		}
		if v.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMock, v.Err())
		}
		return v.Bind(req), nil
	case FixtureRef:
		if v.Key == "" {
			break
		}
		return v, nil
	}

	return nil, &MalformedMockError{
		RequestType: req.RequestType(),
		URL:         req.URL(),
		Got:         describeItem(item),
	}
}

// Resolve is GuessNextResponse with fixtures loaded. The returned response is
// bound to req.
func (c *MockClient) Resolve(req Request) (*Response, error) {
	item, err := c.GuessNextResponse(req)
	if err != nil {
		return nil, err
	}

	switch v := item.(type) {
	case *Response:
		return v, nil
	case FixtureRef:
		if c.fixtures == nil {
			return nil, fmt.Errorf("%w: cannot load fixture %q", ErrNoFixtureStore, v.Key)
		}
		resp, err := c.loadFixture(v.Key, req)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture %q: %w", v.Key, err)
		}
		if resp == nil {
			return nil, &MalformedMockError{
				RequestType: req.RequestType(),
				URL:         req.URL(),
				Got:         fmt.Sprintf("empty fixture %q", v.Key),
			}
		}
		return resp.Bind(req), nil
	}

	// GuessNextResponse only returns responses and fixture references.
	return nil, fmt.Errorf("%w: unexpected item %s", ErrMalformedMock, describeItem(item))
}

func (c *MockClient) loadFixture(key string, req Request) (*Response, error) {
	if ras, ok := c.fixtures.(RequestAwareStore); ok {
		return ras.FixtureFor(key, req)
	}
	return c.fixtures.Fixture(key)
}

// Send resolves req and records the result.
func (c *MockClient) Send(req Request) (*Response, error) {
	resp, err := c.Resolve(req)
	if err != nil {
		return nil, err
	}
	if _, err := c.RecordResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecordResponse appends resp to the history. resp must be bound to the
// request that produced it, as responses returned by Resolve are.
func (c *MockClient) RecordResponse(resp *Response) (*history.Entry[*Response], error) {
	if resp == nil || resp.Request() == nil {
		return nil, ErrUnboundResponse
	}
	entry := c.history.Append(resp)
	c.logger.Debug("recorded response",
		"index", entry.Index,
		"request", requestLabel(resp.Request()),
		"status", resp.Status(),
	)
	return &entry, nil
}

// LastRequest returns the most recently recorded request, or nil.
func (c *MockClient) LastRequest() Request {
	if resp := c.LastResponse(); resp != nil {
		return resp.Request()
	}
	return nil
}

// LastResponse returns the most recently recorded response, or nil.
func (c *MockClient) LastResponse() *Response {
	entry, ok := c.history.Last()
	if !ok {
		return nil
	}
	return entry.Value
}

// RecordedResponses returns a copy of the history, oldest first.
func (c *MockClient) RecordedResponses() []history.Entry[*Response] {
	return c.history.Entries()
}

// History returns the underlying recorder, for subscriptions and snapshots.
func (c *MockClient) History() *history.Recorder[*Response] {
	return c.history
}
