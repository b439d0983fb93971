package mockclient

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, opts ...Option) *MockClient {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func get(typeName, url string) *BasicRequest {
	return NewRequest(typeName, "GET", url, nil)
}

func mustResolve(t *testing.T, c *MockClient, req Request) *Response {
	t.Helper()
	resp, err := c.Resolve(req)
	require.NoError(t, err)
	return resp
}

func TestNew_Empty(t *testing.T) {
	c := newClient(t)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.SequenceLen())
	assert.Empty(t, c.Keys())
	assert.Nil(t, c.LastRequest())
	assert.Nil(t, c.LastResponse())
	assert.Empty(t, c.RecordedResponses())
}

func TestNew_WithResponses(t *testing.T) {
	c := newClient(t, WithResponses(
		ForType("GetUser", Respond(200)),
		Seq(Respond(204)),
	))

	assert.False(t, c.IsEmpty())
	assert.Equal(t, 1, c.SequenceLen())
	assert.Equal(t, []string{"GetUser"}, c.Keys())
}

func TestNew_InvalidSeed(t *testing.T) {
	_, err := New(WithResponses(Registration{Method: "header", Item: Respond(200)}))
	assert.ErrorIs(t, err, ErrInvalidCaptureMethod)
}

func TestSequence_InsertionOrderThenNotFound(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			c := newClient(t)
			for i := 0; i < n; i++ {
				require.NoError(t, c.AddResponse(Respond(200+i), CaptureAuto, ""))
			}

			for i := 0; i < n; i++ {
				resp := mustResolve(t, c, get("Unmatched", "https://example.com/x"))
				assert.Equal(t, 200+i, resp.Status())
			}

			_, err := c.Resolve(get("Unmatched", "https://example.com/x"))
			assert.ErrorIs(t, err, ErrNoMockResponse)
			assert.ErrorIs(t, err, ErrSequenceExhausted)
		})
	}
}

func TestResolve_NothingRegistered(t *testing.T) {
	c := newClient(t)

	_, err := c.Resolve(NewRequest("GetUser", "get", "https://api.example.com/users/1", nil))

	var noMock *NoMockError
	require.ErrorAs(t, err, &noMock)
	assert.Equal(t, "GetUser", noMock.RequestType)
	assert.Equal(t, "GET", noMock.Method)
	assert.Equal(t, "https://api.example.com/users/1", noMock.URL)
	assert.False(t, errors.Is(err, ErrSequenceExhausted))
	assert.Contains(t, err.Error(), "GetUser")
	assert.Contains(t, err.Error(), "https://api.example.com/users/1")
}

func TestResolve_KeyedBeatsSequence(t *testing.T) {
	c := newClient(t)
	a := JSONResponse(200, map[string]string{"name": "A"})
	b := JSONResponse(200, map[string]string{"name": "B"})
	require.NoError(t, c.AddResponse(a, CaptureType, "UserRequest"))
	require.NoError(t, c.AddResponse(b, CaptureAuto, ""))

	first := mustResolve(t, c, get("UserRequest", "https://example.com/user"))
	assert.JSONEq(t, `{"name":"A"}`, string(first.Body()))

	second := mustResolve(t, c, get("OtherRequest", "https://example.com/other"))
	assert.JSONEq(t, `{"name":"B"}`, string(second.Body()))

	_, err := c.Resolve(get("OtherRequest", "https://example.com/other"))
	assert.ErrorIs(t, err, ErrNoMockResponse)
}

func TestResolve_KeyedEntriesAreNotConsumed(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200), CaptureType, "Ping"))

	for i := 0; i < 3; i++ {
		resp := mustResolve(t, c, get("Ping", "https://example.com/ping"))
		assert.Equal(t, 200, resp.Status())
	}
	assert.Equal(t, []string{"Ping"}, c.Keys())
}

func TestResolve_TypeBeatsURL(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(201), CaptureAuto, "/users/*"))
	require.NoError(t, c.AddResponse(Respond(202), CaptureAuto, "GetUser"))

	resp := mustResolve(t, c, get("GetUser", "https://example.com/users/5"))
	assert.Equal(t, 202, resp.Status())

	resp = mustResolve(t, c, get("ListUsers", "https://example.com/users/5"))
	assert.Equal(t, 201, resp.Status())
}

func TestResolve_ConnectorTypeFallback(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(418), CaptureType, "GitHubConnector"))

	req := get("GetRepo", "https://api.github.com/repos/x").WithConnector("GitHubConnector")
	resp := mustResolve(t, c, req)
	assert.Equal(t, 418, resp.Status())

	require.NoError(t, c.AddResponse(Respond(200), CaptureType, "GetRepo"))
	resp = mustResolve(t, c, req)
	assert.Equal(t, 200, resp.Status(), "request type wins over connector type")
}

func TestResolve_MostSpecificPatternWins(t *testing.T) {
	c := newClient(t)
	x := Respond(200).WithBody("X")
	y := Respond(200).WithBody("Y")
	require.NoError(t, c.AddResponseMap(map[string]Item{
		"/users/*": x,
		"/users/5": y,
	}))

	resp := mustResolve(t, c, get("", "https://example.com/users/5"))
	assert.Equal(t, "Y", string(resp.Body()))

	resp = mustResolve(t, c, get("", "https://example.com/users/6"))
	assert.Equal(t, "X", string(resp.Body()))
}

func TestResolve_SpecificityIgnoresRegistrationOrder(t *testing.T) {
	specific := "api.example.com/users/{id}/posts"
	general := "api.example.com/users/*"
	url := "https://api.example.com/users/5/posts"

	orders := [][]string{{specific, general}, {general, specific}}
	for _, order := range orders {
		t.Run(order[0]+" first", func(t *testing.T) {
			c := newClient(t)
			for _, p := range order {
				require.NoError(t, c.AddResponse(Respond(200).WithBody(p), CaptureURL, p))
			}
			resp := mustResolve(t, c, get("", url))
			assert.Equal(t, specific, string(resp.Body()))
		})
	}
}

func TestResolve_EqualSpecificityFirstRegisteredWins(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200).WithBody("first"), CaptureURL, "/a/*/c"))
	require.NoError(t, c.AddResponse(Respond(200).WithBody("second"), CaptureURL, "/a/b/*"))

	resp := mustResolve(t, c, get("", "https://example.com/a/b/c"))
	assert.Equal(t, "first", string(resp.Body()))
}

func TestResolve_Dynamic(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Dynamic(func(req Request) Item {
		return Respond(200).WithBody("hello " + req.RequestType())
	}), CaptureType, "Greet"))

	resp := mustResolve(t, c, get("Greet", "https://example.com/greet"))
	assert.Equal(t, "hello Greet", string(resp.Body()))
	assert.Equal(t, "Greet", resp.Request().RequestType())
}

func TestResolve_DynamicMalformed(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Request) Item
	}{
		{"nil", func(Request) Item { return nil }},
		{"typed nil response", func(Request) Item { return (*Response)(nil) }},
		{"nested responder", func(Request) Item {
			return Dynamic(func(Request) Item { return Respond(200) })
		}},
		{"empty fixture key", func(Request) Item { return FixtureRef{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t)
			require.NoError(t, c.AddResponse(Dynamic(tt.fn), CaptureAuto, ""))

			_, err := c.GuessNextResponse(get("Broken", "https://example.com/broken"))
			assert.ErrorIs(t, err, ErrMalformedMock)
			assert.False(t, errors.Is(err, ErrNoMockResponse))

			var malformed *MalformedMockError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, "Broken", malformed.RequestType)
		})
	}
}

func TestGuessNextResponse_ReturnsFixtureRef(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Fixture("users/list"), CaptureType, "ListUsers"))

	item, err := c.GuessNextResponse(get("ListUsers", "https://example.com/users"))
	require.NoError(t, err)
	assert.Equal(t, FixtureRef{Key: "users/list"}, item)
}

type mapStore map[string]*Response

func (s mapStore) Fixture(key string) (*Response, error) {
	resp, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("fixture %q not found", key)
	}
	return resp, nil
}

func TestResolve_Fixtures(t *testing.T) {
	store := mapStore{"users": JSONResponse(200, []string{"ada"})}
	c := newClient(t, WithFixtures(store))
	require.NoError(t, c.AddResponse(Fixture("users"), CaptureType, "ListUsers"))
	require.NoError(t, c.AddResponse(Fixture("missing"), CaptureType, "Missing"))

	resp := mustResolve(t, c, get("ListUsers", "https://example.com/users"))
	assert.JSONEq(t, `["ada"]`, string(resp.Body()))
	assert.Equal(t, "ListUsers", resp.Request().RequestType())
	assert.Nil(t, store["users"].Request(), "stored fixture stays unbound")

	_, err := c.Resolve(get("Missing", "https://example.com/missing"))
	assert.ErrorContains(t, err, "missing")
}

func TestResolve_FixtureWithoutStore(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Fixture("users"), CaptureAuto, ""))

	_, err := c.Resolve(get("ListUsers", "https://example.com/users"))
	assert.ErrorIs(t, err, ErrNoFixtureStore)
}

func TestResolve_ReturnsBoundCopies(t *testing.T) {
	c := newClient(t)
	original := Respond(200).WithBody("body")
	require.NoError(t, c.AddResponse(original, CaptureType, "Ping"))

	// Mutating the registered value afterwards does not leak into the store.
	original.WithStatus(500)

	first := mustResolve(t, c, get("Ping", "https://example.com/1"))
	second := mustResolve(t, c, get("Ping", "https://example.com/2"))

	assert.Equal(t, 200, first.Status())
	assert.NotSame(t, first, second)
	assert.Equal(t, "https://example.com/1", first.Request().URL())
	assert.Equal(t, "https://example.com/2", second.Request().URL())

	changed := first.WithStatus(503)
	assert.Equal(t, 200, first.Status(), "bound responses are frozen")
	assert.Equal(t, 503, changed.Status())
}

func TestRecordResponse(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200), CaptureAuto, ""))
	require.NoError(t, c.AddResponse(Respond(201), CaptureAuto, ""))

	r1 := mustResolve(t, c, get("A", "https://example.com/a"))
	e1, err := c.RecordResponse(r1)
	require.NoError(t, err)
	assert.Equal(t, 0, e1.Index)

	r2 := mustResolve(t, c, get("B", "https://example.com/b"))
	e2, err := c.RecordResponse(r2)
	require.NoError(t, err)
	assert.Equal(t, 1, e2.Index)

	assert.Equal(t, "B", c.LastRequest().RequestType())
	assert.Same(t, r2, c.LastResponse())

	history := c.RecordedResponses()
	require.Len(t, history, 2)
	assert.Same(t, r1, history[0].Value)
	assert.Same(t, r2, history[1].Value)
}

func TestRecordResponse_Unbound(t *testing.T) {
	c := newClient(t)

	_, err := c.RecordResponse(Respond(200))
	assert.ErrorIs(t, err, ErrUnboundResponse)

	_, err = c.RecordResponse(nil)
	assert.ErrorIs(t, err, ErrUnboundResponse)

	entry, err := c.RecordResponse(Respond(200).Bind(get("Manual", "https://example.com")))
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Index)
}

func TestRecordedResponses_Idempotent(t *testing.T) {
	c := newClient(t)
	for i := 0; i < 3; i++ {
		_, err := c.RecordResponse(Respond(200 + i).Bind(get("T", "https://example.com")))
		require.NoError(t, err)
	}

	first := c.RecordedResponses()
	second := c.RecordedResponses()
	assert.Equal(t, first, second)

	// The returned slice is a copy.
	first[0].Index = 99
	assert.Equal(t, 0, c.RecordedResponses()[0].Index)
}

func TestSend(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200), CaptureType, "Ping"))

	resp, err := c.Send(get("Ping", "https://example.com/ping"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status())
	assert.Len(t, c.RecordedResponses(), 1)

	_, err = c.Send(get("Pong", "https://example.com/pong"))
	assert.ErrorIs(t, err, ErrNoMockResponse)
	assert.Len(t, c.RecordedResponses(), 1, "failed resolutions are not recorded")
}

func TestConcurrentSequenceConsumption(t *testing.T) {
	const n = 200
	c := newClient(t)
	for i := 0; i < n; i++ {
		require.NoError(t, c.AddResponse(Respond(200).WithBody(fmt.Sprint(i)), CaptureAuto, ""))
	}
	require.NoError(t, c.AddResponse(Respond(200), CaptureType, "Keyed"))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]int)
	)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := c.Send(get("Seq", "https://example.com/seq"))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[string(resp.Body())]++
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			if _, err := c.Send(get("Keyed", "https://example.com/keyed")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "every sequence slot consumed exactly once")
	for body, count := range seen {
		assert.Equal(t, 1, count, "slot %s", body)
	}
	assert.Equal(t, 0, c.SequenceLen())

	entries := c.RecordedResponses()
	require.Len(t, entries, 2*n)
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
	}
}
