package testing

import (
	"fmt"
	"net/http"

	"github.com/getmockd/mockclient/pkg/mockclient"
)

// MockBuilder builds a registration using a fluent API.
type MockBuilder struct {
	mock   *MockClient
	method mockclient.CaptureMethod
	key    string
	resp   *mockclient.Response
	item   mockclient.Item // fixture or responder; replaces resp when set
	times  int             // sequence copies; 0 means one
	err    error           // First error encountered during building
}

func newBuilder(m *MockClient, method mockclient.CaptureMethod, key string) *MockBuilder {
	return &MockBuilder{
		mock:   m,
		method: method,
		key:    key,
		resp:   mockclient.Respond(http.StatusOK),
	}
}

// setError records the first error encountered during building.
// Subsequent errors are ignored (first error wins pattern).
func (b *MockBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *MockBuilder) Err() error {
	if b.err != nil {
		return b.err
	}
	return b.resp.Err()
}

// WithStatus sets the response status code.
// Default is 200 (OK).
func (b *MockBuilder) WithStatus(status int) *MockBuilder {
	b.resp = b.resp.WithStatus(status)
	return b
}

// WithBody sets the response body. Strings and byte slices are used
// verbatim; other values are JSON encoded.
func (b *MockBuilder) WithBody(body any) *MockBuilder {
	b.resp = b.resp.WithBody(body)
	return b
}

// WithJSON sets the response body as JSON.
// Automatically sets Content-Type to application/json.
func (b *MockBuilder) WithJSON(body any) *MockBuilder {
	b.resp = b.resp.WithJSON(body)
	return b
}

// WithHeader adds a response header.
func (b *MockBuilder) WithHeader(key, value string) *MockBuilder {
	b.resp = b.resp.WithHeader(key, value)
	return b
}

// WithHeaders sets multiple response headers at once.
func (b *MockBuilder) WithHeaders(headers map[string]string) *MockBuilder {
	b.resp = b.resp.WithHeaders(headers)
	return b
}

// WithResponse replaces the response being built.
func (b *MockBuilder) WithResponse(resp *mockclient.Response) *MockBuilder {
	if resp == nil {
		b.setError(fmt.Errorf("WithResponse: response is nil"))
		return b
	}
	b.resp = resp
	return b
}

// WithFixture answers with the stored fixture named key instead of the
// response being built.
func (b *MockBuilder) WithFixture(key string) *MockBuilder {
	if key == "" {
		b.setError(fmt.Errorf("WithFixture: key is empty"))
		return b
	}
	b.item = mockclient.Fixture(key)
	return b
}

// WithResponder answers by calling fn with each matching request.
func (b *MockBuilder) WithResponder(fn func(mockclient.Request) mockclient.Item) *MockBuilder {
	if fn == nil {
		b.setError(fmt.Errorf("WithResponder: responder is nil"))
		return b
	}
	b.item = mockclient.Dynamic(fn)
	return b
}

// Times queues the response n times. Only sequence registrations are
// consumed, so Times is rejected for keyed mocks.
func (b *MockBuilder) Times(n int) *MockBuilder {
	if b.method != mockclient.CaptureSequence {
		b.setError(fmt.Errorf("Times: keyed mock %q is never consumed; use Sequence()", b.key))
		return b
	}
	if n < 1 {
		b.setError(fmt.Errorf("Times: n must be positive, got %d", n))
		return b
	}
	b.times = n
	return b
}

// Once is a convenience method for Times(1).
func (b *MockBuilder) Once() *MockBuilder {
	return b.Times(1)
}

// Twice is a convenience method for Times(2).
func (b *MockBuilder) Twice() *MockBuilder {
	return b.Times(2)
}

// Registrations returns what Build would register.
func (b *MockBuilder) Registrations() ([]mockclient.Registration, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	item := b.item
	if item == nil {
		item = b.resp
	}
	n := max(b.times, 1)
	regs := make([]mockclient.Registration, n)
	for i := range regs {
		regs[i] = mockclient.Registration{Key: b.key, Method: b.method, Item: item}
	}
	return regs, nil
}

// Build registers the mock, failing the test if it is invalid.
// Returns the MockClient for method chaining if needed.
func (b *MockBuilder) Build() *MockClient {
	b.mock.t.Helper()

	regs, err := b.Registrations()
	if err != nil {
		b.mock.t.Fatalf("mockclient: %s: %v", b.describe(), err)
		return b.mock
	}
	if err := b.mock.client.AddResponses(regs...); err != nil {
		b.mock.t.Fatalf("mockclient: %s: %v", b.describe(), err)
	}
	return b.mock
}

// Reply is an alias for Build.
// More readable in fluent chains:
//
//	mock.Mock("GetUser").WithStatus(200).Reply()
func (b *MockBuilder) Reply() {
	b.mock.t.Helper()
	b.Build()
}

func (b *MockBuilder) describe() string {
	if b.method == mockclient.CaptureSequence {
		return "sequence mock"
	}
	return fmt.Sprintf("mock %q", b.key)
}

// RespondWith is a shorthand for setting status and body together.
func (b *MockBuilder) RespondWith(status int, body any) *MockBuilder {
	return b.WithStatus(status).WithBody(body)
}

// RespondJSON is a shorthand for JSON response with status 200.
func (b *MockBuilder) RespondJSON(body any) *MockBuilder {
	return b.WithStatus(http.StatusOK).WithJSON(body)
}

// RespondNotFound configures a 404 Not Found response.
func (b *MockBuilder) RespondNotFound() *MockBuilder {
	return b.WithStatus(http.StatusNotFound).WithJSON(map[string]string{
		"error": "not_found",
	})
}

// RespondBadRequest configures a 400 Bad Request response.
func (b *MockBuilder) RespondBadRequest(message string) *MockBuilder {
	return b.WithStatus(http.StatusBadRequest).WithJSON(map[string]string{
		"error": message,
	})
}

// RespondServerError configures a 500 Internal Server Error response.
func (b *MockBuilder) RespondServerError(message string) *MockBuilder {
	return b.WithStatus(http.StatusInternalServerError).WithJSON(map[string]string{
		"error": message,
	})
}

// RespondUnauthorized configures a 401 Unauthorized response.
func (b *MockBuilder) RespondUnauthorized() *MockBuilder {
	return b.WithStatus(http.StatusUnauthorized).WithJSON(map[string]string{
		"error": "unauthorized",
	})
}

// RespondForbidden configures a 403 Forbidden response.
func (b *MockBuilder) RespondForbidden() *MockBuilder {
	return b.WithStatus(http.StatusForbidden).WithJSON(map[string]string{
		"error": "forbidden",
	})
}

// RespondCreated configures a 201 Created response.
func (b *MockBuilder) RespondCreated(body any) *MockBuilder {
	return b.WithStatus(http.StatusCreated).WithJSON(body)
}

// RespondNoContent configures a 204 No Content response.
func (b *MockBuilder) RespondNoContent() *MockBuilder {
	return b.WithStatus(http.StatusNoContent)
}

// RespondAccepted configures a 202 Accepted response.
func (b *MockBuilder) RespondAccepted() *MockBuilder {
	return b.WithStatus(http.StatusAccepted)
}
