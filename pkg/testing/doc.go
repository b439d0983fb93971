// Package testing wires a mockclient.MockClient into Go tests.
//
// New builds a mock client whose failures are reported through testing.TB,
// logs through t.Logf, and an http.Client that resolves every request
// through the mock client without touching the network.
//
// # Basic Usage
//
//	func TestGetUser(t *testing.T) {
//	    mock := mctesting.New(t)
//
//	    mock.Mock("GetUser").
//	        WithJSON(map[string]string{"id": "123", "name": "Test User"}).
//	        Reply()
//
//	    api := NewAPI(mock.HTTPClient())
//	    user, err := api.GetUser(ctx, "123")
//	    ...
//
//	    mock.AssertSent(t, mockclient.Type("GetUser"))
//	}
//
// Requests are typed by tagging their context with
// mockclient.WithRequestType, or by a TypeFunc passed through WithTypeFunc.
//
// # Keys
//
// Mock takes a request type name or a URL pattern. A key containing "/",
// "*" or ":" is a URL pattern:
//
//	mock.Mock("https://api.example.com/users/*").RespondJSON(users).Reply()
//	mock.Mock("GetUser").RespondNotFound().Reply()
//
// MockType and MockURL skip the classification.
//
// # Sequences
//
// Sequence registrations are consumed in order, once each:
//
//	mock.Sequence().RespondServerError("try again").Once().Reply()
//	mock.Sequence().RespondJSON(ok).Reply()
//
// Keyed mocks are never consumed and take precedence over the sequence.
//
// # Fixtures
//
// WithFixtureDir loads stored responses by key:
//
//	mock := mctesting.New(t, mctesting.WithFixtureDir("testdata/fixtures"))
//	mock.Mock("GetUser").WithFixture("users/get").Reply()
//
// # Local Server
//
// Code that builds its own HTTP client can be pointed at a local server
// instead:
//
//	base := mock.Start()
//	api := NewAPI(base)
//
// The server answers requests with no applicable mock with a 404 JSON error.
// Untyped requests can carry their type in the X-Mockclient-Type header.
//
// # Assertions
//
//	mock.AssertCalled(t, "GET", "*/users/123")
//	mock.AssertCalledTimes(t, "POST", "*/users", 1)
//	mock.AssertSentJSON(t, "CreateUser", map[string]any{"name": "Sam"})
//	mock.AssertSentInOrder(t, mockclient.Type("Login"), mockclient.Type("GetUser"))
//
//	for _, req := range mock.Requests() {
//	    req.AssertJSONField(t, "user.name", "Sam")
//	}
//
// # History Dumps
//
// When MOCKCLIENT_HISTORY_DIR is set and a test fails, the recorded history
// is written to that directory as <test name>.json, which the mockclient
// verify command can read back.
package testing
