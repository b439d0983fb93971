package testing

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getmockd/mockclient/pkg/config"
	"github.com/getmockd/mockclient/pkg/fixture"
	"github.com/getmockd/mockclient/pkg/logging"
	"github.com/getmockd/mockclient/pkg/mockclient"
	"github.com/getmockd/mockclient/pkg/transport"
)

// MockClient is a test helper wrapping a mockclient.MockClient.
// It reports registration and assertion failures through testing.TB.
type MockClient struct {
	t          testing.TB
	cfg        *config.Config
	client     *mockclient.MockClient
	transport  *transport.Transport
	httpClient *http.Client

	transportOpts []transport.Option
	server        *httptest.Server
}

type settings struct {
	cfg        *config.Config
	regs       []mockclient.Registration
	fixtures   mockclient.FixtureStore
	fixtureDir string
	typeFunc   transport.TypeFunc
}

// Option configures New.
type Option func(*settings)

// WithResponses registers responses up front.
func WithResponses(regs ...mockclient.Registration) Option {
	return func(s *settings) {
		s.regs = append(s.regs, regs...)
	}
}

// WithFixtures resolves Fixture items through store.
func WithFixtures(store mockclient.FixtureStore) Option {
	return func(s *settings) {
		s.fixtures = store
	}
}

// WithFixtureDir resolves Fixture items from files under dir, using the
// configured fixture format and redacted headers.
func WithFixtureDir(dir string) Option {
	return func(s *settings) {
		s.fixtureDir = dir
	}
}

// WithTypeFunc assigns request types to HTTP requests that carry no type tag.
func WithTypeFunc(fn transport.TypeFunc) Option {
	return func(s *settings) {
		s.typeFunc = fn
	}
}

// WithConfig replaces the configuration read from MOCKCLIENT_* variables.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// New creates a mock client for testing. Logs go to t at the configured
// level. When the test fails and a history directory is configured, the
// recorded history is written there as <test name>.json.
func New(t testing.TB, opts ...Option) *MockClient {
	t.Helper()

	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.NewDefault()
		config.LoadEnv(s.cfg)
	}

	logger := slog.New(logging.NewTestHandler(t, logging.ParseLevel(s.cfg.LogLevel)))

	fixtures := s.fixtures
	if fixtures == nil && s.fixtureDir != "" {
		format, err := fixture.ParseFormat(s.cfg.FixtureFormat)
		if err != nil {
			t.Fatalf("mockclient: %v", err)
		}
		storeOpts := []fixture.Option{fixture.WithFormat(format), fixture.WithLogger(logger)}
		if len(s.cfg.RedactHeaders) > 0 {
			storeOpts = append(storeOpts, fixture.WithRedactHeaders(s.cfg.RedactHeaders...))
		}
		fixtures = fixture.NewStore(s.fixtureDir, storeOpts...)
	}

	clientOpts := []mockclient.Option{mockclient.WithLogger(logger)}
	if fixtures != nil {
		clientOpts = append(clientOpts, mockclient.WithFixtures(fixtures))
	}
	if len(s.regs) > 0 {
		clientOpts = append(clientOpts, mockclient.WithResponses(s.regs...))
	}
	client, err := mockclient.New(clientOpts...)
	if err != nil {
		t.Fatalf("mockclient: %v", err)
	}

	transportOpts := []transport.Option{transport.WithLogger(logger)}
	if s.typeFunc != nil {
		transportOpts = append(transportOpts, transport.WithTypeFunc(s.typeFunc))
	}
	rt := transport.New(client, transportOpts...)

	m := &MockClient{
		t:          t,
		cfg:        s.cfg,
		client:     client,
		transport:  rt,
		httpClient: &http.Client{Transport: rt},

		transportOpts: transportOpts,
	}
	t.Cleanup(m.dumpHistory)
	return m
}

// Start serves the mocked responses on a local HTTP server and returns its
// base URL, for code under test that builds its own HTTP client. Requests
// are typed by the TypeFunc, or else by the transport.TypeHeader header.
// The server is stopped when the test ends.
func (m *MockClient) Start() string {
	m.t.Helper()
	if m.server != nil {
		return m.server.URL
	}
	m.server = httptest.NewServer(transport.NewHandler(m.client, m.transportOpts...))
	m.t.Cleanup(m.Stop)
	return m.server.URL
}

// URL returns the base URL of the server started by Start, or "" when no
// server is running.
func (m *MockClient) URL() string {
	if m.server == nil {
		return ""
	}
	return m.server.URL
}

// Stop shuts down the server started by Start. It is safe to call more
// than once.
func (m *MockClient) Stop() {
	if m.server != nil {
		m.server.Close()
		m.server = nil
	}
}

// dumpHistory writes the history of a failed test to the history directory.
func (m *MockClient) dumpHistory() {
	if !m.t.Failed() || m.cfg.HistoryDir == "" || m.client.History().Len() == 0 {
		return
	}
	path := filepath.Join(m.cfg.HistoryDir, historyFileName(m.t.Name()))
	if err := m.client.History().SaveFile(path); err != nil {
		m.t.Logf("mockclient: failed to write history: %v", err)
		return
	}
	m.t.Logf("mockclient: history written to %s", path)
}

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "\\", "_", ":", "_")

func historyFileName(testName string) string {
	return nameReplacer.Replace(testName) + ".json"
}

// Client returns the underlying mockclient.MockClient.
func (m *MockClient) Client() *mockclient.MockClient {
	return m.client
}

// Transport returns the http.RoundTripper that resolves requests through
// the mock client.
func (m *MockClient) Transport() *transport.Transport {
	return m.transport
}

// HTTPClient returns an http.Client whose requests never leave the process.
func (m *MockClient) HTTPClient() *http.Client {
	return m.httpClient
}

// Config returns the configuration the helper was built with.
func (m *MockClient) Config() *config.Config {
	return m.cfg
}

// Mock starts a keyed registration. A key containing "/", "*" or ":" is a
// URL pattern; anything else is a request type name.
//
// Example:
//
//	mock.Mock("GetUser").
//	    WithJSON(User{ID: "123"}).
//	    Reply()
func (m *MockClient) Mock(key string) *MockBuilder {
	m.t.Helper()
	return newBuilder(m, mockclient.CaptureAuto, key)
}

// MockType starts a registration keyed by request type.
func (m *MockClient) MockType(typeName string) *MockBuilder {
	m.t.Helper()
	return newBuilder(m, mockclient.CaptureType, typeName)
}

// MockURL starts a registration keyed by URL pattern.
func (m *MockClient) MockURL(pattern string) *MockBuilder {
	m.t.Helper()
	return newBuilder(m, mockclient.CaptureURL, pattern)
}

// Sequence starts a registration appended to the sequence queue.
func (m *MockClient) Sequence() *MockBuilder {
	m.t.Helper()
	return newBuilder(m, mockclient.CaptureSequence, "")
}

// Requests returns the recorded requests, oldest first.
func (m *MockClient) Requests() []RequestLog {
	entries := m.client.RecordedResponses()
	result := make([]RequestLog, 0, len(entries))
	for _, e := range entries {
		result = append(result, newRequestLog(e.Value))
	}
	return result
}

// AssertCalled asserts that a request with method and a URL matching
// pattern was sent at least once.
func (m *MockClient) AssertCalled(t testing.TB, method, pattern string) {
	t.Helper()
	m.AssertSent(t, callMatcher(method, pattern))
}

// AssertCalledTimes asserts that method and pattern were sent exactly n times.
func (m *MockClient) AssertCalledTimes(t testing.TB, method, pattern string, n int) {
	t.Helper()
	m.AssertSentTimes(t, callMatcher(method, pattern), n)
}

// AssertNotCalled asserts that method and pattern were never sent.
func (m *MockClient) AssertNotCalled(t testing.TB, method, pattern string) {
	t.Helper()
	m.AssertNotSent(t, callMatcher(method, pattern))
}

func callMatcher(method, pattern string) mockclient.Matcher {
	return mockclient.All(mockclient.Method(method), mockclient.URL(pattern))
}

// AssertSent asserts that at least one recorded exchange matches.
func (m *MockClient) AssertSent(t testing.TB, matcher mockclient.Matcher) {
	t.Helper()
	report(t, m.client.AssertSent(matcher))
}

// AssertNotSent asserts that no recorded exchange matches.
func (m *MockClient) AssertNotSent(t testing.TB, matcher mockclient.Matcher) {
	t.Helper()
	report(t, m.client.AssertNotSent(matcher))
}

// AssertNothingSent asserts that the history is empty.
func (m *MockClient) AssertNothingSent(t testing.TB) {
	t.Helper()
	report(t, m.client.AssertNothingSent())
}

// AssertSentCount asserts the total number of recorded exchanges.
func (m *MockClient) AssertSentCount(t testing.TB, n int) {
	t.Helper()
	report(t, m.client.AssertSentCount(n))
}

// AssertSentTimes asserts how many recorded exchanges match.
func (m *MockClient) AssertSentTimes(t testing.TB, matcher mockclient.Matcher, n int) {
	t.Helper()
	report(t, m.client.AssertSentTimes(matcher, n))
}

// AssertSentJSON asserts that a request of typeName carried a JSON body
// equal to data.
func (m *MockClient) AssertSentJSON(t testing.TB, typeName string, data any) {
	t.Helper()
	report(t, m.client.AssertSentJSON(typeName, data))
}

// AssertSentJSONPath asserts that a request of typeName carried a body whose
// JSONPath selection includes expected.
func (m *MockClient) AssertSentJSONPath(t testing.TB, typeName, path string, expected any) {
	t.Helper()
	report(t, m.client.AssertSentJSONPath(typeName, path, expected))
}

// AssertSentSchema asserts that every request of typeName validates against schema.
func (m *MockClient) AssertSentSchema(t testing.TB, typeName string, schema any) {
	t.Helper()
	report(t, m.client.AssertSentSchema(typeName, schema))
}

// AssertSentInOrder asserts that matching exchanges were recorded in order.
func (m *MockClient) AssertSentInOrder(t testing.TB, matchers ...mockclient.Matcher) {
	t.Helper()
	report(t, m.client.AssertSentInOrder(matchers...))
}

func report(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("%v", err)
	}
}
