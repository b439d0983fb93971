package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getmockd/mockclient/pkg/logging"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

// maxRecordedBody caps the response body read while recording (10MB).
const maxRecordedBody = 10 << 20

// Recorder serves fixtures from a Store and records missing ones by
// performing the request through an injected transport.
type Recorder struct {
	store     *Store
	transport http.RoundTripper
	logger    *slog.Logger
}

var (
	_ mockclient.FixtureStore      = (*Recorder)(nil)
	_ mockclient.RequestAwareStore = (*Recorder)(nil)
)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the recorder logger.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder creates a recorder saving into store. transport performs the
// requests for missing fixtures; it is never defaulted.
func NewRecorder(store *Store, transport http.RoundTripper, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:     store,
		transport: transport,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying store.
func (r *Recorder) Store() *Store { return r.store }

// Fixture returns a stored fixture. Without the request nothing can be
// recorded, so a missing fixture is an error.
func (r *Recorder) Fixture(key string) (*mockclient.Response, error) {
	return r.store.Fixture(key)
}

// FixtureFor returns the fixture under key, recording it from req first if
// it does not exist yet.
func (r *Recorder) FixtureFor(key string, req mockclient.Request) (*mockclient.Response, error) {
	resp, err := r.store.Fixture(key)
	if err == nil || !errors.Is(err, ErrFixtureNotFound) {
		return resp, err
	}
	if r.transport == nil {
		return nil, fmt.Errorf("%w: no transport to record with", err)
	}

	live, err := r.record(req)
	if err != nil {
		return nil, fmt.Errorf("failed to record fixture %q: %w", key, err)
	}
	if err := r.store.Save(key, live); err != nil {
		return nil, err
	}

	r.logger.Info("recorded fixture",
		"key", key,
		"method", req.Method(),
		"url", req.URL(),
		"status", live.Status(),
	)
	return r.store.Fixture(key)
}

func (r *Recorder) record(req mockclient.Request) (*mockclient.Response, error) {
	var body io.Reader
	if b := req.Body(); len(b) > 0 {
		body = bytes.NewReader(b)
	}
	method := req.Method()
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequest(method, req.URL(), body)
	if err != nil {
		return nil, err
	}

	httpResp, err := r.transport.RoundTrip(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxRecordedBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return mockclient.NewResponse(httpResp.StatusCode, data, httpResp.Header), nil
}
