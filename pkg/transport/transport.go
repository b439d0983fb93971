// Package transport adapts a MockClient to net/http.
//
// A Transport is an http.RoundTripper that answers every request from a
// MockClient and records the exchange, so code under test can be handed a
// plain *http.Client:
//
//	client, _ := mockclient.New()
//	httpClient := &http.Client{Transport: transport.New(client)}
//
// Requests are typed by tagging their context with
// mockclient.WithRequestType, or by a TypeFunc.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/getmockd/mockclient/pkg/logging"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

// TypeFunc derives a request type for requests whose context carries none.
type TypeFunc func(*http.Request) string

// Transport answers HTTP requests from a MockClient.
type Transport struct {
	client   *mockclient.MockClient
	typeFunc TypeFunc
	logger   *slog.Logger
}

var _ http.RoundTripper = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithTypeFunc sets the fallback used to type untagged requests.
func WithTypeFunc(fn TypeFunc) Option {
	return func(t *Transport) {
		t.typeFunc = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a transport backed by client.
func New(client *mockclient.MockClient, opts ...Option) *Transport {
	t := &Transport{
		client: client,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Client returns the backing MockClient.
func (t *Transport) Client() *mockclient.MockClient { return t.client }

// RoundTrip resolves req against the MockClient, records the exchange and
// returns the mocked response. Resolution failures are returned as errors;
// a missing mock never becomes an empty response.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	mreq, err := t.Request(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Send(mreq)
	if err != nil {
		t.logger.Debug("mock round trip failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}

	return ToHTTP(resp, req), nil
}

// Request converts req to a mockclient request, consuming its body.
func (t *Transport) Request(req *http.Request) (*mockclient.BasicRequest, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = b
	}

	typeName, ok := mockclient.RequestTypeFrom(req.Context())
	if !ok && t.typeFunc != nil {
		typeName = t.typeFunc(req)
	}

	mreq := mockclient.NewRequest(typeName, req.Method, req.URL.String(), body)
	if connector, ok := mockclient.ConnectorTypeFrom(req.Context()); ok {
		mreq = mreq.WithConnector(connector)
	}
	return mreq, nil
}

// ToHTTP converts a mocked response into an *http.Response for req.
func ToHTTP(resp *mockclient.Response, req *http.Request) *http.Response {
	body := resp.Body()
	header := resp.Header()
	if header.Get("Content-Length") == "" {
		header.Set("Content-Length", strconv.Itoa(len(body)))
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status(), http.StatusText(resp.Status())),
		StatusCode:    resp.Status(),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
