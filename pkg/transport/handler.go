package transport

import (
	"errors"
	"net/http"

	"github.com/getmockd/mockclient/pkg/httputil"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

// TypeHeader names the request header a Handler reads the request type from
// when neither the context nor a TypeFunc supplies one.
const TypeHeader = "X-Mockclient-Type"

// Handler serves mocked responses over a real HTTP listener, for code that
// cannot be handed a custom RoundTripper.
type Handler struct {
	transport *Transport
}

var _ http.Handler = (*Handler)(nil)

// NewHandler creates an http.Handler backed by client. Options are the same
// as for New.
func NewHandler(client *mockclient.MockClient, opts ...Option) *Handler {
	return &Handler{transport: New(client, opts...)}
}

// Transport returns the transport that resolves requests for h.
func (h *Handler) Transport() *Transport { return h.transport }

// ServeHTTP resolves r and writes the mocked response. A request with no
// applicable mock gets a 404 JSON error; any other failure gets a 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	out := r.Clone(r.Context())
	out.Body = r.Body
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	out.URL = &u
	if _, ok := mockclient.RequestTypeFrom(out.Context()); !ok && h.transport.typeFunc == nil {
		if typeName := r.Header.Get(TypeHeader); typeName != "" {
			out = out.WithContext(mockclient.WithRequestType(out.Context(), typeName))
		}
	}

	mreq, err := h.transport.Request(out)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	resp, err := h.transport.client.Send(mreq)
	if err != nil {
		h.transport.logger.Debug("mock handler failed", "method", r.Method, "url", u.String(), "error", err)
		status, code := errorStatus(err)
		httputil.WriteError(w, status, code, err.Error())
		return
	}

	httputil.WriteBody(w, resp.Status(), resp.Header(), resp.Body())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, mockclient.ErrSequenceExhausted):
		return http.StatusNotFound, "mock_sequence_exhausted"
	case errors.Is(err, mockclient.ErrNoMockResponse):
		return http.StatusNotFound, "no_mock_response"
	case errors.Is(err, mockclient.ErrMalformedMock):
		return http.StatusInternalServerError, "malformed_mock"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
