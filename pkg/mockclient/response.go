package mockclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getmockd/mockclient/internal/matching"
)

// Response is a canned HTTP response.
//
// Responses are built fluently:
//
//	mockclient.Respond(201).WithJSON(user).WithHeader("Location", "/users/1")
//
// Builder methods modify the receiver until the response is bound to a
// request. Bound responses, as returned by Resolve and stored in history, are
// frozen: builder methods on them return a modified copy.
type Response struct {
	status  int
	header  http.Header
	body    []byte
	request Request
	err     error // first builder error
}

// NewResponse creates a response. A zero status means 200.
func NewResponse(status int, body []byte, header http.Header) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		status: status,
		header: header.Clone(),
		body:   cloneBytes(body),
	}
}

// Respond creates an empty response with the given status.
func Respond(status int) *Response {
	return NewResponse(status, nil, nil)
}

// JSONResponse creates a response with v encoded as its JSON body.
func JSONResponse(status int, v any) *Response {
	return Respond(status).WithJSON(v)
}

func (r *Response) mutable() *Response {
	if r.request != nil {
		return r.Clone()
	}
	return r
}

// setError records the first error encountered during building.
func (r *Response) setError(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first error encountered while building the response.
// Registering a response with a builder error fails.
func (r *Response) Err() error {
	return r.err
}

// WithStatus sets the status code.
func (r *Response) WithStatus(status int) *Response {
	r = r.mutable()
	r.status = status
	return r
}

// WithBody sets the body. Strings and byte slices are used as is, anything
// else is JSON encoded.
func (r *Response) WithBody(body any) *Response {
	switch v := body.(type) {
	case string:
		r = r.mutable()
		r.body = []byte(v)
		return r
	case []byte:
		r = r.mutable()
		r.body = cloneBytes(v)
		return r
	case nil:
		r = r.mutable()
		r.body = nil
		return r
	default:
		return r.WithJSON(v)
	}
}

// WithJSON sets the body to the JSON encoding of v and the Content-Type
// header to application/json.
func (r *Response) WithJSON(v any) *Response {
	r = r.mutable()
	data, err := json.Marshal(v)
	if err != nil {
		r.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		r.body = nil
	} else {
		r.body = data
	}
	if r.header == nil {
		r.header = make(http.Header)
	}
	r.header.Set("Content-Type", "application/json")
	return r
}

// WithHeader sets a response header.
func (r *Response) WithHeader(key, value string) *Response {
	r = r.mutable()
	if r.header == nil {
		r.header = make(http.Header)
	}
	r.header.Set(key, value)
	return r
}

// WithHeaders sets multiple response headers at once.
func (r *Response) WithHeaders(headers map[string]string) *Response {
	r = r.mutable()
	if r.header == nil {
		r.header = make(http.Header)
	}
	for k, v := range headers {
		r.header.Set(k, v)
	}
	return r
}

// Status returns the status code.
func (r *Response) Status() int { return r.status }

// Header returns a copy of the headers.
func (r *Response) Header() http.Header {
	if r.header == nil {
		return make(http.Header)
	}
	return r.header.Clone()
}

// Body returns a copy of the body.
func (r *Response) Body() []byte { return cloneBytes(r.body) }

// JSON decodes the body into plain Go values.
func (r *Response) JSON() (any, error) {
	return matching.DecodeJSON(r.body)
}

// Decode decodes the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.body, v)
}

// Request returns the request the response is bound to, or nil.
func (r *Response) Request() Request { return r.request }

// Clone returns an unbound deep copy of r.
func (r *Response) Clone() *Response {
	return &Response{
		status: r.status,
		header: r.header.Clone(),
		body:   cloneBytes(r.body),
		err:    r.err,
	}
}

// Bind returns a frozen copy of r bound to req.
func (r *Response) Bind(req Request) *Response {
	cp := r.Clone()
	cp.request = req
	return cp
}

func (r *Response) String() string {
	if r.request != nil {
		return fmt.Sprintf("%d for %s", r.status, requestLabel(r.request))
	}
	return fmt.Sprintf("%d", r.status)
}

// responseJSON is the serialized form of a response in history snapshots.
type responseJSON struct {
	Request *BasicRequest `json:"request,omitempty"`
	Status  int           `json:"status"`
	Headers http.Header   `json:"headers,omitempty"`
	Body    string        `json:"body,omitempty"`
}

func (r *Response) MarshalJSON() ([]byte, error) {
	v := responseJSON{
		Status:  r.status,
		Headers: r.header,
		Body:    string(r.body),
	}
	if r.request != nil {
		v.Request = toBasicRequest(r.request)
	}
	return json.Marshal(v)
}

// UnmarshalJSON restores a response, bound to a *BasicRequest when the
// snapshot carries one.
func (r *Response) UnmarshalJSON(data []byte) error {
	var v responseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Response{
		status: v.Status,
		header: v.Headers,
	}
	if v.Body != "" {
		r.body = []byte(v.Body)
	}
	if v.Request != nil {
		r.request = v.Request
	}
	return nil
}

func toBasicRequest(r Request) *BasicRequest {
	if br, ok := r.(*BasicRequest); ok {
		return br
	}
	s := snapshotRequest(r)
	br := &BasicRequest{
		typeName:  s.Type,
		connector: s.Connector,
		method:    s.Method,
		url:       s.URL,
	}
	if s.Body != "" {
		br.body = []byte(s.Body)
	}
	return br
}
