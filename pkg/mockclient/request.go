package mockclient

import (
	"context"
	"encoding/json"
	"strings"
)

// Request is the view of an outgoing request the mock client works with.
type Request interface {
	// RequestType is a stable identifier for the kind of request, such as
	// "GetUser". It is an explicit tag, never derived by reflection. It may be
	// empty for untyped requests.
	RequestType() string
	Method() string
	URL() string
	// Body is the serialized request body, or nil.
	Body() []byte
}

// ConnectorTyped is implemented by requests that also carry the type of the
// connector sending them. Type lookups fall back to the connector type.
type ConnectorTyped interface {
	ConnectorType() string
}

// BasicRequest is a plain Request value.
type BasicRequest struct {
	typeName  string
	connector string
	method    string
	url       string
	body      []byte
}

var (
	_ Request        = (*BasicRequest)(nil)
	_ ConnectorTyped = (*BasicRequest)(nil)
)

// NewRequest creates a request. The method is upper-cased.
func NewRequest(typeName, method, url string, body []byte) *BasicRequest {
	return &BasicRequest{
		typeName: typeName,
		method:   strings.ToUpper(method),
		url:      url,
		body:     cloneBytes(body),
	}
}

// WithConnector returns a copy of r tagged with a connector type.
func (r *BasicRequest) WithConnector(connector string) *BasicRequest {
	cp := *r
	cp.connector = connector
	return &cp
}

func (r *BasicRequest) RequestType() string   { return r.typeName }
func (r *BasicRequest) ConnectorType() string { return r.connector }
func (r *BasicRequest) Method() string        { return r.method }
func (r *BasicRequest) URL() string           { return r.url }
func (r *BasicRequest) Body() []byte          { return cloneBytes(r.body) }

func (r *BasicRequest) String() string {
	return describeRequest(r.typeName, r.method, r.url)
}

// requestJSON is the serialized form of a request in history snapshots.
type requestJSON struct {
	Type      string `json:"type,omitempty"`
	Connector string `json:"connector,omitempty"`
	Method    string `json:"method,omitempty"`
	URL       string `json:"url"`
	Body      string `json:"body,omitempty"`
}

func (r *BasicRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotRequest(r))
}

func (r *BasicRequest) UnmarshalJSON(data []byte) error {
	var v requestJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = BasicRequest{
		typeName:  v.Type,
		connector: v.Connector,
		method:    v.Method,
		url:       v.URL,
	}
	if v.Body != "" {
		r.body = []byte(v.Body)
	}
	return nil
}

func snapshotRequest(r Request) requestJSON {
	return requestJSON{
		Type:      r.RequestType(),
		Connector: connectorType(r),
		Method:    r.Method(),
		URL:       r.URL(),
		Body:      string(r.Body()),
	}
}

// connectorType returns the connector type of r, or "".
func connectorType(r Request) string {
	if ct, ok := r.(ConnectorTyped); ok {
		return ct.ConnectorType()
	}
	return ""
}

// requestLabel names a request in assertion messages.
func requestLabel(r Request) string {
	if r == nil {
		return "<nil>"
	}
	if t := r.RequestType(); t != "" {
		return t
	}
	return describeRequest("", r.Method(), r.URL())
}

type requestTypeKey struct{}

type connectorTypeKey struct{}

// WithRequestType tags ctx with a request type. The transport package reads
// the tag from the context of each *http.Request it carries.
func WithRequestType(ctx context.Context, typeName string) context.Context {
	return context.WithValue(ctx, requestTypeKey{}, typeName)
}

// RequestTypeFrom returns the request type stored by WithRequestType.
func RequestTypeFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestTypeKey{}).(string)
	return v, ok
}

// WithConnectorType tags ctx with a connector type.
func WithConnectorType(ctx context.Context, connector string) context.Context {
	return context.WithValue(ctx, connectorTypeKey{}, connector)
}

// ConnectorTypeFrom returns the connector type stored by WithConnectorType.
func ConnectorTypeFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(connectorTypeKey{}).(string)
	return v, ok
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
