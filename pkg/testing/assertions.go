package testing

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/mockclient/internal/matching"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

// RequestLog is a recorded request and the response it received.
type RequestLog struct {
	// Type is the request type name, empty for untyped requests.
	Type string
	// Connector is the connector type name, if any.
	Connector string
	// Method is the HTTP method (GET, POST, etc.)
	Method string
	// URL is the request URL
	URL string
	// Body is the request body content
	Body string
	// Status is the status code of the response
	Status int
	// ResponseHeaders are the response headers
	ResponseHeaders http.Header
}

func newRequestLog(resp *mockclient.Response) RequestLog {
	log := RequestLog{
		Status:          resp.Status(),
		ResponseHeaders: resp.Header(),
	}
	req := resp.Request()
	if req == nil {
		return log
	}
	log.Type = req.RequestType()
	log.Method = req.Method()
	log.URL = req.URL()
	log.Body = string(req.Body())
	if ct, ok := req.(mockclient.ConnectorTyped); ok {
		log.Connector = ct.ConnectorType()
	}
	return log
}

// AssertJSONBody asserts that the request body matches the expected JSON.
// A string or []byte expected value is parsed as JSON; anything else is
// compared through its JSON encoding.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	if s, ok := expected.(string); ok {
		expected = []byte(s)
	}
	if b, ok := expected.([]byte); ok {
		if _, err := matching.DecodeJSON(b); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	}

	equal, err := matching.JSONEqual([]byte(r.Body), expected)
	if err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}
	if !equal {
		expectedBytes, _ := json.MarshalIndent(matching.Normalize(expected), "", "  ")
		actual, _ := matching.DecodeJSON([]byte(r.Body))
		actualBytes, _ := json.MarshalIndent(actual, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertBody asserts that the request body exactly matches the expected string.
func (r *RequestLog) AssertBody(t testing.TB, expected string) {
	t.Helper()

	if r.Body != expected {
		t.Errorf("request body does not match\nexpected: %q\nactual: %q", expected, r.Body)
	}
}

// AssertBodyContains asserts that the request body contains the expected substring.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertType asserts the request type name.
func (r *RequestLog) AssertType(t testing.TB, expected string) {
	t.Helper()

	if r.Type != expected {
		t.Errorf("request type mismatch\nexpected: %q\nactual: %q", expected, r.Type)
	}
}

// AssertMethod asserts that the request used the expected HTTP method.
func (r *RequestLog) AssertMethod(t testing.TB, expected string) {
	t.Helper()

	if !strings.EqualFold(r.Method, expected) {
		t.Errorf("request method mismatch\nexpected: %q\nactual: %q", expected, r.Method)
	}
}

// AssertURL asserts that the request URL matches pattern, using the same
// rules as URL-keyed mocks.
func (r *RequestLog) AssertURL(t testing.TB, pattern string) {
	t.Helper()

	if !matching.Compile(pattern).Match(r.URL) {
		t.Errorf("request URL mismatch\nexpected: %q\nactual: %q", pattern, r.URL)
	}
}

// AssertStatus asserts the status code of the response the request received.
func (r *RequestLog) AssertStatus(t testing.TB, expected int) {
	t.Helper()

	if r.Status != expected {
		t.Errorf("response status mismatch\nexpected: %d\nactual: %d", expected, r.Status)
	}
}

// JSONField extracts a field from the request body JSON. field is a JSONPath
// expression; a leading "$." may be omitted, so "user.name" and
// "$.user.name" are equivalent.
// Returns nil if the body is not valid JSON or the field doesn't exist.
func (r *RequestLog) JSONField(field string) any {
	if !strings.HasPrefix(field, "$") {
		field = "$." + field
	}
	expr, err := jp.ParseString(field)
	if err != nil {
		return nil
	}
	data, err := matching.DecodeJSON([]byte(r.Body))
	if err != nil {
		return nil
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// AssertJSONField asserts that a JSON field in the request body has the
// expected value. Numbers compare by value regardless of Go type.
func (r *RequestLog) AssertJSONField(t testing.TB, field string, expected any) {
	t.Helper()

	if !strings.HasPrefix(field, "$") {
		field = "$." + field
	}
	if r.JSONField(field) == nil {
		t.Errorf("JSON field %q not found in request body: %s", field, r.Body)
		return
	}

	ok, err := matching.MatchJSONPath(field, expected, []byte(r.Body))
	if err != nil {
		t.Errorf("%v", err)
		return
	}
	if !ok {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			field, expected, expected, r.JSONField(field), r.JSONField(field))
	}
}
