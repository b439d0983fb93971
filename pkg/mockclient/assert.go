package mockclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getmockd/mockclient/internal/matching"
	"github.com/getmockd/mockclient/pkg/history"
	"github.com/getmockd/mockclient/pkg/util"
)

// FindResponseByRequest returns the first recorded response whose request has
// the given type, or nil.
func (c *MockClient) FindResponseByRequest(typeName string) *Response {
	return c.find(Type(typeName))
}

// FindResponseByRequestURL returns the first recorded response whose request
// URL matches pattern, or nil.
func (c *MockClient) FindResponseByRequestURL(pattern string) *Response {
	return c.find(URL(pattern))
}

func (c *MockClient) find(m Matcher) *Response {
	for _, e := range c.history.Entries() {
		if m.Match(e.Value.Request(), e.Value) {
			return e.Value
		}
	}
	return nil
}

// AssertSent fails unless at least one recorded exchange satisfies m.
func (c *MockClient) AssertSent(m Matcher) error {
	entries := c.history.Entries()
	if countMatches(entries, m) > 0 {
		return nil
	}
	return assertionFailure("AssertSent", entries,
		"a request matching "+m.String(), "none")
}

// AssertNotSent fails if any recorded exchange satisfies m.
func (c *MockClient) AssertNotSent(m Matcher) error {
	entries := c.history.Entries()
	n := countMatches(entries, m)
	if n == 0 {
		return nil
	}
	return assertionFailure("AssertNotSent", entries,
		"no request matching "+m.String(), plural(n, "matching request"))
}

// AssertNothingSent fails if anything was recorded.
func (c *MockClient) AssertNothingSent() error {
	entries := c.history.Entries()
	if len(entries) == 0 {
		return nil
	}
	return assertionFailure("AssertNothingSent", entries,
		"no requests", plural(len(entries), "request"))
}

// AssertSentCount fails unless exactly n exchanges were recorded.
func (c *MockClient) AssertSentCount(n int) error {
	entries := c.history.Entries()
	if len(entries) == n {
		return nil
	}
	return assertionFailure("AssertSentCount", entries,
		plural(n, "request"), plural(len(entries), "request"))
}

// AssertSentTimes fails unless exactly n recorded exchanges satisfy m.
func (c *MockClient) AssertSentTimes(m Matcher, n int) error {
	entries := c.history.Entries()
	got := countMatches(entries, m)
	if got == n {
		return nil
	}
	return assertionFailure("AssertSentTimes", entries,
		plural(n, "request")+" matching "+m.String(), fmt.Sprintf("%d", got))
}

// AssertSentJSON fails unless a recorded request of the given type has a body
// that decodes to a value structurally equal to data. Object key order is
// ignored, array order is not.
func (c *MockClient) AssertSentJSON(typeName string, data any) error {
	entries := c.history.Entries()
	bodies := bodiesOfType(entries, typeName)
	for _, body := range bodies {
		if ok, err := matching.JSONEqual(body, data); err == nil && ok {
			return nil
		}
	}

	expected := "a " + typeName + " request with JSON body " + encodeForMessage(data)
	return assertionFailure("AssertSentJSON", entries, expected, describeBodies(typeName, bodies))
}

// AssertSentJSONPath fails unless a recorded request of the given type has a
// JSON body where path selects expected. An expected value of
// map[string]any{"exists": true} only checks that path selects something.
func (c *MockClient) AssertSentJSONPath(typeName, path string, expected any) error {
	if err := matching.ValidateJSONPathExpression(path); err != nil {
		return err
	}

	entries := c.history.Entries()
	bodies := bodiesOfType(entries, typeName)
	for _, body := range bodies {
		if ok, err := matching.MatchJSONPath(path, expected, body); err == nil && ok {
			return nil
		}
	}

	want := fmt.Sprintf("a %s request where %s is %s", typeName, path, encodeForMessage(expected))
	return assertionFailure("AssertSentJSONPath", entries, want, describeBodies(typeName, bodies))
}

// AssertSentSchema fails unless at least one request of the given type was
// recorded and every one of them has a JSON body valid against schema. The
// schema is a JSON document (string or []byte) or a value encoding to one.
func (c *MockClient) AssertSentSchema(typeName string, schema any) error {
	compiled, err := matching.CompileSchema(schema)
	if err != nil {
		return err
	}

	entries := c.history.Entries()
	bodies := bodiesOfType(entries, typeName)
	want := "every " + typeName + " request to match the schema"
	if len(bodies) == 0 {
		return assertionFailure("AssertSentSchema", entries, want, "no "+typeName+" requests")
	}
	for i, body := range bodies {
		if err := matching.ValidateJSON(compiled, body); err != nil {
			actual := fmt.Sprintf("%s request #%d invalid: %v", typeName, i+1, err)
			return assertionFailure("AssertSentSchema", entries, want, actual)
		}
	}
	return nil
}

// AssertSentInOrder fails unless the history contains exchanges satisfying
// the matchers in the given order. Other exchanges may come in between.
func (c *MockClient) AssertSentInOrder(matchers ...Matcher) error {
	entries := c.history.Entries()
	next := 0
	for _, e := range entries {
		if next == len(matchers) {
			break
		}
		if matchers[next].Match(e.Value.Request(), e.Value) {
			next++
		}
	}
	if next == len(matchers) {
		return nil
	}

	names := make([]string, len(matchers))
	for i, m := range matchers {
		names[i] = m.String()
	}
	return assertionFailure("AssertSentInOrder", entries,
		"requests in order: "+strings.Join(names, ", "),
		fmt.Sprintf("no request matching %s after the first %d", matchers[next].String(), next))
}

func assertionFailure(name string, entries []history.Entry[*Response], expected, actual string) *AssertionError {
	sent := make([]string, len(entries))
	for i, e := range entries {
		sent[i] = requestLabel(e.Value.Request())
	}
	return &AssertionError{
		Assertion: name,
		Expected:  expected,
		Actual:    actual,
		Sent:      sent,
	}
}

func countMatches(entries []history.Entry[*Response], m Matcher) int {
	n := 0
	for _, e := range entries {
		if m.Match(e.Value.Request(), e.Value) {
			n++
		}
	}
	return n
}

func bodiesOfType(entries []history.Entry[*Response], typeName string) [][]byte {
	var out [][]byte
	for _, e := range entries {
		req := e.Value.Request()
		if req != nil && req.RequestType() == typeName {
			out = append(out, req.Body())
		}
	}
	return out
}

func describeBodies(typeName string, bodies [][]byte) string {
	if len(bodies) == 0 {
		return "no " + typeName + " requests"
	}
	parts := make([]string, len(bodies))
	for i, b := range bodies {
		parts[i] = util.TruncateBody(string(b), util.MaxLogBodySize)
	}
	return "bodies [" + strings.Join(parts, ", ") + "]"
}

func encodeForMessage(v any) string {
	b, err := json.Marshal(matching.Normalize(v))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
