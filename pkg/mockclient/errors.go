package mockclient

import (
	"errors"
	"fmt"
	"strings"
)

// Registration errors.
var (
	// ErrInvalidCaptureMethod is returned when a registration names an unknown
	// capture method or combines a method with a key it cannot use.
	ErrInvalidCaptureMethod = errors.New("invalid capture method")

	// ErrDuplicateMatchKey is returned when a batch registration reuses a match
	// key. It is always reported together with ErrInvalidCaptureMethod.
	ErrDuplicateMatchKey = errors.New("duplicate match key")

	// ErrInvalidItem is returned when a registration carries no usable item.
	ErrInvalidItem = errors.New("invalid response item")
)

// Resolution errors.
var (
	ErrNoMockResponse    = errors.New("no mock response found")
	ErrSequenceExhausted = errors.New("mock sequence exhausted")
	ErrMalformedMock     = errors.New("malformed mock response")
	ErrNoFixtureStore    = errors.New("no fixture store configured")
)

// History and assertion errors.
var (
	ErrUnboundResponse = errors.New("response is not bound to a request")
	ErrAssertion       = errors.New("assertion failed")
)

// duplicateKeyError reports a reused match key. It matches both
// ErrInvalidCaptureMethod and ErrDuplicateMatchKey.
func duplicateKeyError(kind keyKind, key string) error {
	return fmt.Errorf("%w: %w: %s %q is already registered", ErrInvalidCaptureMethod, ErrDuplicateMatchKey, kind, key)
}

// NoMockError is returned when no registered response applies to a request.
type NoMockError struct {
	RequestType string
	Method      string
	URL         string

	// Exhausted is set when the sequence had responses once and all of them
	// have been consumed.
	Exhausted bool
}

func (e *NoMockError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoMockResponse.Error())
	b.WriteString(" for ")
	b.WriteString(describeRequest(e.RequestType, e.Method, e.URL))
	if e.Exhausted {
		b.WriteString(": ")
		b.WriteString(ErrSequenceExhausted.Error())
	}
	return b.String()
}

// Is reports whether target is ErrNoMockResponse, or ErrSequenceExhausted
// when the sequence ran dry.
func (e *NoMockError) Is(target error) bool {
	return target == ErrNoMockResponse || (e.Exhausted && target == ErrSequenceExhausted)
}

// MalformedMockError is returned when a ResponderFunc produces something other
// than a *Response or a FixtureRef.
type MalformedMockError struct {
	RequestType string
	URL         string
	Got         string
}

func (e *MalformedMockError) Error() string {
	return fmt.Sprintf("%s for %s: responder returned %s, want a response or a fixture",
		ErrMalformedMock, describeRequest(e.RequestType, "", e.URL), e.Got)
}

// Is reports whether target is ErrMalformedMock.
func (e *MalformedMockError) Is(target error) bool {
	return target == ErrMalformedMock
}

// AssertionError describes a failed assertion.
type AssertionError struct {
	// Assertion is the name of the failed assertion, e.g. "AssertSentCount".
	Assertion string
	Expected  string
	Actual    string

	// Sent lists a label for every recorded request, oldest first.
	Sent []string
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: expected %s, got %s", e.Assertion, e.Expected, e.Actual)
	fmt.Fprintf(&b, " (%d sent", len(e.Sent))
	if len(e.Sent) > 0 {
		b.WriteString(": ")
		b.WriteString(summarizeLabels(e.Sent))
	}
	b.WriteString(")")
	return b.String()
}

// Is reports whether target is ErrAssertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// summarizeLabels collapses repeated labels: "GetUser x2, CreateUser".
func summarizeLabels(labels []string) string {
	counts := make(map[string]int, len(labels))
	var order []string
	for _, l := range labels {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	parts := make([]string, len(order))
	for i, l := range order {
		if n := counts[l]; n > 1 {
			parts[i] = fmt.Sprintf("%s x%d", l, n)
		} else {
			parts[i] = l
		}
	}
	return strings.Join(parts, ", ")
}

func describeRequest(typeName, method, url string) string {
	target := strings.TrimSpace(method + " " + url)
	if typeName == "" {
		return target
	}
	if target == "" {
		return typeName
	}
	return typeName + " (" + target + ")"
}
