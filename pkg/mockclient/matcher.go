package mockclient

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/mockclient/internal/matching"
)

// Matcher is a predicate over a recorded exchange.
type Matcher interface {
	Match(req Request, resp *Response) bool
	String() string
}

type typeMatcher string

// Type matches requests whose request type is name.
func Type(name string) Matcher { return typeMatcher(name) }

func (m typeMatcher) Match(req Request, _ *Response) bool {
	return req != nil && req.RequestType() == string(m)
}

func (m typeMatcher) String() string { return "type " + string(m) }

type urlMatcher struct {
	pattern matching.Pattern
}

// URL matches requests whose URL matches pattern, with the same pattern
// semantics as URL-keyed registrations.
func URL(pattern string) Matcher {
	return urlMatcher{pattern: matching.Compile(pattern)}
}

func (m urlMatcher) Match(req Request, _ *Response) bool {
	return req != nil && m.pattern.Match(req.URL())
}

func (m urlMatcher) String() string { return "url " + m.pattern.String() }

type methodMatcher string

// Method matches requests with the given HTTP method, case-insensitively.
func Method(method string) Matcher { return methodMatcher(method) }

func (m methodMatcher) Match(req Request, _ *Response) bool {
	return req != nil && strings.EqualFold(req.Method(), string(m))
}

func (m methodMatcher) String() string { return "method " + strings.ToUpper(string(m)) }

type funcMatcher func(Request, *Response) bool

// Func matches exchanges for which fn reports true.
func Func(fn func(req Request, resp *Response) bool) Matcher { return funcMatcher(fn) }

func (m funcMatcher) Match(req Request, resp *Response) bool { return m(req, resp) }

func (m funcMatcher) String() string { return "predicate" }

type allMatcher []Matcher

// All matches exchanges satisfying every matcher.
func All(matchers ...Matcher) Matcher { return allMatcher(matchers) }

func (m allMatcher) Match(req Request, resp *Response) bool {
	for _, sub := range m {
		if !sub.Match(req, resp) {
			return false
		}
	}
	return true
}

func (m allMatcher) String() string {
	parts := make([]string, len(m))
	for i, sub := range m {
		parts[i] = sub.String()
	}
	return strings.Join(parts, " and ")
}

type exprMatcher struct {
	source  string
	program *vm.Program
}

// Expr compiles an expr-lang boolean expression into a matcher. The
// expression sees two maps:
//
//	request:  type, connector, method, url, body, json
//	response: status, headers, body, json
//
// json is the decoded body, or nil when the body is not JSON.
//
//	mockclient.Expr(`request.type == "CreateUser" && request.json.name == "Ada"`)
func Expr(source string) (Matcher, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv(nil, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	return exprMatcher{source: source, program: program}, nil
}

// MustExpr is like Expr but panics on a compile error.
func MustExpr(source string) Matcher {
	m, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return m
}

func (m exprMatcher) Match(req Request, resp *Response) bool {
	out, err := expr.Run(m.program, exprEnv(req, resp))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (m exprMatcher) String() string { return "expr " + m.source }

// exprEnv builds the expression environment for one exchange. Nil arguments
// produce zero values so the same shape is used at compile time.
func exprEnv(req Request, resp *Response) map[string]any {
	request := map[string]any{
		"type":      "",
		"connector": "",
		"method":    "",
		"url":       "",
		"body":      "",
		"json":      nil,
	}
	if req != nil {
		body := req.Body()
		request["type"] = req.RequestType()
		request["connector"] = connectorType(req)
		request["method"] = req.Method()
		request["url"] = req.URL()
		request["body"] = string(body)
		request["json"] = decodeOrNil(body)
	}

	response := map[string]any{
		"status":  0,
		"headers": map[string]any{},
		"body":    "",
		"json":    nil,
	}
	if resp != nil {
		headers := make(map[string]any, len(resp.header))
		for k := range resp.header {
			headers[k] = resp.header.Get(k)
		}
		response["status"] = resp.status
		response["headers"] = headers
		response["body"] = string(resp.body)
		response["json"] = decodeOrNil(resp.body)
	}

	return map[string]any{
		"request":  request,
		"response": response,
	}
}

func decodeOrNil(body []byte) any {
	v, err := matching.DecodeJSON(body)
	if err != nil {
		return nil
	}
	return v
}
