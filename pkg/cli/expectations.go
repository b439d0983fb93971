package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockclient/internal/matching"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

// Expectations is the document read by the verify command.
//
//	count: 3
//	expect:
//	  - sent: GetUser
//	  - sent: /users/*
//	    method: POST
//	    times: 1
//	  - notSent: DeleteUser
//	  - expr: request.method == "POST" && response.status == 201
//	  - json: {type: CreateUser, body: {name: Sam}}
//	  - jsonPath: {type: CreateUser, path: $.name, value: Sam}
//	  - schema: {type: CreateUser, schema: {type: object, required: [name]}}
//	  - inOrder: [Login, GetUser]
type Expectations struct {
	Count       *int          `yaml:"count,omitempty"`
	NothingSent bool          `yaml:"nothingSent,omitempty"`
	Expect      []Expectation `yaml:"expect,omitempty"`
}

// Expectation is one check against the history. Exactly one of Sent,
// NotSent, Expr, JSON, JSONPath, Schema and InOrder is set.
type Expectation struct {
	// Sent and NotSent take a request type name or a URL pattern.
	Sent    string `yaml:"sent,omitempty"`
	NotSent string `yaml:"notSent,omitempty"`
	Expr    string `yaml:"expr,omitempty"`

	JSON     *BodyExpectation `yaml:"json,omitempty"`
	JSONPath *BodyExpectation `yaml:"jsonPath,omitempty"`
	Schema   *BodyExpectation `yaml:"schema,omitempty"`

	InOrder []string `yaml:"inOrder,omitempty"`

	// Method narrows sent, notSent and expr.
	Method string `yaml:"method,omitempty"`
	// Times turns sent and expr into an exact count.
	Times *int `yaml:"times,omitempty"`

	matcher mockclient.Matcher
}

// BodyExpectation checks the bodies of requests of one type.
type BodyExpectation struct {
	Type   string `yaml:"type"`
	Body   any    `yaml:"body,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Value  any    `yaml:"value,omitempty"`
	Schema any    `yaml:"schema,omitempty"`
}

// Expectation kinds, as shown in verify output.
const (
	kindCount       = "count"
	kindNothingSent = "nothing sent"
	kindSent        = "sent"
	kindNotSent     = "not sent"
	kindExpr        = "expr"
	kindJSON        = "json"
	kindJSONPath    = "json path"
	kindSchema      = "schema"
	kindInOrder     = "in order"
)

// VerifyResult is the outcome of one expectation.
type VerifyResult struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Passed  bool   `json:"passed"`
	Error   string `json:"error,omitempty"`
}

// LoadExpectations reads and checks an expectations file.
func LoadExpectations(path string) (*Expectations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expectations: %w", err)
	}
	exp, err := ParseExpectations(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return exp, nil
}

// ParseExpectations decodes an expectations document. Unknown keys, entries
// without exactly one check and invalid expressions are errors.
func ParseExpectations(data []byte) (*Expectations, error) {
	var exp Expectations
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&exp); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpectations, err)
	}

	if exp.Count != nil && *exp.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", ErrInvalidExpectations)
	}
	for i := range exp.Expect {
		if err := exp.Expect[i].prepare(); err != nil {
			return nil, fmt.Errorf("%w: expect[%d]: %w", ErrInvalidExpectations, i, err)
		}
	}
	return &exp, nil
}

// kind reports which check e holds.
func (e *Expectation) kind() (string, error) {
	var kinds []string
	if e.Sent != "" {
		kinds = append(kinds, kindSent)
	}
	if e.NotSent != "" {
		kinds = append(kinds, kindNotSent)
	}
	if e.Expr != "" {
		kinds = append(kinds, kindExpr)
	}
	if e.JSON != nil {
		kinds = append(kinds, kindJSON)
	}
	if e.JSONPath != nil {
		kinds = append(kinds, kindJSONPath)
	}
	if e.Schema != nil {
		kinds = append(kinds, kindSchema)
	}
	if len(e.InOrder) > 0 {
		kinds = append(kinds, kindInOrder)
	}
	switch len(kinds) {
	case 0:
		return "", errors.New("no check given")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("more than one check given: %s", strings.Join(kinds, ", "))
	}
}

// prepare validates e and compiles its matcher.
func (e *Expectation) prepare() error {
	kind, err := e.kind()
	if err != nil {
		return err
	}
	if e.Times != nil {
		if kind != kindSent && kind != kindExpr {
			return fmt.Errorf("times only applies to sent and expr, not %s", kind)
		}
		if *e.Times < 0 {
			return errors.New("times must not be negative")
		}
	}
	if e.Method != "" && kind != kindSent && kind != kindNotSent && kind != kindExpr {
		return fmt.Errorf("method only applies to sent, notSent and expr, not %s", kind)
	}

	switch kind {
	case kindSent:
		e.matcher = keyMatcher(e.Sent)
	case kindNotSent:
		e.matcher = keyMatcher(e.NotSent)
	case kindExpr:
		m, err := mockclient.Expr(e.Expr)
		if err != nil {
			return err
		}
		e.matcher = m
	case kindJSON, kindJSONPath, kindSchema:
		body := e.body()
		if body.Type == "" {
			return fmt.Errorf("%s requires a type", kind)
		}
		if kind == kindJSONPath {
			if err := matching.ValidateJSONPathExpression(body.Path); err != nil {
				return err
			}
		}
		if kind == kindSchema {
			if _, err := matching.CompileSchema(body.Schema); err != nil {
				return err
			}
		}
	}

	if e.Method != "" && e.matcher != nil {
		e.matcher = mockclient.All(mockclient.Method(e.Method), e.matcher)
	}
	return nil
}

func (e *Expectation) body() *BodyExpectation {
	switch {
	case e.JSON != nil:
		return e.JSON
	case e.JSONPath != nil:
		return e.JSONPath
	default:
		return e.Schema
	}
}

// keyMatcher matches a request type name, or a URL pattern when key looks
// like one.
func keyMatcher(key string) mockclient.Matcher {
	if matching.IsPattern(key) {
		return mockclient.URL(key)
	}
	return mockclient.Type(key)
}

// Verify runs every expectation against the client's history.
func (exp *Expectations) Verify(client *mockclient.MockClient) []VerifyResult {
	var results []VerifyResult
	add := func(kind, subject string, err error) {
		r := VerifyResult{Kind: kind, Subject: subject, Passed: err == nil}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}

	if exp.NothingSent {
		add(kindNothingSent, "history", client.AssertNothingSent())
	}
	if exp.Count != nil {
		add(kindCount, strconv.Itoa(*exp.Count), client.AssertSentCount(*exp.Count))
	}

	for i := range exp.Expect {
		e := &exp.Expect[i]
		kind, err := e.kind()
		if err != nil {
			add("invalid", fmt.Sprintf("expect[%d]", i), err)
			continue
		}
		if e.matcher == nil && (kind == kindSent || kind == kindNotSent || kind == kindExpr) {
			if err := e.prepare(); err != nil {
				add(kind, fmt.Sprintf("expect[%d]", i), err)
				continue
			}
		}

		switch kind {
		case kindSent, kindExpr:
			subject := e.subject(kind)
			if e.Times != nil {
				add(kind, subject, client.AssertSentTimes(e.matcher, *e.Times))
			} else {
				add(kind, subject, client.AssertSent(e.matcher))
			}
		case kindNotSent:
			add(kind, e.subject(kind), client.AssertNotSent(e.matcher))
		case kindJSON:
			add(kind, e.JSON.Type, client.AssertSentJSON(e.JSON.Type, e.JSON.Body))
		case kindJSONPath:
			add(kind, e.JSONPath.Type+" "+e.JSONPath.Path,
				client.AssertSentJSONPath(e.JSONPath.Type, e.JSONPath.Path, e.JSONPath.Value))
		case kindSchema:
			add(kind, e.Schema.Type, client.AssertSentSchema(e.Schema.Type, e.Schema.Schema))
		case kindInOrder:
			matchers := make([]mockclient.Matcher, len(e.InOrder))
			for j, key := range e.InOrder {
				matchers[j] = keyMatcher(key)
			}
			add(kind, strings.Join(e.InOrder, " > "), client.AssertSentInOrder(matchers...))
		}
	}
	return results
}

func (e *Expectation) subject(kind string) string {
	var s string
	switch kind {
	case kindSent:
		s = e.Sent
	case kindNotSent:
		s = e.NotSent
	default:
		s = e.Expr
	}
	if e.Method != "" {
		s = strings.ToUpper(e.Method) + " " + s
	}
	if e.Times != nil {
		s += " x" + strconv.Itoa(*e.Times)
	}
	return s
}
