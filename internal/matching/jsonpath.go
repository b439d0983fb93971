package matching

import (
	"fmt"
	"reflect"

	"github.com/ohler55/ojg/jp"
)

// MatchJSONPath evaluates a JSONPath expression against a JSON body and
// reports whether any selected value equals expected.
//
// expected may also be an existence check, {"exists": true} or
// {"exists": false}, which only tests whether the path selects anything.
// A body that is not valid JSON never matches; an invalid expression is an
// error.
func MatchJSONPath(path string, expected any, body []byte) (bool, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}

	data, err := DecodeJSON(body)
	if err != nil {
		return false, nil //nolint:nilerr // non-JSON bodies simply don't match
	}

	results := expr.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		return (len(results) > 0) == exists, nil
	}

	want := Normalize(expected)
	for _, result := range results {
		if valuesEqual(result, want) {
			return true, nil
		}
	}
	return false, nil
}

// ValidateJSONPathExpression validates a JSONPath expression up front.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}

// existenceCheck recognises {"exists": bool}.
func existenceCheck(expected any) (exists, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	b, isBool := m["exists"].(bool)
	return b, isBool
}

// valuesEqual compares decoded JSON values, treating all numbers as float64.
func valuesEqual(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	a, aNum := toFloat64(actual)
	e, eNum := toFloat64(expected)
	return aNum && eNum && a == e
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
