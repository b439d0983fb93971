package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// DecodeJSON decodes a JSON document into plain Go values: maps, slices,
// strings, float64, bool and nil.
func DecodeJSON(body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Normalize converts v into the shape DecodeJSON would produce for its JSON
// encoding, so structs, typed maps and ints compare equal to decoded bodies.
// Byte slices and json.RawMessage are taken to hold JSON and are decoded.
// Values that cannot be encoded are returned unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return v
	case json.RawMessage:
		if d, err := DecodeJSON(t); err == nil {
			return d
		}
		return v
	case []byte:
		if d, err := DecodeJSON(t); err == nil {
			return d
		}
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// JSONEqual reports whether body decodes to a value structurally equal to
// expected. Object key order is irrelevant; array order is significant.
func JSONEqual(body []byte, expected any) (bool, error) {
	actual, err := DecodeJSON(body)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(actual, Normalize(expected)), nil
}
