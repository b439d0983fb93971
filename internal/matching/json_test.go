package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEqual(t *testing.T) {
	type payload struct {
		RequestID string `json:"requestId"`
		Tags      []int  `json:"tags"`
	}

	tests := []struct {
		name     string
		body     string
		expected any
		want     bool
	}{
		{"same map", `{"requestId":"2"}`, map[string]any{"requestId": "2"}, true},
		{"key order irrelevant", `{"b":1,"a":2}`, map[string]int{"a": 2, "b": 1}, true},
		{"array order significant", `{"tags":[1,2]}`, map[string]any{"tags": []int{2, 1}}, false},
		{"struct", `{"tags":[1,2],"requestId":"2"}`, payload{RequestID: "2", Tags: []int{1, 2}}, true},
		{"extra key", `{"requestId":"2","x":1}`, map[string]any{"requestId": "2"}, false},
		{"raw message", `{"a": [true, null]}`, json.RawMessage(`{"a":[true,null]}`), true},
		{"bytes", `[1,2,3]`, []byte(`[1, 2, 3]`), true},
		{"scalar", `"hello"`, "hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONEqual([]byte(tt.body), tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONEqual_InvalidBody(t *testing.T) {
	_, err := JSONEqual([]byte("not json"), map[string]any{})
	assert.Error(t, err)

	_, err = JSONEqual(nil, map[string]any{})
	assert.Error(t, err)
}
