package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockclient/internal/matching"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

//go:embed schema/fixture.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the compiled fixture file schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = matching.CompileSchema(schemaJSON)
	})
	return compiledSchema, schemaErr
}

// SchemaJSON returns the fixture file schema document.
func SchemaJSON() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// File is the on-disk form of a fixture.
type File struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Data       any               `json:"data,omitempty" yaml:"data,omitempty"`
}

// Parse decodes and validates a fixture document in the given format.
func Parse(data []byte, format Format) (*File, error) {
	var doc any
	switch format {
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
		}
		// Round-trip through JSON so YAML values take their JSON shapes.
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
		}
		data = b
		fallthrough
	case FormatJSON:
		v, err := matching.DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
		}
		doc = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	return &f, nil
}

// Encode renders f in the given format.
func (f *File) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode fixture: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode fixture: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode fixture: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Response converts f to a response.
func (f *File) Response() (*mockclient.Response, error) {
	header := make(http.Header, len(f.Headers))
	for k, v := range f.Headers {
		header.Set(k, v)
	}

	var body []byte
	switch v := f.Data.(type) {
	case nil:
	case string:
		body = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fixture data: %w", err)
		}
		body = b
	}
	return mockclient.NewResponse(f.StatusCode, body, header), nil
}

// FromResponse converts resp to its on-disk form. Headers named in redact are
// replaced by RedactValue. JSON bodies are stored decoded, other bodies as
// strings.
func FromResponse(resp *mockclient.Response, redact []string) *File {
	f := &File{StatusCode: resp.Status()}

	header := resp.Header()
	if len(header) > 0 {
		f.Headers = make(map[string]string, len(header))
		keys := make([]string, 0, len(header))
		for k := range header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if isRedacted(k, redact) {
				f.Headers[k] = RedactValue
				continue
			}
			f.Headers[k] = strings.Join(header.Values(k), ", ")
		}
	}

	body := resp.Body()
	if len(body) > 0 {
		if v, err := matching.DecodeJSON(body); err == nil {
			if _, isString := v.(string); !isString {
				f.Data = v
				return f
			}
		}
		f.Data = string(body)
	}
	return f
}

func isRedacted(name string, redact []string) bool {
	for _, r := range redact {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return false
}
