package mockclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaptureMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    CaptureMethod
		wantErr bool
	}{
		{"", CaptureAuto, false},
		{"sequence", CaptureSequence, false},
		{"type", CaptureType, false},
		{"url", CaptureURL, false},
		{"header", "", true},
		{"URL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCaptureMethod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCaptureMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistration_Placement(t *testing.T) {
	ok := Respond(200)
	tests := []struct {
		name    string
		reg     Registration
		want    keyKind
		wantErr error
	}{
		{"auto without key", For("", ok), kindSequence, nil},
		{"auto type name", For("GetUser", ok), kindType, nil},
		{"auto path pattern", For("/users/*", ok), kindURL, nil},
		{"auto star", For("*", ok), kindURL, nil},
		{"auto full url", For("https://api.example.com", ok), kindURL, nil},
		{"explicit sequence", Seq(ok), kindSequence, nil},
		{"explicit type with slash", ForType("users/get", ok), kindType, nil},
		{"explicit url without wildcard", ForURL("health", ok), kindURL, nil},
		{"unknown method", Registration{Key: "x", Method: "regex", Item: ok}, 0, ErrInvalidCaptureMethod},
		{"sequence with key", Registration{Key: "x", Method: CaptureSequence, Item: ok}, 0, ErrInvalidCaptureMethod},
		{"type without key", ForType("", ok), 0, ErrInvalidCaptureMethod},
		{"url without key", ForURL("", ok), 0, ErrInvalidCaptureMethod},
		{"nil item", For("x", nil), 0, ErrInvalidItem},
		{"typed nil response", For("x", (*Response)(nil)), 0, ErrInvalidItem},
		{"nil responder", For("x", ResponderFunc(nil)), 0, ErrInvalidItem},
		{"empty fixture", For("x", FixtureRef{}), 0, ErrInvalidItem},
		{"builder error", For("x", JSONResponse(200, make(chan int))), 0, ErrInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reg.placement()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddResponse_InvalidMethodFailsFast(t *testing.T) {
	c := newClient(t)

	err := c.AddResponse(Respond(200), "header", "X-Test")

	assert.ErrorIs(t, err, ErrInvalidCaptureMethod)
	assert.True(t, c.IsEmpty(), "nothing registered on failure")
}

func TestAddResponse_TypeKeyOverwrites(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200), CaptureType, "GetUser"))
	require.NoError(t, c.AddResponse(Respond(404), CaptureType, "GetUser"))

	resp := mustResolve(t, c, get("GetUser", "https://example.com"))
	assert.Equal(t, 404, resp.Status())
	assert.Equal(t, []string{"GetUser"}, c.Keys())
}

func TestAddResponse_DuplicatePatternKeepsFirst(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponse(Respond(200), CaptureURL, "/users/*"))

	err := c.AddResponse(Respond(500), CaptureURL, "/users/*")
	assert.ErrorIs(t, err, ErrDuplicateMatchKey)
	assert.ErrorIs(t, err, ErrInvalidCaptureMethod)

	resp := mustResolve(t, c, get("", "https://example.com/users/1"))
	assert.Equal(t, 200, resp.Status())
}

func TestAddResponses_DuplicateAcrossCalls(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"type key", "GetUser"},
		{"pattern key", "/users/*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t)
			require.NoError(t, c.AddResponses(For(tt.key, Respond(200))))

			err := c.AddResponses(For(tt.key, Respond(500)))
			assert.ErrorIs(t, err, ErrInvalidCaptureMethod)
			assert.ErrorIs(t, err, ErrDuplicateMatchKey)

			resp := mustResolve(t, c, get("GetUser", "https://example.com/users/1"))
			assert.Equal(t, 200, resp.Status(), "original registration is not shadowed")
		})
	}
}

func TestAddResponses_DuplicateWithinBatchRegistersNothing(t *testing.T) {
	c := newClient(t)

	err := c.AddResponses(
		Seq(Respond(204)),
		ForType("GetUser", Respond(200)),
		ForType("GetUser", Respond(500)),
	)

	assert.ErrorIs(t, err, ErrDuplicateMatchKey)
	assert.True(t, c.IsEmpty())
}

func TestAddResponses_SameKeyDifferentKinds(t *testing.T) {
	c := newClient(t)

	err := c.AddResponses(
		ForType("health", Respond(200)),
		ForURL("health", Respond(201)),
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"health", "health"}, c.Keys())
}

func TestAddResponses_InvalidRegistrationRegistersNothing(t *testing.T) {
	c := newClient(t)

	err := c.AddResponses(
		ForType("GetUser", Respond(200)),
		Registration{Method: "bogus", Item: Respond(200)},
	)

	assert.ErrorIs(t, err, ErrInvalidCaptureMethod)
	assert.False(t, errors.Is(err, ErrDuplicateMatchKey))
	assert.True(t, c.IsEmpty())
}

func TestAddResponseMap_SortedRegistration(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponseMap(map[string]Item{
		"":         Respond(204),
		"GetUser":  Respond(200),
		"/b/*":     Respond(201),
		"/a/*":     Respond(202),
		"CreateMe": Respond(203),
	}))

	assert.Equal(t, 1, c.SequenceLen())
	assert.Equal(t, []string{"CreateMe", "GetUser", "/a/*", "/b/*"}, c.Keys())
}

func TestAddResponseMap_Duplicate(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.AddResponseMap(map[string]Item{"GetUser": Respond(200)}))

	err := c.AddResponseMap(map[string]Item{"GetUser": Respond(500)})
	assert.ErrorIs(t, err, ErrDuplicateMatchKey)
}

func TestIsEmpty(t *testing.T) {
	c := newClient(t)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.AddResponse(Respond(200), CaptureAuto, ""))
	assert.False(t, c.IsEmpty())

	mustResolve(t, c, get("", "https://example.com"))
	assert.True(t, c.IsEmpty(), "consumed sequence empties the client")

	require.NoError(t, c.AddResponse(Respond(200), CaptureAuto, "Ping"))
	mustResolve(t, c, get("Ping", "https://example.com"))
	assert.False(t, c.IsEmpty(), "keyed entries persist")
}
