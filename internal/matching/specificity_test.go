package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificity_Measure(t *testing.T) {
	tests := []struct {
		pattern string
		want    Specificity
	}{
		{"/users/5", Specificity{Wildcards: 0, FixedSegments: 2, Literal: 8}},
		{"/users/*", Specificity{Wildcards: 1, FixedSegments: 1, Literal: 7}},
		{"/users/{id}", Specificity{Wildcards: 1, FixedSegments: 1, Literal: 7}},
		{"*", Specificity{Wildcards: 1}},
		{"https://api.example.com/users", Specificity{Wildcards: 0, FixedSegments: 2, Literal: 29}},
		{"/search?q=*", Specificity{Wildcards: 1, FixedSegments: 1, Literal: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.pattern).Specificity())
		})
	}
}

func TestSpecificity_Compare(t *testing.T) {
	exact := Compile("/users/5").Specificity()
	wild := Compile("/users/*").Specificity()
	deepWild := Compile("/users/5/*").Specificity()
	twoWild := Compile("/*/5/*").Specificity()

	assert.Positive(t, exact.Compare(wild))
	assert.Negative(t, wild.Compare(exact))
	assert.Positive(t, deepWild.Compare(wild), "more fixed segments wins at equal wildcards")
	assert.Positive(t, wild.Compare(twoWild), "fewer wildcards wins first")
	assert.Zero(t, wild.Compare(Compile("/users/{x}").Specificity()))
}

func TestRank(t *testing.T) {
	patterns := []Pattern{
		Compile("*"),
		Compile("/users/*"),
		Compile("/users/5"),
		Compile("/orders/*"),
		Compile("/users/{id}"),
	}

	ranked := Rank(patterns, "https://api.example.com/users/5")
	require.Len(t, ranked, 4)

	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Pattern.String()
	}
	assert.Equal(t, []string{"/users/5", "/users/*", "/users/{id}", "*"}, got)
	assert.Equal(t, 2, ranked[0].Index)
}

func TestBest_RegistrationOrderIndependent(t *testing.T) {
	url := "https://api.example.com/users/5"

	a := []Pattern{Compile("/users/*"), Compile("/users/5")}
	b := []Pattern{Compile("/users/5"), Compile("/users/*")}

	assert.Equal(t, "/users/5", a[Best(a, url)].String())
	assert.Equal(t, "/users/5", b[Best(b, url)].String())
}

func TestBest_TiesKeepEarliest(t *testing.T) {
	patterns := []Pattern{Compile("/users/{id}"), Compile("/users/*")}
	assert.Equal(t, 0, Best(patterns, "https://api.example.com/users/5"))

	assert.Equal(t, -1, Best(patterns, "https://api.example.com/orders/5"))
}
