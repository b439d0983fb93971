package matching

import (
	"fmt"
	"sort"
	"strings"
)

// Specificity ranks URL patterns that match the same URL. Fewer wildcards
// win first, then more fixed segments, then more literal characters.
type Specificity struct {
	// Wildcards counts "*" and "{param}" tokens.
	Wildcards int `json:"wildcards"`
	// FixedSegments counts "/"-separated segments without any wildcard.
	FixedSegments int `json:"fixedSegments"`
	// Literal counts characters outside wildcards.
	Literal int `json:"literal"`
}

// Compare returns a positive number when s is more specific than o, a
// negative number when it is less specific and 0 when they tie.
func (s Specificity) Compare(o Specificity) int {
	if s.Wildcards != o.Wildcards {
		return o.Wildcards - s.Wildcards
	}
	if s.FixedSegments != o.FixedSegments {
		return s.FixedSegments - o.FixedSegments
	}
	return s.Literal - o.Literal
}

func (s Specificity) String() string {
	return fmt.Sprintf("wildcards=%d fixed=%d literal=%d", s.Wildcards, s.FixedSegments, s.Literal)
}

func measure(raw string, tokens []token) Specificity {
	var sp Specificity
	for _, t := range tokens {
		if t.kind == tokenLiteral {
			sp.Literal += len(t.text)
		} else {
			sp.Wildcards++
		}
	}

	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg == "" || strings.Contains(seg, "*") || (strings.Contains(seg, "{") && strings.Contains(seg, "}")) {
			continue
		}
		sp.FixedSegments++
	}
	return sp
}

// Ranked is a pattern that matched a URL, with the position it was
// registered at.
type Ranked struct {
	Pattern Pattern
	Index   int
}

// Rank returns the patterns matching rawURL, most specific first. Ties keep
// registration order, i.e. the order of patterns.
func Rank(patterns []Pattern, rawURL string) []Ranked {
	var out []Ranked
	for i, p := range patterns {
		if p.Match(rawURL) {
			out = append(out, Ranked{Pattern: p, Index: i})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pattern.specificity.Compare(out[j].Pattern.specificity) > 0
	})
	return out
}

// Best returns the index of the most specific pattern matching rawURL, or -1.
func Best(patterns []Pattern, rawURL string) int {
	best := -1
	for i, p := range patterns {
		if !p.Match(rawURL) {
			continue
		}
		// Strictly greater keeps the earliest registration on ties.
		if best < 0 || p.specificity.Compare(patterns[best].specificity) > 0 {
			best = i
		}
	}
	return best
}
