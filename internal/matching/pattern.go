package matching

import (
	"net/url"
	"strings"
)

// Target is the part of a request URL a pattern is matched against.
type Target int

const (
	// TargetURL matches the whole URL. Used for patterns containing "://".
	TargetURL Target = iota
	// TargetPath matches the URL path. Used for patterns starting with "/".
	TargetPath
	// TargetHostPath matches the URL without its scheme, e.g.
	// "api.example.com/users/*".
	TargetHostPath
)

func (t Target) String() string {
	switch t {
	case TargetURL:
		return "url"
	case TargetPath:
		return "path"
	default:
		return "host+path"
	}
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenStar              // any run of characters, "/" included
	tokenParam             // one or more characters up to the next "/"
)

type token struct {
	kind tokenKind
	text string
}

// Pattern is a compiled URL pattern.
type Pattern struct {
	raw         string
	target      Target
	withQuery   bool
	tokens      []token
	specificity Specificity
}

// IsPattern reports whether key looks like a URL pattern rather than a
// request type name.
func IsPattern(key string) bool {
	return strings.ContainsAny(key, "/*:")
}

// Compile parses a URL pattern. Compilation never fails: any string is a
// valid pattern, an unterminated "{" is taken literally.
func Compile(raw string) Pattern {
	p := Pattern{raw: raw, withQuery: strings.Contains(raw, "?")}

	switch {
	case strings.Contains(raw, "://"):
		p.target = TargetURL
	case strings.HasPrefix(raw, "/"):
		p.target = TargetPath
	default:
		p.target = TargetHostPath
	}

	p.tokens = tokenize(raw)
	p.specificity = measure(raw, p.tokens)
	return p
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Target reports what the pattern is matched against.
func (p Pattern) Target() Target { return p.target }

// Specificity returns the ranking key of the pattern.
func (p Pattern) Specificity() Specificity { return p.specificity }

// Match reports whether rawURL matches the pattern.
func (p Pattern) Match(rawURL string) bool {
	subject, ok := p.subject(rawURL)
	if !ok {
		return false
	}
	return matchTokens(p.tokens, subject)
}

// subject extracts the part of rawURL the pattern applies to. The query is
// only kept when the pattern itself has one; fragments are always dropped.
func (p Pattern) subject(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	var s string
	switch p.target {
	case TargetPath:
		s = u.Path
		if s == "" {
			s = "/"
		}
	case TargetHostPath:
		s = u.Host + u.Path
		if u.Host == "" {
			// Relative request URL: nothing but the path to go on.
			s = strings.TrimPrefix(u.Path, "/")
		}
	default:
		if u.Scheme == "" {
			return "", false
		}
		s = u.Scheme + "://" + u.Host + u.Path
	}

	if p.withQuery && u.RawQuery != "" {
		s += "?" + u.RawQuery
	}
	return s, true
}

func tokenize(raw string) []token {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '*':
			flush()
			// Consecutive stars collapse into one.
			if n := len(tokens); n == 0 || tokens[n-1].kind != tokenStar {
				tokens = append(tokens, token{kind: tokenStar})
			}
		case '{':
			end := strings.IndexByte(raw[i:], '}')
			if end <= 1 {
				lit.WriteByte(c)
				continue
			}
			flush()
			tokens = append(tokens, token{kind: tokenParam, text: raw[i+1 : i+end]})
			i += end
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return tokens
}

// matchTokens matches s against tokens with backtracking. Patterns are short
// and registered per test, so the worst case is never a concern in practice.
func matchTokens(tokens []token, s string) bool {
	if len(tokens) == 0 {
		return s == ""
	}

	switch tok := tokens[0]; tok.kind {
	case tokenLiteral:
		if !strings.HasPrefix(s, tok.text) {
			return false
		}
		return matchTokens(tokens[1:], s[len(tok.text):])
	case tokenParam:
		limit := strings.IndexByte(s, '/')
		if limit < 0 {
			limit = len(s)
		}
		for i := limit; i >= 1; i-- {
			if matchTokens(tokens[1:], s[i:]) {
				return true
			}
		}
		return false
	default:
		for i := len(s); i >= 0; i-- {
			if matchTokens(tokens[1:], s[i:]) {
				return true
			}
		}
		return false
	}
}
