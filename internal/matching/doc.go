// Package matching provides the request matching algorithms behind the mock
// client's keyed responses and assertions.
//
//   - URL patterns: "*" wildcards and "{name}" segment parameters, matched
//     against the full URL, the path, or the scheme-less URL depending on how
//     the pattern is written
//   - Specificity: when several patterns match the same URL, the one with
//     fewer wildcards, more fixed segments and more literal text wins
//   - JSON: structural equality of request bodies and JSONPath lookups
//
// Key types:
//
//   - Pattern: a compiled URL pattern
//   - Specificity: the ranking key of a Pattern
//   - Ranked: a matching pattern together with its registration position
package matching
