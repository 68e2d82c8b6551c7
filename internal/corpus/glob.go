package corpus

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandBraces expands the first balanced {a,b,c} group in pattern into one
// pattern per alternative. Single level, no nesting. Patterns without a
// balanced brace pair come back unchanged.
func ExpandBraces(pattern string) []string {
	if !strings.Contains(pattern, "{") || !strings.Contains(pattern, "}") {
		return []string{pattern}
	}
	pre, rest, _ := strings.Cut(pattern, "{")
	inner, post, ok := strings.Cut(rest, "}")
	if !ok {
		return []string{pattern}
	}
	alts := strings.Split(inner, ",")
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		out = append(out, pre+alt+post)
	}
	return out
}

// NormalizePatterns expands braces and, for every pattern starting with
// "**/", adds a copy with that prefix stripped so tree-wide patterns also
// match top-level files that have no directory component.
func NormalizePatterns(pattern string) []string {
	expanded := ExpandBraces(pattern)
	out := make([]string, 0, len(expanded)*2)
	for _, pat := range expanded {
		out = append(out, pat)
		if strings.HasPrefix(pat, "**/") {
			out = append(out, pat[3:])
		}
	}
	return out
}

// Matches reports whether the forward-slash relative path matches any
// normalized variant of pattern. Shell-style semantics: '*' stops at '/',
// '**' crosses it. Matching is case-sensitive on every host. Patterns that
// fail to compile (unbalanced braces left over after expansion) fall back to
// a literal comparison.
func Matches(path, pattern string) bool {
	for _, pat := range NormalizePatterns(pattern) {
		matched, err := doublestar.Match(pat, path)
		if err != nil {
			matched = pat == path
		}
		if matched {
			return true
		}
	}
	return false
}
