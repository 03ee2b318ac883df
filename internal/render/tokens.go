package render

import (
	"html"
	"strings"
)

const (
	tokenOpen  = "{{"
	tokenClose = "}}"
)

// Values maps token keys to display values.
type Values map[string]string

// Escaped returns a copy with every value HTML-escaped.
func (v Values) Escaped() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = html.EscapeString(value)
	}
	return out
}

// Substitute replaces every {{ key }} in markup in a single left to right
// pass. Substituted values are never rescanned. Tokens without a value are
// kept as written. A "{{" that does not open a valid key is copied through and
// scanning resumes right after its first brace.
func Substitute(markup string, values Values) string {
	if !strings.Contains(markup, tokenOpen) {
		return markup
	}

	var b strings.Builder
	b.Grow(len(markup))
	rest := markup
	for {
		start, end, key, ok := nextToken(rest)
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		if !ok {
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}

		b.WriteString(rest[:start])
		if value, found := values[key]; found {
			b.WriteString(value)
		} else {
			b.WriteString(rest[start:end])
		}
		rest = rest[end:]
	}
}

// Tokens lists the distinct token keys used in markup, in order of first use.
func Tokens(markup string) []string {
	var keys []string
	seen := map[string]bool{}
	rest := markup
	for {
		start, end, key, ok := nextToken(rest)
		if start < 0 {
			return keys
		}
		if !ok {
			rest = rest[start+1:]
			continue
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		rest = rest[end:]
	}
}

// nextToken finds the first "{{" in s and its closing "}}". end is the index
// after the closing braces. start is -1 when no terminated token remains; ok
// reports whether the enclosed text is a valid key.
func nextToken(s string) (start, end int, key string, ok bool) {
	start = strings.Index(s, tokenOpen)
	if start < 0 {
		return -1, 0, "", false
	}
	inner := start + len(tokenOpen)
	closeAt := strings.Index(s[inner:], tokenClose)
	if closeAt < 0 {
		return -1, 0, "", false
	}
	key = strings.TrimSpace(s[inner : inner+closeAt])
	return start, inner + closeAt + len(tokenClose), key, validKey(key)
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
		default:
			return false
		}
	}
	return true
}
