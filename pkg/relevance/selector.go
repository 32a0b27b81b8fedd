package relevance

import (
	"strings"
)

// legacy single-colon pseudo-elements
var pseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
	"selection": true, "placeholder": true, "marker": true, "backdrop": true,
	"file-selector-button": true, "cue": true,
}

// pseudo-classes that depend on interaction, form state or sibling position
var statePseudoClasses = map[string]bool{
	"hover": true, "focus": true, "focus-within": true, "focus-visible": true,
	"active": true, "visited": true, "link": true, "any-link": true, "target": true,
	"checked": true, "indeterminate": true, "disabled": true, "enabled": true,
	"default": true, "required": true, "optional": true, "valid": true, "invalid": true,
	"user-valid": true, "user-invalid": true, "in-range": true, "out-of-range": true,
	"read-only": true, "read-write": true, "placeholder-shown": true, "autofill": true,
	"empty": true, "open": true, "closed": true, "modal": true, "popover-open": true,
	"fullscreen": true, "playing": true, "paused": true,
	"first-child": true, "last-child": true, "only-child": true,
	"first-of-type": true, "last-of-type": true, "only-of-type": true,
	"nth-child": true, "nth-last-child": true, "nth-of-type": true, "nth-last-of-type": true,
}

// SplitSelectorList splits a selector list on commas that are not nested
// inside parentheses, attribute brackets or strings.
func SplitSelectorList(list string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\\':
			i++
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			if part := strings.TrimSpace(list[start:i]); part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(list[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

// BaseSelector removes pseudo-elements and state pseudo-classes from a
// single complex selector. A compound left empty becomes "*" so that
// combinators keep a subject.
func BaseSelector(sel string) string {
	s := strings.TrimSpace(sel)
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			sb.WriteString(s[i : i+2])
			i += 2
		case c == '"' || c == '\'' || c == '[':
			end := skipBlock(s, i)
			sb.WriteString(s[i:end])
			i = end
		case c == ':':
			j := i + 1
			double := j < len(s) && s[j] == ':'
			if double {
				j++
			}
			nameStart := j
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			name := strings.ToLower(s[nameStart:j])
			end := j
			if end < len(s) && s[end] == '(' {
				end = skipBlock(s, end)
			}
			if double || pseudoElements[name] || statePseudoClasses[name] {
				if compoundEmpty(sb.String()) && boundaryAt(s, end) {
					sb.WriteByte('*')
				}
				i = end
				continue
			}
			sb.WriteString(s[i:end])
			i = end
		default:
			sb.WriteByte(c)
			i++
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "*"
	}
	return out
}

// skipBlock returns the index just past the string, bracket or
// parenthesized group starting at i.
func skipBlock(s string, i int) int {
	open := s[i]
	switch open {
	case '"', '\'':
		for j := i + 1; j < len(s); j++ {
			if s[j] == '\\' {
				j++
				continue
			}
			if s[j] == open {
				return j + 1
			}
		}
		return len(s)
	}
	closer := byte(')')
	if open == '[' {
		closer = ']'
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"', '\'':
			j = skipBlock(s, j) - 1
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return len(s)
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

func compoundEmpty(prefix string) bool {
	if prefix == "" {
		return true
	}
	switch prefix[len(prefix)-1] {
	case ' ', '\t', '\n', '>', '+', '~', '(':
		return true
	}
	return false
}

func boundaryAt(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	switch s[i] {
	case ' ', '\t', '\n', '>', '+', '~', ',', ')':
		return true
	}
	return false
}

var universalSelectors = map[string]bool{
	"*": true, "html": true, "body": true, ":root": true,
}

// IsUniversal reports whether a base selector targets the document root
// or every element.
func IsUniversal(base string) bool {
	return universalSelectors[strings.ToLower(strings.TrimSpace(base))]
}
