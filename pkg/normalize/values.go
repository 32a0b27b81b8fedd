package normalize

import (
	"strconv"
	"strings"
)

// parseInt reads the leading integer of a CSS length ("17px", "-4px",
// "17.8px" → 17). Values without leading digits are rejected.
func parseInt(v string) (int, bool) {
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	start := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloat reads the leading number of a CSS value ("1.5", "24px", ".5").
func parseFloat(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := 0
	for end < len(v) && (v[end] >= '0' && v[end] <= '9' || v[end] == '.') {
		end++
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(v[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// firstField returns the first whitespace-separated part of v.
func firstField(v string) string {
	if f := strings.Fields(v); len(f) > 0 {
		return f[0]
	}
	return ""
}

// gridColumnCount counts the tracks of a grid-template-columns value.
// repeat(N, ...) contributes N; line names in brackets are ignored.
func gridColumnCount(v string) int {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return 0
	}

	count := 0
	depth := 0
	bracket := false
	var tok strings.Builder
	flush := func() {
		t := tok.String()
		tok.Reset()
		if t == "" {
			return
		}
		if strings.HasPrefix(t, "repeat(") {
			inner := strings.TrimSuffix(strings.TrimPrefix(t, "repeat("), ")")
			if n, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(inner, ",", 2)[0])); err == nil && n > 0 {
				count += n
				return
			}
		}
		count++
	}

	for _, r := range v {
		switch {
		case r == '[' && depth == 0:
			flush()
			bracket = true
		case r == ']' && bracket:
			bracket = false
		case bracket:
		case r == '(':
			depth++
			tok.WriteRune(r)
		case r == ')':
			depth--
			tok.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			flush()
		default:
			tok.WriteRune(r)
		}
	}
	flush()
	return count
}
