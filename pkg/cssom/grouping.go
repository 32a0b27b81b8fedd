package cssom

import "strings"

// groupingAtRules hold rules in their block. The tokenizer only nests rules
// for a fixed list of names and reads any other block as declarations, so
// these are cut out of the text and parsed level by level.
var groupingAtRules = map[string]bool{
	"@media":             true,
	"@supports":          true,
	"@container":         true,
	"@layer":             true,
	"@keyframes":         true,
	"@-webkit-keyframes": true,
	"@-moz-keyframes":    true,
	"@-o-keyframes":      true,
}

// segment is either plain CSS (name empty) or one grouping at-rule.
type segment struct {
	text    string
	name    string
	prelude string
	body    string
	block   bool
}

// splitGrouping cuts text at its top-level grouping at-rules, keeping
// source order.
func splitGrouping(text string) []segment {
	var out []segment
	start, depth := 0, 0
	flush := func(end int) {
		if plain := text[start:end]; strings.TrimSpace(plain) != "" {
			out = append(out, segment{text: plain})
		}
	}

	for i := 0; i < len(text); i++ {
		if j := skipOpaque(text, i); j != i {
			i = j
			continue
		}
		switch text[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '@':
			if depth != 0 {
				continue
			}
			name := strings.ToLower(atKeyword(text, i))
			if !groupingAtRules[name] {
				continue
			}
			seg, end := readGrouping(text, i, name)
			flush(i)
			out = append(out, seg)
			start = end
			i = end - 1
		}
	}
	flush(len(text))
	return out
}

// readGrouping reads the at-rule starting at text[at] and returns it with
// the offset just past its end.
func readGrouping(text string, at int, name string) (segment, int) {
	seg := segment{name: name}
	from := at + len(name)
	for i := from; i < len(text); i++ {
		if j := skipOpaque(text, i); j != i {
			i = j
			continue
		}
		switch text[i] {
		case ';':
			seg.prelude = text[from:i]
			return seg, i + 1
		case '{':
			seg.prelude = text[from:i]
			seg.block = true
			closing := matchingBrace(text, i)
			if closing < 0 {
				seg.body = text[i+1:]
				return seg, len(text)
			}
			seg.body = text[i+1 : closing]
			return seg, closing + 1
		}
	}
	seg.prelude = text[from:]
	return seg, len(text)
}

// matchingBrace returns the index of the '}' closing the '{' at open, or -1.
func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		if j := skipOpaque(text, i); j != i {
			i = j
			continue
		}
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipOpaque returns the index of the last byte of a comment or string
// starting at i, or i itself when neither starts there.
func skipOpaque(text string, i int) int {
	switch c := text[i]; {
	case c == '/' && i+1 < len(text) && text[i+1] == '*':
		end := strings.Index(text[i+2:], "*/")
		if end < 0 {
			return len(text) - 1
		}
		return i + 2 + end + 1
	case c == '"' || c == '\'':
		for j := i + 1; j < len(text); j++ {
			switch text[j] {
			case '\\':
				j++
			case c:
				return j
			}
		}
		return len(text) - 1
	}
	return i
}

func atKeyword(text string, at int) string {
	end := at + 1
	for end < len(text) {
		c := text[end]
		if c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			end++
			continue
		}
		break
	}
	return text[at:end]
}

// atKind classifies a lower-case at-rule name.
func atKind(name string) RuleKind {
	switch {
	case name == "@media":
		return KindMedia
	case name == "@supports":
		return KindSupports
	case name == "@container":
		return KindContainer
	case name == "@layer":
		return KindLayer
	case name == "@keyframes", strings.HasPrefix(name, "@-") && strings.HasSuffix(name, "-keyframes"):
		return KindKeyframes
	case name == "@font-face":
		return KindFontFace
	case name == "@import":
		return KindImport
	}
	return KindOther
}
