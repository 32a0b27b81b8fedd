package pattern

import (
	"regexp"
	"strings"
)

// DynamicClassPatterns match class names that are generated by build tools
// or describe per-instance state rather than design intent.
var DynamicClassPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hover|focus|active|disabled|group-hover|focus-within|focus-visible|visited):`), // state variants
	regexp.MustCompile(`^(is|has|js)-`),
	regexp.MustCompile(`--\d+$`), // BEM numeric modifier
	regexp.MustCompile(`__\d+$`),
	regexp.MustCompile(`^\d`),
	regexp.MustCompile(`^(sc|css|jsx)-[a-zA-Z0-9]{5,}$`), // CSS-in-JS
}

// IsStaticClass reports whether name looks like an authored class.
func IsStaticClass(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if isModuleHash(name) {
		return false
	}
	for _, re := range DynamicClassPatterns {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

var (
	moduleHashSuffix = regexp.MustCompile(`_([a-zA-Z0-9]{5,})$`)
	indexedWord      = regexp.MustCompile(`^[a-z]+[0-9]{1,2}$`)
)

// isModuleHash matches the generated suffix of CSS modules (Button_primary__3xYz1).
// The suffix needs a digit, and a lower-case word with a short index
// (card__item2) is authored.
func isModuleHash(name string) bool {
	m := moduleHashSuffix.FindStringSubmatch(name)
	if m == nil {
		return false
	}
	return strings.ContainsAny(m[1], "0123456789") && !indexedWord.MatchString(m[1])
}

var numberedDataAttr = regexp.MustCompile(`^(data-.+?)-\d+$`)

// attributeKeys returns the comparable attribute names of an element.
// class, id and style are ignored; numbered data attributes collapse to
// a wildcard so per-instance ids do not defeat matching.
func attributeKeys(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(n)
		switch n {
		case "class", "id", "style":
			continue
		}
		if strings.HasPrefix(n, "data-") {
			n = numberedDataAttr.ReplaceAllString(n, "$1-*")
		}
		out[n] = struct{}{}
	}
	return out
}

// jaccard is |a∩b| / |a∪b|, defined as 1 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
