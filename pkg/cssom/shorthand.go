package cssom

import (
	"strings"
)

var sides = [4]string{"top", "right", "bottom", "left"}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// expand rewrites shorthand declarations into their longhands.
// Unknown properties pass through unchanged.
func expand(d Declaration) []Declaration {
	with := func(prop, val string) Declaration {
		return Declaration{Property: prop, Value: val, Important: d.Important}
	}
	parts := splitTopLevel(d.Value, ' ')

	switch d.Property {
	case "margin", "padding":
		vals, ok := boxValues(parts)
		if !ok {
			return nil
		}
		out := make([]Declaration, 0, 4)
		for i, s := range sides {
			out = append(out, with(d.Property+"-"+s, vals[i]))
		}
		return out

	case "border-width", "border-style", "border-color":
		vals, ok := boxValues(parts)
		if !ok {
			return nil
		}
		suffix := strings.TrimPrefix(d.Property, "border-")
		out := make([]Declaration, 0, 4)
		for i, s := range sides {
			out = append(out, with("border-"+s+"-"+suffix, vals[i]))
		}
		return out

	case "border", "border-top", "border-right", "border-bottom", "border-left":
		width, style, color := "medium", "none", "currentcolor"
		for _, p := range parts {
			lp := strings.ToLower(p)
			switch {
			case borderStyles[lp]:
				style = lp
			case lp == "thin" || lp == "medium" || lp == "thick" || startsWithDigit(lp):
				width = lp
			default:
				color = p
			}
		}
		targets := sides[:]
		if d.Property != "border" {
			targets = []string{strings.TrimPrefix(d.Property, "border-")}
		}
		var out []Declaration
		for _, s := range targets {
			out = append(out,
				with("border-"+s+"-width", width),
				with("border-"+s+"-style", style),
				with("border-"+s+"-color", color),
			)
		}
		return out

	case "border-radius":
		horizontal, _, _ := strings.Cut(d.Value, "/")
		vals, ok := boxValues(strings.Fields(horizontal))
		if !ok {
			return nil
		}
		return []Declaration{
			with("border-top-left-radius", vals[0]),
			with("border-top-right-radius", vals[1]),
			with("border-bottom-right-radius", vals[2]),
			with("border-bottom-left-radius", vals[3]),
		}

	case "gap", "grid-gap":
		if len(parts) == 0 {
			return nil
		}
		col := parts[0]
		if len(parts) > 1 {
			col = parts[1]
		}
		return []Declaration{with("row-gap", parts[0]), with("column-gap", col)}

	case "grid-row-gap":
		return []Declaration{with("row-gap", d.Value)}

	case "grid-column-gap":
		return []Declaration{with("column-gap", d.Value)}

	case "flex":
		grow, shrink, basis := flexParts(parts)
		return []Declaration{with("flex-grow", grow), with("flex-shrink", shrink), with("flex-basis", basis)}

	case "flex-flow":
		var out []Declaration
		for _, p := range parts {
			switch p {
			case "row", "row-reverse", "column", "column-reverse":
				out = append(out, with("flex-direction", p))
			case "wrap", "nowrap", "wrap-reverse":
				out = append(out, with("flex-wrap", p))
			}
		}
		return out

	case "background":
		color := "transparent"
		for _, p := range splitTopLevel(d.Value, ' ', ',', '/') {
			if _, ok := parseColor(p); ok {
				color = p
			}
		}
		return []Declaration{with("background-color", color)}

	case "font":
		return expandFont(parts, with)
	}
	return []Declaration{d}
}

// boxValues applies the 1-to-4 value rule of box shorthands.
func boxValues(parts []string) ([4]string, bool) {
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}, true
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}, true
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}, true
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}, true
	}
	return [4]string{}, false
}

func flexParts(parts []string) (grow, shrink, basis string) {
	grow, shrink, basis = "0", "1", "auto"
	isNumber := func(s string) bool {
		num, unit := splitNumber(s)
		return num != "" && unit == ""
	}
	switch len(parts) {
	case 0:
	case 1:
		switch parts[0] {
		case "none":
			grow, shrink = "0", "0"
		case "auto":
			grow, shrink = "1", "1"
		case "initial":
		default:
			if isNumber(parts[0]) {
				grow, basis = parts[0], "0%"
			} else {
				grow, shrink, basis = "1", "1", parts[0]
			}
		}
	case 2:
		grow = parts[0]
		if isNumber(parts[1]) {
			shrink, basis = parts[1], "0%"
		} else {
			basis = parts[1]
		}
	default:
		grow, shrink, basis = parts[0], parts[1], parts[2]
	}
	return grow, shrink, basis
}

// expandFont handles "[style] [weight] size[/line-height] family".
func expandFont(parts []string, with func(string, string) Declaration) []Declaration {
	var out []Declaration
	for i, p := range parts {
		lp := strings.ToLower(p)
		switch {
		case lp == "bold" || lp == "bolder" || lp == "lighter" || (len(lp) == 3 && strings.HasSuffix(lp, "00")):
			out = append(out, with("font-weight", lp))
		case lp == "italic" || lp == "oblique":
			out = append(out, with("font-style", lp))
		case startsWithDigit(lp) || fontSizeKeywords[lp] > 0:
			size, lh, hasLH := strings.Cut(p, "/")
			out = append(out, with("font-size", size))
			if hasLH {
				out = append(out, with("line-height", lh))
			}
			if i+1 < len(parts) {
				out = append(out, with("font-family", strings.Join(parts[i+1:], " ")))
			}
			return out
		}
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.' || (s[0] == '-' && len(s) > 1))
}

// splitTopLevel splits v on any of seps outside parentheses and quotes.
func splitTopLevel(v string, seps ...rune) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	var quote rune
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	isSep := func(r rune) bool {
		for _, s := range seps {
			if r == s || (s == ' ' && (r == '\t' || r == '\n')) {
				return true
			}
		}
		return false
	}
	for _, r := range v {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case depth == 0 && isSep(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
