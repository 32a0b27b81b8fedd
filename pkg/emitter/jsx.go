package emitter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dtnitsch/ninja-snatch/models"
)

// DefaultComponentName is used when JSX is given no usable name.
const DefaultComponentName = "Snapshot"

var jsxAttrNames = map[string]string{
	"class":           "className",
	"for":             "htmlFor",
	"tabindex":        "tabIndex",
	"readonly":        "readOnly",
	"maxlength":       "maxLength",
	"minlength":       "minLength",
	"colspan":         "colSpan",
	"rowspan":         "rowSpan",
	"srcset":          "srcSet",
	"crossorigin":     "crossOrigin",
	"autocomplete":    "autoComplete",
	"autofocus":       "autoFocus",
	"contenteditable": "contentEditable",
	"enctype":         "encType",
	"http-equiv":      "httpEquiv",
	"accept-charset":  "acceptCharset",
	"frameborder":     "frameBorder",
	"allowfullscreen": "allowFullScreen",
	"viewbox":         "viewBox",
	"novalidate":      "noValidate",
	"spellcheck":      "spellCheck",
	"datetime":        "dateTime",
	"usemap":          "useMap",
}

// JSX renders node as a React function component named name.
// Pattern groups are marked with a comment before their first member.
func JSX(node *models.AnnotatedNode, name string) string {
	name = componentName(name)
	var sb strings.Builder
	fmt.Fprintf(&sb, "export default function %s() {\n  return (\n", name)
	if node != nil {
		writeJSX(&sb, node, 2)
	} else {
		sb.WriteString("    null\n")
	}
	sb.WriteString("  );\n}\n")
	return sb.String()
}

type jsxItem struct {
	node    *models.AnnotatedNode
	comment string
	close   string
	level   int
}

// writeJSX walks the tree with an explicit stack. Closing tags are pushed
// as separate items so they print after the children.
func writeJSX(sb *strings.Builder, root *models.AnnotatedNode, base int) {
	stack := []jsxItem{{node: root, level: base}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		indent := strings.Repeat("  ", it.level)

		switch {
		case it.comment != "":
			sb.WriteString(indent + "{/* " + it.comment + " */}\n")
			continue
		case it.close != "":
			sb.WriteString(indent + "</" + it.close + ">\n")
			continue
		}

		n := it.node
		sb.WriteString(indent + "<" + n.TagName + jsxAttrs(n))
		if isVoid(n.TagName) {
			sb.WriteString(" />\n")
			continue
		}
		if len(n.Children) == 0 {
			sb.WriteString(">" + jsxText(n.TextContent) + "</" + n.TagName + ">\n")
			continue
		}
		sb.WriteString(">\n")
		if n.TextContent != "" {
			sb.WriteString(indent + "  " + jsxText(n.TextContent) + "\n")
		}

		starts := make(map[int]string)
		for _, p := range n.Patterns {
			if len(p.Members) > 0 {
				starts[p.Members[0]] = fmt.Sprintf("%s: %d similar elements, avg similarity %.0f%%", p.ID, p.Size, p.AverageSimilarity)
			}
		}
		stack = append(stack, jsxItem{close: n.TagName, level: it.level})
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, jsxItem{node: n.Children[i], level: it.level + 1})
			if c, ok := starts[i]; ok {
				stack = append(stack, jsxItem{comment: c, level: it.level + 1})
			}
		}
	}
}

func jsxAttrs(n *models.AnnotatedNode) string {
	var sb strings.Builder
	if len(n.ClassList) > 0 {
		sb.WriteString(` className=` + jsxValue(strings.Join(n.ClassList, " ")))
	}
	for _, a := range n.Attributes {
		key := strings.ToLower(a.Name)
		if key == "class" || strings.HasPrefix(key, "on") {
			continue
		}
		if key == "style" {
			if obj := styleObject(a.Value); obj != "" {
				sb.WriteString(" style={{" + obj + "}}")
			}
			continue
		}
		if mapped, ok := jsxAttrNames[key]; ok {
			key = mapped
		}
		sb.WriteString(" " + key + "=" + jsxValue(a.Value))
	}
	return sb.String()
}

func jsxValue(v string) string {
	if strings.ContainsAny(v, "\"\\{}\n") {
		return "{" + strconv.Quote(v) + "}"
	}
	return `"` + v + `"`
}

func jsxText(text string) string {
	if strings.ContainsAny(text, "{}<>&") {
		return "{" + strconv.Quote(text) + "}"
	}
	return text
}

// styleObject converts an inline style declaration list to the body of a
// JSX style object.
func styleObject(decls string) string {
	var parts []string
	for _, d := range strings.Split(decls, ";") {
		prop, val, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		prop, val = strings.TrimSpace(prop), strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		parts = append(parts, camelCase(prop)+": "+strconv.Quote(val))
	}
	return strings.Join(parts, ", ")
}

func camelCase(prop string) string {
	if strings.HasPrefix(prop, "--") {
		return strconv.Quote(prop)
	}
	prop = strings.TrimPrefix(prop, "-")
	var sb strings.Builder
	upper := false
	for _, r := range prop {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func componentName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return DefaultComponentName
	}
	return sb.String()
}
