// Package cssom collects a page's stylesheets into a small rule model and
// resolves computed style for static documents.
package cssom

import (
	"strings"
)

// RuleKind separates the rule categories the matcher treats differently.
type RuleKind int

const (
	KindStyle RuleKind = iota
	KindMedia
	KindSupports
	KindContainer
	KindLayer
	KindKeyframes
	KindFontFace
	KindImport
	KindOther
)

func (k RuleKind) String() string {
	switch k {
	case KindStyle:
		return "style"
	case KindMedia:
		return "media"
	case KindSupports:
		return "supports"
	case KindContainer:
		return "container"
	case KindLayer:
		return "layer"
	case KindKeyframes:
		return "keyframes"
	case KindFontFace:
		return "font-face"
	case KindImport:
		return "import"
	default:
		return "other"
	}
}

// Declaration is one property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important;"
	}
	return d.Property + ": " + d.Value + ";"
}

// Rule is a style rule or an at-rule. Grouping rules (@media, @supports,
// @container, @layer, @keyframes) carry their children in Rules.
type Rule struct {
	Kind         RuleKind
	Selector     string
	AtName       string
	Prelude      string
	Declarations []Declaration
	Rules        []*Rule
	Source       string
}

// Name returns the identifier of a @keyframes rule.
func (r *Rule) Name() string {
	if r.Kind != KindKeyframes {
		return ""
	}
	return strings.Trim(strings.TrimSpace(r.Prelude), `"'`)
}

// Value returns the last value declared for prop.
func (r *Rule) Value(prop string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == prop {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// String renders the rule as CSS text.
func (r *Rule) String() string {
	var sb strings.Builder
	r.write(&sb, 0)
	return sb.String()
}

func (r *Rule) write(sb *strings.Builder, level int) {
	indent := strings.Repeat("  ", level)
	sb.WriteString(indent)
	switch r.Kind {
	case KindStyle:
		sb.WriteString(r.Selector)
	default:
		sb.WriteString(r.AtName)
		if r.Prelude != "" {
			sb.WriteString(" ")
			sb.WriteString(r.Prelude)
		}
	}

	statement := len(r.Declarations) == 0 && len(r.Rules) == 0 && (r.Kind == KindOther || r.Kind == KindLayer)
	if r.Kind == KindImport || statement {
		sb.WriteString(";\n")
		return
	}

	sb.WriteString(" {\n")
	for _, d := range r.Declarations {
		sb.WriteString(indent)
		sb.WriteString("  ")
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	for _, child := range r.Rules {
		child.write(sb, level+1)
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}

// Clone returns a deep copy of r.
func (r *Rule) Clone() *Rule {
	out := *r
	out.Declarations = append([]Declaration(nil), r.Declarations...)
	out.Rules = nil
	for _, c := range r.Rules {
		out.Rules = append(out.Rules, c.Clone())
	}
	return &out
}
