package cssom

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// StyleSheet is the parsed content of one <style> block or linked sheet.
type StyleSheet struct {
	Href  string
	Rules []*Rule
}

// ParseStyleSheet parses CSS text. href identifies the sheet in rule
// sources; inline blocks use "inline".
func ParseStyleSheet(text, href string) (*StyleSheet, error) {
	sheet := &StyleSheet{Href: href}
	if strings.TrimSpace(text) == "" {
		return sheet, nil
	}
	rules, err := parseRules(text, href)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stylesheet %s: %w", href, err)
	}
	sheet.Rules = rules
	return sheet, nil
}

func parseRules(text, source string) ([]*Rule, error) {
	var out []*Rule
	for _, seg := range splitGrouping(text) {
		if seg.name == "" {
			parsed, err := parser.Parse(seg.text)
			if err != nil {
				return nil, err
			}
			for _, r := range parsed.Rules {
				if rule := convertRule(r, source); rule != nil {
					out = append(out, rule)
				}
			}
			continue
		}

		rule := &Rule{
			Kind:    atKind(seg.name),
			AtName:  seg.name,
			Prelude: strings.TrimSpace(seg.prelude),
			Source:  source,
		}
		if seg.block {
			children, err := parseRules(seg.body, source)
			if err != nil {
				return nil, err
			}
			rule.Rules = children
		}
		out = append(out, rule)
	}
	return out, nil
}

// ParseDeclarations parses the body of a style attribute. The tokenizer
// drops a final declaration without a terminating semicolon, so one is
// appended when missing.
func ParseDeclarations(text string) ([]Declaration, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse declarations: %w", err)
	}
	return convertDeclarations(decls), nil
}

func convertRule(r *css.Rule, source string) *Rule {
	if r == nil {
		return nil
	}
	if r.Kind == css.QualifiedRule {
		if strings.TrimSpace(r.Prelude) == "" {
			return nil
		}
		return &Rule{
			Kind:         KindStyle,
			Selector:     strings.TrimSpace(r.Prelude),
			Declarations: convertDeclarations(r.Declarations),
			Source:       source,
		}
	}

	name := strings.ToLower(strings.TrimSpace(r.Name))
	out := &Rule{
		AtName:       name,
		Prelude:      strings.TrimSpace(r.Prelude),
		Declarations: convertDeclarations(r.Declarations),
		Source:       source,
	}
	out.Kind = atKind(name)
	for _, child := range r.Rules {
		if c := convertRule(child, source); c != nil {
			out.Rules = append(out.Rules, c)
		}
	}
	return out
}

func convertDeclarations(list []*css.Declaration) []Declaration {
	out := make([]Declaration, 0, len(list))
	for _, d := range list {
		if d == nil {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		val := strings.TrimSpace(d.Value)
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val, Important: d.Important})
	}
	return out
}
