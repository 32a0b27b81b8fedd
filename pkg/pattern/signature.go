// Package pattern detects runs of structurally similar sibling elements,
// such as cards in a grid or items in a list.
package pattern

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

// DefaultSignatureDepth bounds how far Signature descends.
const DefaultSignatureDepth = 3

type sigFrame struct {
	el    dom.Element
	kids  []dom.Element
	depth int
	parts []string
}

func newSigFrame(el dom.Element, depth int) *sigFrame {
	f := &sigFrame{el: el, depth: depth}
	if depth > 0 {
		f.kids = el.Children()
	}
	return f
}

// Signature returns the tag-tree fingerprint of el down to maxDepth levels:
// "tag" for a leaf or at depth 0, otherwise "tag[child,child,...]".
// Text and attributes are ignored.
func Signature(el dom.Element, maxDepth int) string {
	if dom.IsNil(el) {
		return ""
	}

	var out string
	stack := []*sigFrame{newSigFrame(el, maxDepth)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top.parts) < len(top.kids) {
			stack = append(stack, newSigFrame(top.kids[len(top.parts)], top.depth-1))
			continue
		}
		stack = stack[:len(stack)-1]

		sig := top.el.TagName()
		if len(top.kids) > 0 {
			sig += "[" + strings.Join(top.parts, ",") + "]"
		}
		if len(stack) == 0 {
			out = sig
		} else {
			parent := stack[len(stack)-1]
			parent.parts = append(parent.parts, sig)
		}
	}
	return out
}

var sigToken = regexp.MustCompile(`[A-Za-z0-9-]+|\[|\]|,`)

// SignatureSimilarity compares two signatures on a 0..100 scale.
//
// This is a bag-of-tokens approximation, not a tree edit distance: the
// tokens of each signature are reduced to sets and the number of tokens
// present on only one side is divided by the longer token list. Two
// different trees built from the same tags can therefore score high.
func SignatureSimilarity(a, b string) float64 {
	if a == b {
		return 100
	}
	ta := sigToken.FindAllString(a, -1)
	tb := sigToken.FindAllString(b, -1)
	longest := max(len(ta), len(tb))
	if longest == 0 {
		return 100
	}

	sa := toSet(ta)
	sb := toSet(tb)
	diff := 0
	for tok := range sa {
		if _, ok := sb[tok]; !ok {
			diff++
		}
	}
	for tok := range sb {
		if _, ok := sa[tok]; !ok {
			diff++
		}
	}

	score := 100 * (1 - float64(diff)/float64(longest))
	return min(max(score, 0), 100)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
