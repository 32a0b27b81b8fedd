// Package walker turns a captured subtree into the annotated tree the
// emitters render.
package walker

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"github.com/dtnitsch/ninja-snatch/pkg/normalize"
	"github.com/dtnitsch/ninja-snatch/pkg/pattern"
)

const (
	AttrPattern      = "data-pattern"
	AttrPatternIndex = "data-pattern-index"
)

// Walker normalizes every element of a subtree and attaches the pattern
// groups found by the recognizer.
type Walker struct {
	Normalizer *normalize.Normalizer
	Recognizer *pattern.Recognizer
	MaxNodes   int
	MaxDepth   int
}

// New builds a Walker from cfg.
func New(cfg models.Config) *Walker {
	return &Walker{
		Normalizer: normalize.New(cfg),
		Recognizer: pattern.NewRecognizer(cfg),
		MaxNodes:   cfg.MaxNodes,
		MaxDepth:   cfg.MaxDepth,
	}
}

// Result is the annotated tree plus what the walk saw.
type Result struct {
	Root      *models.AnnotatedNode
	Groups    []pattern.Group
	Nodes     int
	Truncated bool
}

type frame struct {
	el     dom.Element
	parent *models.AnnotatedNode
	depth  int
}

// Walk analyzes root for repeating patterns, then builds the annotated
// tree in document order. Walking stops adding nodes once MaxNodes is
// reached and does not descend below MaxDepth; either case marks the
// result as truncated.
func (w *Walker) Walk(root dom.Element) (*Result, error) {
	if dom.IsNil(root) {
		return nil, fmt.Errorf("failed to walk: %w", pattern.ErrNotElement)
	}
	groups, err := w.Recognizer.Analyze(root)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze patterns: %w", err)
	}

	maxNodes, maxDepth := w.limits()
	res := &Result{Groups: groups}
	built := make(map[*html.Node]*models.AnnotatedNode)
	index := make(map[*html.Node]int)

	stack := []frame{{el: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if res.Nodes >= maxNodes {
			res.Truncated = true
			break
		}
		node, err := w.annotate(f.el)
		if err != nil {
			return nil, err
		}
		res.Nodes++
		built[f.el.Node()] = node
		if f.parent == nil {
			res.Root = node
		} else {
			index[f.el.Node()] = len(f.parent.Children)
			f.parent.Children = append(f.parent.Children, node)
		}

		children := f.el.Children()
		if len(children) > 0 && f.depth >= maxDepth {
			res.Truncated = true
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{el: children[i], parent: node, depth: f.depth + 1})
		}
	}

	attachPatterns(groups, built, index)
	return res, nil
}

func (w *Walker) limits() (int, int) {
	def := models.DefaultConfig()
	maxNodes, maxDepth := w.MaxNodes, w.MaxDepth
	if maxNodes <= 0 {
		maxNodes = def.MaxNodes
	}
	if maxDepth <= 0 {
		maxDepth = def.MaxDepth
	}
	return maxNodes, maxDepth
}

func (w *Walker) annotate(el dom.Element) (*models.AnnotatedNode, error) {
	styles, err := w.Normalizer.ExtractStyles(el)
	if err != nil {
		return nil, err
	}
	node := &models.AnnotatedNode{
		TagName:     el.TagName(),
		ClassList:   styles.ClassList,
		Details:     styles.Details,
		TextContent: el.DirectText(),
	}
	for _, a := range el.Attributes() {
		if a.Name == "class" || a.Name == "style" {
			continue
		}
		node.Attributes = append(node.Attributes, models.Attribute{Name: a.Name, Value: a.Value})
	}
	return node, nil
}

// attachPatterns records each group on the annotated node of its parent
// and tags the members. Members cut off by the node budget are left out.
func attachPatterns(groups []pattern.Group, built map[*html.Node]*models.AnnotatedNode, index map[*html.Node]int) {
	for i, g := range groups {
		if g.Representative == nil {
			continue
		}
		parent := built[g.Representative.Node().Parent]
		if parent == nil {
			continue
		}
		ref := models.PatternRef{
			ID:                fmt.Sprintf("pattern-%d", i+1),
			Size:              g.Len(),
			AverageSimilarity: g.AverageSimilarity,
		}
		for k, m := range g.Elements {
			node, ok := built[m.Node()]
			if !ok {
				continue
			}
			node.SetAttr(AttrPattern, ref.ID)
			node.SetAttr(AttrPatternIndex, fmt.Sprint(k))
			ref.Members = append(ref.Members, index[m.Node()])
		}
		if len(ref.Members) > 0 {
			parent.Patterns = append(parent.Patterns, ref)
		}
	}
}

// Clone copies the subtree without reading any style. Class lists and
// inline styles are kept as authored. At most maxNodes nodes are copied
// when maxNodes is positive.
func Clone(root dom.Element, maxNodes int) *models.AnnotatedNode {
	if dom.IsNil(root) {
		return nil
	}
	type cloneFrame struct {
		el     dom.Element
		parent *models.AnnotatedNode
	}

	var out *models.AnnotatedNode
	count := 0
	stack := []cloneFrame{{el: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if maxNodes > 0 && count >= maxNodes {
			break
		}
		count++

		node := &models.AnnotatedNode{
			TagName:     f.el.TagName(),
			ClassList:   f.el.ClassList(),
			TextContent: f.el.DirectText(),
		}
		for _, a := range f.el.Attributes() {
			if a.Name != "class" {
				node.Attributes = append(node.Attributes, models.Attribute{Name: a.Name, Value: a.Value})
			}
		}
		if f.parent == nil {
			out = node
		} else {
			f.parent.Children = append(f.parent.Children, node)
		}

		children := f.el.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, cloneFrame{el: children[i], parent: node})
		}
	}
	return out
}
