package pattern

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"golang.org/x/net/html"
)

// ErrNotElement is returned when the recognizer is handed something that
// is not an element.
var ErrNotElement = errors.New("not an element")

// Group is a run of consecutive similar siblings.
type Group struct {
	Elements       []dom.Element
	Representative dom.Element
	// AverageSimilarity is the mean score of the non-representative
	// members against the representative.
	AverageSimilarity float64
}

// Len returns the number of members.
func (g Group) Len() int {
	return len(g.Elements)
}

// Recognizer clusters sibling elements into pattern groups.
type Recognizer struct {
	Scorer       *Scorer
	Threshold    int
	MinGroupSize int
	// MaxDepth bounds how many levels Analyze descends below the root.
	MaxDepth int
}

// NewRecognizer builds a Recognizer from cfg.
func NewRecognizer(cfg models.Config) *Recognizer {
	return &Recognizer{
		Scorer:       NewScorer(cfg),
		Threshold:    cfg.Threshold,
		MinGroupSize: cfg.MinGroupSize,
		MaxDepth:     cfg.MaxDepth,
	}
}

// FindRepeatingPatterns groups the direct children of parent. Each child is
// compared with the first element of the current run; a score at or above
// Threshold extends the run, anything else closes it and starts a new one.
// Runs shorter than MinGroupSize are dropped.
func (r *Recognizer) FindRepeatingPatterns(parent dom.Element) ([]Group, error) {
	if dom.IsNil(parent) {
		return nil, fmt.Errorf("failed to find repeating patterns: %w", ErrNotElement)
	}

	minSize := max(r.MinGroupSize, 2)
	var groups []Group
	var run []dom.Element
	var scores []int

	flush := func() {
		if len(run) >= minSize {
			groups = append(groups, newGroup(run, scores))
		}
	}

	for _, child := range parent.Children() {
		if len(run) == 0 {
			run = []dom.Element{child}
			scores = nil
			continue
		}
		if score := r.Scorer.Similarity(child, run[0]); score >= r.Threshold {
			run = append(run, child)
			scores = append(scores, score)
			continue
		}
		flush()
		run = []dom.Element{child}
		scores = nil
	}
	flush()

	return groups, nil
}

func newGroup(run []dom.Element, scores []int) Group {
	total := 0
	for _, s := range scores {
		total += s
	}
	avg := 0.0
	if len(scores) > 0 {
		avg = float64(total) / float64(len(scores))
	}
	return Group{
		Elements:          append([]dom.Element(nil), run...),
		Representative:    run[0],
		AverageSimilarity: avg,
	}
}

type analyzeItem struct {
	el    dom.Element
	depth int
}

// Analyze finds pattern groups among root's children and descends into
// every child that was not consumed by a group. Groups are returned in
// document order of their parents.
func (r *Recognizer) Analyze(root dom.Element) ([]Group, error) {
	if dom.IsNil(root) {
		return nil, fmt.Errorf("failed to analyze: %w", ErrNotElement)
	}
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = models.DefaultConfig().MaxDepth
	}

	var all []Group
	stack := []analyzeItem{{el: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		groups, err := r.FindRepeatingPatterns(item.el)
		if err != nil {
			return nil, err
		}
		all = append(all, groups...)

		if item.depth+1 > maxDepth {
			continue
		}
		consumed := make(map[*html.Node]struct{})
		for _, g := range groups {
			for _, m := range g.Elements {
				consumed[m.Node()] = struct{}{}
			}
		}
		children := item.el.Children()
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if _, ok := consumed[c.Node()]; ok {
				continue
			}
			if len(c.Children()) == 0 {
				continue
			}
			stack = append(stack, analyzeItem{el: c, depth: item.depth + 1})
		}
	}
	return all, nil
}
