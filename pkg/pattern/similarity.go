package pattern

import (
	"math"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

// Weights are the per-signal weights of a similarity score.
type Weights = models.Weights

// Scorer computes weighted 0..100 similarity between two elements.
// A Scorer is read-only after construction and safe for concurrent use.
type Scorer struct {
	Weights        Weights
	SignatureDepth int
	// IsStatic filters class names before comparison. Nil means IsStaticClass.
	IsStatic func(string) bool
}

// NewScorer builds a Scorer from cfg.
func NewScorer(cfg models.Config) *Scorer {
	return &Scorer{
		Weights:        cfg.Weights,
		SignatureDepth: cfg.SignatureDepth,
		IsStatic:       IsStaticClass,
	}
}

// Similarity scores a against b. A nil element on either side scores 0.
func (s *Scorer) Similarity(a, b dom.Element) int {
	if dom.IsNil(a) || dom.IsNil(b) {
		return 0
	}
	w := s.Weights

	var score float64
	if a.TagName() == b.TagName() {
		score += w.Tag
	}
	score += w.Structure * s.StructuralSimilarity(a, b) / 100
	score += w.Classes * jaccard(s.staticClasses(a), s.staticClasses(b))
	score += w.Attributes * jaccard(attrKeys(a), attrKeys(b))

	return int(math.Round(score))
}

// StructuralSimilarity compares the bounded signatures of a and b.
func (s *Scorer) StructuralSimilarity(a, b dom.Element) float64 {
	return SignatureSimilarity(Signature(a, s.SignatureDepth), Signature(b, s.SignatureDepth))
}

func (s *Scorer) staticClasses(el dom.Element) map[string]struct{} {
	keep := s.IsStatic
	if keep == nil {
		keep = IsStaticClass
	}
	out := make(map[string]struct{})
	for _, c := range el.ClassList() {
		if keep(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

func attrKeys(el dom.Element) map[string]struct{} {
	attrs := el.Attributes()
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Name)
	}
	return attributeKeys(names)
}
