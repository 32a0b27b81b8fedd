package models

import "time"

// Attribute is one name/value pair, kept in source order.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// PatternRef describes a pattern group whose members are direct children
// of the node carrying it. Members are indices into Children.
type PatternRef struct {
	ID                string  `json:"id" yaml:"id"`
	Size              int     `json:"size" yaml:"size"`
	AverageSimilarity float64 `json:"average_similarity" yaml:"average_similarity"`
	Members           []int   `json:"members" yaml:"members"`
}

// AnnotatedNode is the tree handed to the code emitters.
type AnnotatedNode struct {
	TagName     string            `json:"tag_name" yaml:"tag_name"`
	ClassList   []string          `json:"class_list,omitempty" yaml:"class_list,omitempty"`
	Details     map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Attributes  []Attribute       `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	TextContent string            `json:"text_content,omitempty" yaml:"text_content,omitempty"`
	Children    []*AnnotatedNode  `json:"children,omitempty" yaml:"children,omitempty"`
	Patterns    []PatternRef      `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Attr returns the value of the named attribute.
func (n *AnnotatedNode) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces or appends an attribute.
func (n *AnnotatedNode) SetAttr(name, value string) {
	for i, a := range n.Attributes {
		if a.Name == name {
			n.Attributes[i].Value = value
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{Name: name, Value: value})
}

// Count returns the number of nodes in the tree rooted at n.
func (n *AnnotatedNode) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	stack := []*AnnotatedNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, cur.Children...)
	}
	return total
}

// Stats are diagnostics about one extraction run.
type Stats struct {
	Nodes              int  `json:"nodes" yaml:"nodes"`
	Patterns           int  `json:"patterns" yaml:"patterns"`
	Rules              int  `json:"rules" yaml:"rules"`
	TotalRules         int  `json:"total_rules" yaml:"total_rules"`
	SkippedSheets      int  `json:"skipped_sheets" yaml:"skipped_sheets"`
	SkippedShadowRoots int  `json:"skipped_shadow_roots" yaml:"skipped_shadow_roots"`
	InvalidSelectors   int  `json:"invalid_selectors" yaml:"invalid_selectors"`
	Truncated          bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// Metadata is page-level context recorded with a snapshot.
type Metadata struct {
	Title              string  `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName           string  `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt            string  `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	DomainType         string  `json:"domain_type,omitempty" yaml:"domain_type,omitempty"`
	Country            string  `json:"country,omitempty" yaml:"country,omitempty"`
	Language           string  `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
}

// Snapshot is the complete result of capturing one element.
type Snapshot struct {
	ID        string         `json:"id" yaml:"id"`
	URL       string         `json:"url,omitempty" yaml:"url,omitempty"`
	Selector  string         `json:"selector" yaml:"selector"`
	Mode      Mode           `json:"mode" yaml:"mode"`
	Live      bool           `json:"live,omitempty" yaml:"live,omitempty"`
	Metadata  Metadata       `json:"metadata" yaml:"metadata"`
	Root      *AnnotatedNode `json:"root" yaml:"root"`
	CSS       string         `json:"css,omitempty" yaml:"css,omitempty"`
	Stats     Stats          `json:"stats" yaml:"stats"`
	Fallback  bool           `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}
