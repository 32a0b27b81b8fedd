package extract

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/dtnitsch/ninja-snatch/models"
)

// PatternTree renders the containers that hold pattern groups, with each
// group's members listed under it. Containers without groups are kept
// only as the path to ones that have them.
func PatternTree(root *models.AnnotatedNode) string {
	tree := treeprint.New()
	if root == nil {
		return tree.String()
	}
	tree.SetValue(label(root))

	type item struct {
		node   *models.AnnotatedNode
		branch treeprint.Tree
	}
	stack := []item{{node: root, branch: tree}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, p := range it.node.Patterns {
			group := it.branch.AddBranch(fmt.Sprintf("%s ×%d (avg %.0f%%)", p.ID, p.Size, p.AverageSimilarity))
			for _, m := range p.Members {
				if m < len(it.node.Children) {
					group.AddNode(fmt.Sprintf("[%d] %s", m, label(it.node.Children[m])))
				}
			}
		}

		var next []item
		for _, ch := range it.node.Children {
			if !hasPatterns(ch) {
				continue
			}
			next = append(next, item{node: ch, branch: it.branch.AddBranch(label(ch))})
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return tree.String()
}

func hasPatterns(n *models.AnnotatedNode) bool {
	stack := []*models.AnnotatedNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(cur.Patterns) > 0 {
			return true
		}
		stack = append(stack, cur.Children...)
	}
	return false
}

func label(n *models.AnnotatedNode) string {
	var sb strings.Builder
	sb.WriteString(n.TagName)
	if id, ok := n.Attr("id"); ok && id != "" {
		sb.WriteString("#" + id)
	}
	if len(n.ClassList) > 0 {
		sb.WriteString(" ." + strings.Join(n.ClassList, "."))
	}
	return sb.String()
}
