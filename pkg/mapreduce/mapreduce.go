// Package mapreduce aggregates utility class usage across snapshots.
package mapreduce

import (
	"github.com/dtnitsch/ninja-snatch/models"
)

// Map counts the utility classes of every node in a single snapshot tree.
func Map(root *models.AnnotatedNode) map[string]int {
	counts := make(map[string]int)
	if root == nil {
		return counts
	}
	stack := []*models.AnnotatedNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.ClassList {
			counts[c]++
		}
		stack = append(stack, n.Children...)
	}
	return counts
}

// Reduce aggregates a slice of class count maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for class, count := range counts {
			finalResults[class] += count
		}
	}

	return finalResults
}
