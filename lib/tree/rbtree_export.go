package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

type rbEdge[K any] struct {
	parent K
	child  K
}

// Preorder walk. Both edges of a node are emitted before its subtrees,
// the left subtree before the right one.
func (tree *rbTree[K, V]) edges() []rbEdge[K] {
	if tree.root == nil {
		return nil
	}

	edges := make([]rbEdge[K], 0, tree.Len())
	stack := make([]*rbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, tree.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			edges = append(edges, rbEdge[K]{parent: aux.key, child: aux.left.key})
		}
		if aux.right != nil {
			edges = append(edges, rbEdge[K]{parent: aux.key, child: aux.right.key})
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
	return edges
}

func edgeLines[K any](edges []rbEdge[K]) []string {
	return lo.Map(edges, func(e rbEdge[K], _ int) string {
		return fmt.Sprintf("%v -> %v", e.parent, e.child)
	})
}

// ExportDebugView renders one "parent -> child" line per link.
// It is for humans and visualization tools only.
func (tree *rbTree[K, V]) ExportDebugView() string {
	lines := edgeLines(tree.edges())
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (tree *rbTree[K, V]) ExportGraphviz(w io.Writer) error {
	builder := strings.Builder{}
	builder.WriteString("digraph rb_tree {\n")
	for _, line := range edgeLines(tree.edges()) {
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteString(";\n")
	}
	builder.WriteString("}\n")
	_, err := io.WriteString(w, builder.String())
	return err
}
