package hierarchy

import (
	"bytes"
	"fmt"
	"strings"
)

func (h *Hierarchy) StringNode(i int, spaces string) string {
	n := &h.nodes[i]
	m := n.Global
	return fmt.Sprintf("%snode [%.2d <=%.2d] %s: pos %v rot %v scale %v -> global pos (%.4f %.4f %.4f)\n",
		spaces, i, n.parent, n.Name,
		n.Transform.Position, n.Transform.Rotation, n.Transform.Scale,
		m[12], m[13], m[14])
}

func (h *Hierarchy) StringTree() string {
	var buffer bytes.Buffer
	depth := make([]int, len(h.nodes))
	for i := range h.nodes {
		if p, ok := h.nodes[i].Parent(); ok {
			depth[i] = depth[p] + 1
		}
	}
	var walk func(i int)
	walk = func(i int) {
		buffer.WriteString(h.StringNode(i, strings.Repeat("  ", depth[i])))
		for _, c := range h.Children(i) {
			walk(c)
		}
	}
	for i := range h.nodes {
		if h.nodes[i].IsRoot() {
			walk(i)
		}
	}
	return buffer.String()
}
