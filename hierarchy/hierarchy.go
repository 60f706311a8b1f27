// Package hierarchy stores a transform tree as a flat, parent-first array
// of nodes and resolves global matrices with a single forward pass.
package hierarchy

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
)

var ErrInvalidHierarchy = errors.New("invalid hierarchy")

const noParent = -1

type Node struct {
	Name      string
	Transform r3d.Transform

	// Local is relative to the parent, Global to world space.
	Local  mgl32.Mat4
	Global mgl32.Mat4

	parent int
}

// Parent returns the index of the parent node, ok is false for roots.
func (n *Node) Parent() (index int, ok bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.parent, true
}

func (n *Node) IsRoot() bool { return n.parent == noParent }

// NodeSpec describes a node by its parent's position in the same list.
// Parent is nil for roots.
type NodeSpec struct {
	Name      string
	Parent    *int
	Transform r3d.Transform
}

func ParentIndex(i int) *int { return &i }

// Hierarchy holds nodes so that every parent precedes its children.
type Hierarchy struct {
	nodes []Node
	names map[string]int
}

// New validates specs and builds a hierarchy from them. Every parent must
// appear earlier in the list than the nodes referencing it.
func New(specs []NodeSpec) (*Hierarchy, error) {
	if err := Validate(specs); err != nil {
		return nil, err
	}

	h := &Hierarchy{
		nodes: make([]Node, len(specs)),
		names: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		parent := noParent
		if spec.Parent != nil {
			parent = *spec.Parent
		}
		h.nodes[i] = Node{
			Name:      spec.Name,
			Transform: spec.Transform,
			Local:     mgl32.Ident4(),
			Global:    mgl32.Ident4(),
			parent:    parent,
		}
		if spec.Name != "" {
			if _, dup := h.names[spec.Name]; !dup {
				h.names[spec.Name] = i
			}
		}
	}
	return h, nil
}

// Validate reports out of range, self and forward parent references.
func Validate(specs []NodeSpec) error {
	for i, spec := range specs {
		if spec.Parent == nil {
			continue
		}
		p := *spec.Parent
		switch {
		case p < 0 || p >= len(specs):
			return errors.Wrapf(ErrInvalidHierarchy, "node %d %q: parent index %d out of range [0,%d)",
				i, spec.Name, p, len(specs))
		case p == i:
			return errors.Wrapf(ErrInvalidHierarchy, "node %d %q: parent is itself", i, spec.Name)
		case p > i:
			return errors.Wrapf(ErrInvalidHierarchy, "node %d %q: parent %d %q is not evaluated before it",
				i, spec.Name, p, specs[p].Name)
		}
	}
	return nil
}

func (h *Hierarchy) Len() int { return len(h.nodes) }

func (h *Hierarchy) Node(i int) *Node { return &h.nodes[i] }

func (h *Hierarchy) Index(name string) (int, bool) {
	i, ok := h.names[name]
	return i, ok
}

// UpdateLocals recomputes every local matrix from its transform.
func (h *Hierarchy) UpdateLocals() {
	for i := range h.nodes {
		h.nodes[i].Local = h.nodes[i].Transform.Matrix()
	}
}

// Evaluate resolves global matrices from up to date local matrices.
// Parents are always processed before their children, so one pass in
// array order is enough.
func (h *Hierarchy) Evaluate() {
	for i := range h.nodes {
		n := &h.nodes[i]
		if n.parent == noParent {
			n.Global = n.Local
		} else {
			n.Global = h.nodes[n.parent].Global.Mul4(n.Local)
		}
	}
}

func (h *Hierarchy) Update() {
	h.UpdateLocals()
	h.Evaluate()
}

func (h *Hierarchy) Globals() []mgl32.Mat4 {
	globals := make([]mgl32.Mat4, len(h.nodes))
	for i := range h.nodes {
		globals[i] = h.nodes[i].Global
	}
	return globals
}

// Children lists direct children of node i in array order.
func (h *Hierarchy) Children(i int) []int {
	var childs []int
	for j := i + 1; j < len(h.nodes); j++ {
		if h.nodes[j].parent == i {
			childs = append(childs, j)
		}
	}
	return childs
}

// Specs returns the description the hierarchy could be rebuilt from.
func (h *Hierarchy) Specs() []NodeSpec {
	specs := make([]NodeSpec, len(h.nodes))
	for i := range h.nodes {
		n := &h.nodes[i]
		specs[i] = NodeSpec{Name: n.Name, Transform: n.Transform}
		if p, ok := n.Parent(); ok {
			specs[i].Parent = ParentIndex(p)
		}
	}
	return specs
}
