package hierarchy

import (
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
)

// Builder appends nodes one at a time. A child can only name a parent
// that was already added, so the result is always parent-first.
type Builder struct {
	specs []NodeSpec
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddRoot(name string, t r3d.Transform) int {
	b.specs = append(b.specs, NodeSpec{Name: name, Transform: t})
	return len(b.specs) - 1
}

func (b *Builder) Add(name string, parent int, t r3d.Transform) (int, error) {
	if parent < 0 || parent >= len(b.specs) {
		return -1, errors.Wrapf(ErrInvalidHierarchy, "node %q: unknown parent %d", name, parent)
	}
	b.specs = append(b.specs, NodeSpec{Name: name, Parent: ParentIndex(parent), Transform: t})
	return len(b.specs) - 1, nil
}

func (b *Builder) Build() (*Hierarchy, error) {
	return New(b.specs)
}
