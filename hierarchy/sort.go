package hierarchy

import (
	"github.com/pkg/errors"
)

// SortTopological reorders specs so parents come first, keeping input
// order among nodes whose parents are already placed. Parent indices in
// the input refer to input positions; the result is renumbered. order[i]
// is the input position of output node i.
func SortTopological(specs []NodeSpec) (sorted []NodeSpec, order []int, err error) {
	childs := make([][]int, len(specs))
	var queue []int
	for i, spec := range specs {
		if spec.Parent == nil {
			queue = append(queue, i)
			continue
		}
		p := *spec.Parent
		if p < 0 || p >= len(specs) || p == i {
			return nil, nil, errors.Wrapf(ErrInvalidHierarchy, "node %d %q: bad parent index %d", i, spec.Name, p)
		}
		childs[p] = append(childs[p], i)
	}

	// breadth first from the roots, each level in input order
	newIndex := make([]int, len(specs))
	for i := range newIndex {
		newIndex[i] = -1
	}
	order = make([]int, 0, len(specs))
	for len(queue) != 0 {
		i := queue[0]
		queue = queue[1:]
		newIndex[i] = len(order)
		order = append(order, i)
		queue = append(queue, childs[i]...)
	}

	if len(order) != len(specs) {
		for i := range specs {
			if newIndex[i] == -1 {
				return nil, nil, errors.Wrapf(ErrInvalidHierarchy, "node %d %q is part of a cycle", i, specs[i].Name)
			}
		}
	}

	sorted = make([]NodeSpec, len(specs))
	for out, in := range order {
		sorted[out] = specs[in]
		if specs[in].Parent != nil {
			sorted[out].Parent = ParentIndex(newIndex[*specs[in].Parent])
		}
	}
	return sorted, order, nil
}
