package taxonomy

// DescendantFilter is a membership test fixed to one target ancestor. Every
// candidate check reduces to a prefix comparison against the target's
// extended path, independent of tree depth below that prefix.
type DescendantFilter struct {
	tree   *Tree
	target *Node
	prefix []int64 // ancestry(target) + target id
}

// DescendantFilterByName resolves the target by scientific name. An unknown
// name fails with ErrNotFound before any record is processed.
func (t *Tree) DescendantFilterByName(name string) (*DescendantFilter, error) {
	n, err := t.NodeByName(name)
	if err != nil {
		return nil, err
	}
	return t.newDescendantFilter(n), nil
}

// DescendantFilterByID resolves the target by taxon id.
func (t *Tree) DescendantFilterByID(id int64) (*DescendantFilter, error) {
	n, err := t.NodeByID(id)
	if err != nil {
		return nil, err
	}
	return t.newDescendantFilter(n), nil
}

func (t *Tree) newDescendantFilter(target *Node) *DescendantFilter {
	return &DescendantFilter{tree: t, target: target, prefix: extendedPath(target)}
}

// Target returns the fixed ancestor node.
func (f *DescendantFilter) Target() *Node { return f.target }

// Contains reports whether the candidate is the target or one of its
// descendants: the candidate's extended path must have the target's extended
// path as a prefix.
func (f *DescendantFilter) Contains(c *Node) bool {
	if c.ID == f.target.ID {
		return true
	}
	if len(c.ancestry) < len(f.prefix) {
		return false
	}
	for i, id := range f.prefix {
		if c.ancestry[i] != id {
			return false
		}
	}
	return true
}

// ContainsID tests a candidate by taxon id; unknown ids are not members.
func (f *DescendantFilter) ContainsID(id int64) bool {
	n, err := f.tree.NodeByID(id)
	if err != nil {
		return false
	}
	return f.Contains(n)
}

// ContainsName tests a candidate by scientific name; unknown names are not
// members.
func (f *DescendantFilter) ContainsName(name string) bool {
	n, err := f.tree.NodeByName(name)
	if err != nil {
		return false
	}
	return f.Contains(n)
}
