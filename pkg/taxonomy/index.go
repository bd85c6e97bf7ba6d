package taxonomy

import (
	"fmt"
	"sort"
)

// Index computes every node's ancestry path in a single breadth-first
// traversal from the root. It must run to completion before any query or
// filter consults the tree; loaders call it before returning the tree.
//
// The child adjacency is derived from the parent pointers here and discarded
// afterwards, never maintained incrementally. A traversal that cannot reach
// every node means the remainder points into a cycle or at a missing id, and
// indexing fails with ErrMalformedTaxonomy naming the smallest offending id.
func (t *Tree) Index() error {
	root, err := t.Root()
	if err != nil {
		return err
	}

	children := make(map[int64][]int64, len(t.byID))
	for _, n := range t.byID {
		if n.ParentID == 0 {
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n.ID)
	}

	root.ancestry = nil
	visited := 1
	queue := []*Node{root}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		kids := children[parent.ID]
		if len(kids) == 0 {
			continue
		}
		path := make([]int64, len(parent.ancestry)+1)
		copy(path, parent.ancestry)
		path[len(path)-1] = parent.ID
		for _, id := range kids {
			child := t.byID[id]
			child.ancestry = path
			visited++
			queue = append(queue, child)
		}
	}

	if visited != len(t.byID) {
		return fmt.Errorf("%w: node %d unreachable from root %d",
			ErrMalformedTaxonomy, t.firstUnreachable(root), root.ID)
	}
	t.indexed = true
	return nil
}

// firstUnreachable returns the smallest node id that indexing did not reach.
func (t *Tree) firstUnreachable(root *Node) int64 {
	ids := make([]int64, 0, len(t.byID))
	for id, n := range t.byID {
		if n != root && n.ancestry == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// RestoreNode inserts a node together with its persisted ancestry string.
// The parent id is re-derived from the path's last element. Used by the
// persistence loaders when rebuilding a tree from stored rows.
func (t *Tree) RestoreNode(id int64, name, rank, ancestry string) error {
	path, err := ParseAncestry(ancestry)
	if err != nil {
		return fmt.Errorf("%w: node %d: %v", ErrMalformedTaxonomy, id, err)
	}
	var parentID int64
	if len(path) > 0 {
		parentID = path[len(path)-1]
	}
	if err := t.Insert(id, name, rank, parentID); err != nil {
		return err
	}
	t.byID[id].ancestry = path
	return nil
}

// FinishRestore validates a tree rebuilt from persisted rows and marks it
// indexed. Every stored ancestry id must resolve and the tree must have a
// single root, so a truncated or corrupted snapshot is rejected whole.
func (t *Tree) FinishRestore() error {
	root, err := t.Root()
	if err != nil {
		return err
	}
	for _, n := range t.byID {
		for _, id := range n.ancestry {
			if _, ok := t.byID[id]; !ok {
				return fmt.Errorf("%w: ancestry of %d references missing id %d",
					ErrMalformedTaxonomy, n.ID, id)
			}
		}
		if n != root && len(n.ancestry) == 0 {
			return fmt.Errorf("%w: node %d has no ancestry path", ErrMalformedTaxonomy, n.ID)
		}
	}
	t.indexed = true
	return nil
}
