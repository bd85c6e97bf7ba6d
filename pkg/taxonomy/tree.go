// Package taxonomy maintains an immutable model of the NCBI taxonomic
// hierarchy and answers ancestry queries against it: lineage retrieval,
// lowest common ancestor, tree distance, and descendant membership tests
// backed by materialized ancestry paths.
package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is a single taxon. Nodes are created during load and never mutated
// afterwards except to attach the ancestry path during indexing.
type Node struct {
	ID       int64
	Name     string
	Rank     string
	ParentID int64 // 0 for the root

	ancestry []int64 // ancestor ids, root to parent; nil until indexed
}

// Depth returns the node's depth in the tree (root is 0). Only meaningful
// after the tree has been indexed.
func (n *Node) Depth() int { return len(n.ancestry) }

// Ancestry returns the ordered ancestor ids from the root down to the node's
// immediate parent. The returned slice is shared; callers must not modify it.
func (n *Node) Ancestry() []int64 { return n.ancestry }

// AncestryString encodes the ancestry path as a space-delimited string, the
// form stored in the persisted taxonomy table. Empty for the root.
func (n *Node) AncestryString() string {
	if len(n.ancestry) == 0 {
		return ""
	}
	parts := make([]string, len(n.ancestry))
	for i, id := range n.ancestry {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, " ")
}

// ParseAncestry decodes a space-delimited ancestry string as produced by
// AncestryString.
func ParseAncestry(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	ids := make([]int64, len(fields))
	for i, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ancestry %q: %w", s, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// Tree owns the full node set and the id/name lookup indices. The two
// indices always describe the same underlying nodes: a failed insert leaves
// both untouched. After Index (or a store load) the tree is read-only and
// safe for concurrent readers.
type Tree struct {
	byID    map[int64]*Node
	byName  map[string]*Node
	indexed bool
}

// NewTree returns an empty, unindexed tree.
func NewTree() *Tree {
	return &Tree{
		byID:   make(map[int64]*Node),
		byName: make(map[string]*Node),
	}
}

// Len returns the number of loaded nodes.
func (t *Tree) Len() int { return len(t.byID) }

// Indexed reports whether ancestry paths have been computed.
func (t *Tree) Indexed() bool { return t.indexed }

// Insert adds a node. parentID 0 marks the root. It fails with
// ErrDuplicateID or ErrDuplicateName without modifying either index.
func (t *Tree) Insert(id int64, name, rank string, parentID int64) error {
	if _, ok := t.byID[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	n := &Node{ID: id, Name: name, Rank: rank, ParentID: parentID}
	t.byID[id] = n
	t.byName[name] = n
	t.indexed = false
	return nil
}

// NodeByID returns the node with the given id or ErrNotFound.
func (t *Tree) NodeByID(id int64) (*Node, error) {
	n, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return n, nil
}

// NodeByName returns the node with the given scientific name or ErrNotFound.
func (t *Tree) NodeByName(name string) (*Node, error) {
	n, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	return n, nil
}

// ContainsID reports whether the tree holds a node with the given id.
func (t *Tree) ContainsID(id int64) bool {
	_, ok := t.byID[id]
	return ok
}

// ContainsName reports whether the tree holds a node with the given name.
func (t *Tree) ContainsName(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// IDByName resolves a scientific name to its taxon id.
func (t *Tree) IDByName(name string) (int64, error) {
	n, err := t.NodeByName(name)
	if err != nil {
		return 0, err
	}
	return n.ID, nil
}

// NameByID resolves a taxon id to its scientific name.
func (t *Tree) NameByID(id int64) (string, error) {
	n, err := t.NodeByID(id)
	if err != nil {
		return "", err
	}
	return n.Name, nil
}

// Root returns the unique parentless node, or ErrMalformedTaxonomy when the
// loaded set has no root or more than one.
func (t *Tree) Root() (*Node, error) {
	var root *Node
	for _, n := range t.byID {
		if n.ParentID != 0 {
			continue
		}
		if root != nil {
			return nil, fmt.Errorf("%w: multiple roots (%d, %d)", ErrMalformedTaxonomy, root.ID, n.ID)
		}
		root = n
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root node", ErrMalformedTaxonomy)
	}
	return root, nil
}

// Nodes calls fn for every node in unspecified order, stopping on the first
// error. Used by the persistence layer to snapshot the tree.
func (t *Tree) Nodes(fn func(*Node) error) error {
	for _, n := range t.byID {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}
