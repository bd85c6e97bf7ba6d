package taxonomy

import (
	"errors"
	"testing"
)

// buildFixture loads the small reference tree used across the package tests:
//
//	1 root
//	├── 2 Bacteria (superkingdom)
//	│   └── 3 Proteobacteria (phylum)
//	│       └── 4 Escherichia (genus)
//	│           └── 5 Escherichia coli (species)
//	└── 6 Archaea (superkingdom)
func buildFixture(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	inserts := []struct {
		id       int64
		name     string
		rank     string
		parentID int64
	}{
		{1, "root", "no rank", 0},
		{2, "Bacteria", "superkingdom", 1},
		{3, "Proteobacteria", "phylum", 2},
		{4, "Escherichia", "genus", 3},
		{5, "Escherichia coli", "species", 4},
		{6, "Archaea", "superkingdom", 1},
	}
	for _, in := range inserts {
		if err := tree.Insert(in.id, in.name, in.rank, in.parentID); err != nil {
			t.Fatalf("insert %d: %v", in.id, err)
		}
	}
	if err := tree.Index(); err != nil {
		t.Fatalf("index: %v", err)
	}
	return tree
}

func TestInsertDuplicateID(t *testing.T) {
	tree := NewTree()
	if err := tree.Insert(1, "root", "no rank", 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := tree.Insert(1, "other", "no rank", 0)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if tree.Len() != 1 {
		t.Fatalf("failed insert mutated the tree: %d nodes", tree.Len())
	}
}

func TestInsertDuplicateNameLeavesIndicesUntouched(t *testing.T) {
	tree := NewTree()
	if err := tree.Insert(1, "root", "no rank", 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := tree.Insert(2, "root", "no rank", 1)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if tree.ContainsID(2) {
		t.Fatal("id index mutated by failed insert")
	}
	n, lookupErr := tree.NodeByName("root")
	if lookupErr != nil || n.ID != 1 {
		t.Fatalf("name index no longer agrees with id index: %v", lookupErr)
	}
}

func TestLookups(t *testing.T) {
	tree := buildFixture(t)
	n, err := tree.NodeByID(5)
	if err != nil {
		t.Fatalf("node by id: %v", err)
	}
	if n.Name != "Escherichia coli" {
		t.Fatalf("unexpected name %q", n.Name)
	}
	id, err := tree.IDByName("Archaea")
	if err != nil || id != 6 {
		t.Fatalf("id by name: %d, %v", id, err)
	}
	name, err := tree.NameByID(3)
	if err != nil || name != "Proteobacteria" {
		t.Fatalf("name by id: %q, %v", name, err)
	}
	if _, err := tree.NodeByID(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := tree.NodeByName("Martians"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown name, got %v", err)
	}
}

func TestAncestryStringRoundTrip(t *testing.T) {
	tree := buildFixture(t)
	n, err := tree.NodeByID(5)
	if err != nil {
		t.Fatalf("node by id: %v", err)
	}
	s := n.AncestryString()
	if s != "1 2 3 4" {
		t.Fatalf("unexpected ancestry string %q", s)
	}
	ids, err := ParseAncestry(s)
	if err != nil {
		t.Fatalf("parse ancestry: %v", err)
	}
	if len(ids) != 4 || ids[0] != 1 || ids[3] != 4 {
		t.Fatalf("unexpected parsed ancestry %v", ids)
	}
	root, err := tree.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if root.AncestryString() != "" {
		t.Fatalf("root ancestry should be empty, got %q", root.AncestryString())
	}
}

func TestIndexDetectsDanglingParent(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, 1, "root", "no rank", 0)
	mustInsert(t, tree, 2, "child", "no rank", 1)
	mustInsert(t, tree, 3, "orphan", "no rank", 42)
	err := tree.Index()
	if !errors.Is(err, ErrMalformedTaxonomy) {
		t.Fatalf("expected ErrMalformedTaxonomy, got %v", err)
	}
	if tree.Indexed() {
		t.Fatal("tree marked indexed after failed indexing")
	}
}

func TestIndexDetectsCycle(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, 1, "root", "no rank", 0)
	mustInsert(t, tree, 2, "a", "no rank", 3)
	mustInsert(t, tree, 3, "b", "no rank", 2)
	err := tree.Index()
	if !errors.Is(err, ErrMalformedTaxonomy) {
		t.Fatalf("expected ErrMalformedTaxonomy, got %v", err)
	}
}

func TestIndexRequiresSingleRoot(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, 1, "root", "no rank", 0)
	mustInsert(t, tree, 2, "second root", "no rank", 0)
	if err := tree.Index(); !errors.Is(err, ErrMalformedTaxonomy) {
		t.Fatalf("expected ErrMalformedTaxonomy for two roots, got %v", err)
	}

	empty := NewTree()
	if err := empty.Index(); !errors.Is(err, ErrMalformedTaxonomy) {
		t.Fatalf("expected ErrMalformedTaxonomy for empty tree, got %v", err)
	}
}

func TestDepthEqualsAncestryLength(t *testing.T) {
	tree := buildFixture(t)
	for _, tc := range []struct {
		id    int64
		depth int
	}{{1, 0}, {2, 1}, {3, 2}, {4, 3}, {5, 4}, {6, 1}} {
		n, err := tree.NodeByID(tc.id)
		if err != nil {
			t.Fatalf("node %d: %v", tc.id, err)
		}
		if n.Depth() != tc.depth {
			t.Fatalf("node %d: depth %d, want %d", tc.id, n.Depth(), tc.depth)
		}
		if len(n.Ancestry()) != tc.depth {
			t.Fatalf("node %d: ancestry length %d, want %d", tc.id, len(n.Ancestry()), tc.depth)
		}
	}
}

func mustInsert(t *testing.T, tree *Tree, id int64, name, rank string, parentID int64) {
	t.Helper()
	if err := tree.Insert(id, name, rank, parentID); err != nil {
		t.Fatalf("insert %d: %v", id, err)
	}
}
